package cli

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

func resolveColorEnabled(mode string, out *os.File) (bool, error) {
	if mode == "" {
		mode = string(colorAuto)
	}
	switch colorMode(mode) {
	case colorAuto, colorAlways, colorNever:
		// valid
	default:
		return false, errors.New("invalid --color value (expected auto|always|never)")
	}
	if colorMode(mode) == colorNever {
		return false, nil
	}
	if os.Getenv("NO_COLOR") != "" {
		return false, nil
	}
	if colorMode(mode) == colorAlways {
		return true, nil
	}
	if out == nil || !isTTY(out) {
		return false, nil
	}
	if os.Getenv("CI") != "" {
		return false, nil
	}
	return true, nil
}

func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyColor(enabled bool) {
	color.NoColor = !enabled
}

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	errText  = color.New(color.FgRed).SprintFunc()
	keyText  = color.New(color.Bold, color.FgCyan).SprintFunc()
)

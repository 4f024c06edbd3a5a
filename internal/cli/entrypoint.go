package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExecuteEntrypoint is the single bootstrap for the jnienv binary.
// It resolves intent from argv[0] (optional user-created symlink/rename) and then runs the Cobra CLI.
func ExecuteEntrypoint() {
	os.Args = rewriteArgsForInvocation(os.Args)
	Execute()
}

func rewriteArgsForInvocation(argv []string) []string {
	if len(argv) == 0 {
		return argv
	}
	base := strings.ToLower(filepath.Base(argv[0]))
	if runtime.GOOS == "windows" {
		base = strings.TrimSuffix(base, ".exe")
	}

	switch base {
	case "jniconf":
		return append([]string{"jnienv", "configure"}, argv[1:]...)
	default:
		return argv
	}
}

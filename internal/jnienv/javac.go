package jnienv

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/divijg19/jnienv/internal/buildenv"
)

var javacVersionTokenRE = regexp.MustCompile(`\bjavac\s+(\d+(?:\.\d+)*(?:_\d+)?(?:[-+][0-9A-Za-z.\-+]+)?)`)

// ParseJavacVersionOutput extracts the version from `javac -version` output,
// e.g. "javac 17.0.9" or "javac 1.8.0_392".
func ParseJavacVersionOutput(out string) (string, error) {
	out = strings.TrimSpace(out)
	m := javacVersionTokenRE.FindStringSubmatch(out)
	if len(m) < 2 {
		return "", fmt.Errorf("unable to parse javac version output: %q", out)
	}
	return m[1], nil
}

// JavacMajor returns the feature release: 8 for "1.8.0_392", 17 for "17.0.9".
func JavacMajor(version string) (int, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "1.")
	if end := strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }); end >= 0 {
		v = v[:end]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid javac version %q", version)
	}
	return n, nil
}

// DetectJavacVersion runs `javac -version`. Older JDKs print to stderr, which
// execCapture merges.
func DetectJavacVersion(javac string) (string, error) {
	out, err := execCapture(javac, []string{"-version"}, "", nil)
	if err != nil {
		return "", fmt.Errorf("%s -version failed: %w: %s", javac, err, out)
	}
	return ParseJavacVersionOutput(out)
}

var javacVersion = DetectJavacVersion

// javacPath resolves the registered JAVAC to a path on disk.
func javacPath(env *buildenv.Environment) (string, bool) {
	reg := env.String(buildenv.JAVAC)
	if reg == "" {
		return "", false
	}
	if filepath.IsAbs(reg) || strings.ContainsRune(reg, filepath.Separator) {
		return reg, true
	}
	return env.WhereIs(reg)
}

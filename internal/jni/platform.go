package jni

import (
	"fmt"
	"strings"
)

// Platform selects the JDK layout and the extra flags a JNI build needs.
type Platform int

const (
	// Generic covers Linux, BSDs, Solaris and native Windows JDKs:
	// <root>/include and <root>/lib.
	Generic Platform = iota
	// AppleDesktop is macOS with the JavaVM framework layout.
	AppleDesktop
	// PosixEmulation is a POSIX layer on Windows (Cygwin, MSYS).
	PosixEmulation
)

func (p Platform) String() string {
	switch p {
	case AppleDesktop:
		return "apple"
	case PosixEmulation:
		return "posix-emulation"
	default:
		return "generic"
	}
}

// ParsePlatform accepts the names printed by String plus a few aliases.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic", "linux", "windows", "solaris", "freebsd", "openbsd", "netbsd":
		return Generic, nil
	case "apple", "darwin", "macos", "osx":
		return AppleDesktop, nil
	case "posix-emulation", "cygwin", "msys":
		return PosixEmulation, nil
	default:
		return Generic, fmt.Errorf("unknown platform %q (expected generic|apple|posix-emulation)", s)
	}
}

// DetectPlatform resolves the platform once per configuration call. A non-empty
// override (manifest or JNIENV_PLATFORM) wins over GOOS sniffing.
func DetectPlatform(goos, override string, src Source) (Platform, error) {
	if strings.TrimSpace(override) == "" && src != nil {
		override, _ = src.Lookup("JNIENV_PLATFORM")
	}
	if strings.TrimSpace(override) != "" {
		return ParsePlatform(override)
	}
	switch goos {
	case "darwin":
		return AppleDesktop, nil
	case "windows":
		if src != nil {
			// bash rarely exports OSTYPE, so MSYSTEM carries most detections.
			if ostype, ok := src.Lookup("OSTYPE"); ok {
				lower := strings.ToLower(ostype)
				if strings.Contains(lower, "cygwin") || strings.Contains(lower, "msys") {
					return PosixEmulation, nil
				}
			}
			if _, ok := src.Lookup("MSYSTEM"); ok {
				return PosixEmulation, nil
			}
		}
	}
	return Generic, nil
}

package jni

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/viper"
)

// Source answers lookups of externally supplied settings such as JAVA_HOME.
// An empty value is reported as unset.
type Source interface {
	Lookup(key string) (string, bool)
}

// MapSource is a fixed set of values.
type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ViperSource reads the process environment through viper.
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource returns a source bound to the process environment.
func NewViperSource() *ViperSource {
	v := viper.New()
	v.AutomaticEnv()
	return &ViperSource{v: v}
}

// Set pins key to value, shadowing the environment.
func (s *ViperSource) Set(key, value string) {
	s.v.Set(key, value)
}

func (s *ViperSource) Lookup(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	val := s.v.GetString(key)
	if val == "" {
		return "", false
	}
	return val, true
}

// Chain consults each source in order; the first hit wins.
type Chain []Source

func (c Chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// PathTranslator rewrites a native path into the POSIX-emulation layer's form.
type PathTranslator func(path string) (string, error)

var cygpathCommand = "cygpath"

// CygpathTranslator runs `cygpath -up <path>` and returns its trimmed output.
func CygpathTranslator(path string) (string, error) {
	cmd := exec.Command(cygpathCommand, "-up", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s -up %q failed: %w: %s", cygpathCommand, path, err, strings.TrimSpace(stderr.String()))
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", fmt.Errorf("%s returned an empty path for %q", cygpathCommand, path)
	}
	return out, nil
}

// internal/config/loader.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

var ErrConfigNotFound = errors.New("jnienv.toml not found; run 'jnienv init' to create one")

// LocateConfig searches from the provided start directory upward for a jnienv.toml file.
// Returns the absolute path to the first match or ErrConfigNotFound.
func LocateConfig(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		start = wd
	}
	start, _ = filepath.Abs(start)

	dir := start
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached root
			break
		}
		dir = parent
	}
	return "", ErrConfigNotFound
}

// Load reads jnienv.toml (starting from startDir upwards) and its includes.
// Returns the config and the path that was loaded.
func Load(startDir string) (*Config, string, error) {
	path, err := LocateConfig(startDir)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("unmarshal base config: %w", err)
	}

	// Resolve include paths relative to the base file (and support .jnienv/ fallbacks)
	baseDir := filepath.Dir(path)
	includes := c.Includes
	if len(includes) == 0 {
		includes = append(includes, parseIncludeList(data)...)
	}
	for _, rel := range includes {
		incPath := rel
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(baseDir, rel)
		}
		if _, err := os.Stat(incPath); err != nil {
			alt := filepath.Join(baseDir, ".jnienv", rel)
			if _, err2 := os.Stat(alt); err2 == nil {
				incPath = alt
			} else {
				continue // skip missing include
			}
		}
		incData, err := os.ReadFile(incPath)
		if err != nil {
			return nil, "", fmt.Errorf("read include %s: %w", incPath, err)
		}
		inc, err := Parse(incData)
		if err != nil {
			return nil, "", fmt.Errorf("unmarshal include %s: %w", incPath, err)
		}
		c.merge(inc)
	}
	if c.Vars == nil {
		c.Vars = VarsMap{}
	}
	return &c, path, nil
}

// rawConfig mirrors Config but leaves [vars] untyped for flexible decoding.
type rawConfig struct {
	Project  Project        `toml:"project"`
	JDK      JDK            `toml:"jdk"`
	Vars     map[string]any `toml:"vars"`
	Includes []string       `toml:"include"`
}

// Parse decodes a single manifest without following includes.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}
	return toTyped(raw)
}

// toTyped converts rawConfig into the strongly-typed Config.
func toTyped(r rawConfig) (Config, error) {
	c := Config{
		Project:  r.Project,
		JDK:      r.JDK,
		Includes: r.Includes,
	}
	// include placed after [vars] decodes as vars.include.
	if raw, ok := r.Vars["include"]; ok {
		delete(r.Vars, "include")
		if len(c.Includes) == 0 {
			v, err := varFromAny(raw)
			if err != nil {
				return Config{}, fmt.Errorf("include: %w", err)
			}
			if v.IsList {
				c.Includes = v.Items
			} else {
				c.Includes = []string{v.Scalar}
			}
		}
	}
	if len(r.Vars) > 0 {
		vm := make(VarsMap, len(r.Vars))
		for name, raw := range r.Vars {
			v, err := varFromAny(raw)
			if err != nil {
				return Config{}, fmt.Errorf("var %q: %w", name, err)
			}
			vm[name] = v
		}
		c.Vars = vm
	}
	return c, nil
}

var includeRE = regexp.MustCompile(`(?m)^\s*include\s*=\s*\[([^\]]*)\]`)

// parseIncludeList extracts a top-level include array as []string from TOML bytes.
func parseIncludeList(b []byte) []string {
	// Simple, lenient single-line parser: include = ["a.toml", "b.toml"]
	m := includeRE.FindStringSubmatch(string(b))
	if len(m) < 2 {
		return nil
	}
	var out []string
	for _, p := range strings.Split(m[1], ",") {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, "\"")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

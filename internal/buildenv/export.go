package buildenv

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatEnv   Format = "env"
	FormatShell Format = "shell"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

var Formats = []Format{FormatEnv, FormatShell, FormatJSON, FormatYAML, FormatTOML}

func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatEnv, nil
	}
	if s == "sh" {
		return FormatShell, nil
	}
	if s == "yml" {
		return FormatYAML, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (expected env|shell|json|yaml|toml)", s)
}

// pathVars are joined with the OS path-list separator when flattened.
var pathVars = map[string]struct{}{
	CPPPATH:    {},
	LIBPATH:    {},
	JNICPPPATH: {},
	JNILIBPATH: {},
}

// Flatten renders one variable as a single string: path lists joined with
// the OS path-list separator, other lists with spaces.
func (e *Environment) Flatten(key string) string {
	v, ok := e.vars[key]
	if !ok {
		return ""
	}
	if !v.IsList {
		return v.Scalar
	}
	if _, ok := pathVars[key]; ok {
		return strings.Join(v.Items, string(os.PathListSeparator))
	}
	return strings.Join(v.Items, " ")
}

// Map returns the selected variables as scalars and string slices. A nil keys
// slice selects every variable.
func (e *Environment) Map(keys []string) map[string]any {
	if keys == nil {
		keys = e.Keys()
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		v, ok := e.vars[k]
		if !ok {
			continue
		}
		if v.IsList {
			items := v.Items
			if items == nil {
				items = []string{}
			}
			out[k] = append([]string{}, items...)
		} else {
			out[k] = v.Scalar
		}
	}
	return out
}

// Export writes the selected variables to w in the requested format.
// Output is deterministic: keys are always sorted.
func Export(w io.Writer, e *Environment, keys []string, format Format) error {
	keys = selectKeys(e, keys)
	switch format {
	case FormatEnv, "":
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s=%s\n", k, e.Flatten(k)); err != nil {
				return err
			}
		}
		return nil
	case FormatShell:
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "export %s=%s\n", k, ShellQuote(e.Flatten(k))); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(e.Map(keys))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(e.Map(keys)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		b, err := toml.Marshal(e.Map(keys))
		if err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func selectKeys(e *Environment, keys []string) []string {
	if keys == nil {
		return e.Keys()
	}
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	out := make([]string, 0, len(keys))
	for _, k := range e.Keys() {
		if _, ok := want[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// ShellQuote single-quotes s for POSIX shells.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

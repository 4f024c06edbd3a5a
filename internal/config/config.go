// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest looked up from the working directory upward.
const FileName = "jnienv.toml"

type Project struct {
	Name string `toml:"name"`
}

// JDK tunes JDK discovery. Empty fields fall back to the environment and
// built-in defaults.
type JDK struct {
	JavaHome       string   `toml:"java_home"`
	Javac          string   `toml:"javac"`
	Platform       string   `toml:"platform"`
	FrameworkPath  string   `toml:"framework_path"`
	SystemPrefixes []string `toml:"system_prefixes"`
	HeaderSubdirs  []string `toml:"header_subdirs"`
}

// Var is a seed build variable: a string or a list of strings.
type Var struct {
	Scalar string
	Items  []string
	IsList bool
}

// VarsMap decodes [vars] where values may be strings or string arrays.
type VarsMap map[string]Var

type Config struct {
	Project Project `toml:"project"`
	JDK     JDK     `toml:"jdk"`
	Vars    VarsMap `toml:"vars"`
	// Include allows splitting configuration across files. Paths are relative
	// to the main manifest; .jnienv/ is tried when a file is not found there.
	Includes []string `toml:"include"`
}

// merge overlays inc onto c: [vars] keys and non-empty [jdk] fields win.
func (c *Config) merge(inc Config) {
	if inc.Project.Name != "" {
		c.Project.Name = inc.Project.Name
	}
	j := inc.JDK
	if j.JavaHome != "" {
		c.JDK.JavaHome = j.JavaHome
	}
	if j.Javac != "" {
		c.JDK.Javac = j.Javac
	}
	if j.Platform != "" {
		c.JDK.Platform = j.Platform
	}
	if j.FrameworkPath != "" {
		c.JDK.FrameworkPath = j.FrameworkPath
	}
	if j.SystemPrefixes != nil {
		c.JDK.SystemPrefixes = j.SystemPrefixes
	}
	if j.HeaderSubdirs != nil {
		c.JDK.HeaderSubdirs = j.HeaderSubdirs
	}
	if inc.Vars != nil {
		if c.Vars == nil {
			c.Vars = VarsMap{}
		}
		for k, v := range inc.Vars {
			c.Vars[k] = v
		}
	}
}

func varFromAny(v any) (Var, error) {
	switch val := v.(type) {
	case string:
		return Var{Scalar: val}, nil
	case []any:
		items, err := toStringSlice(val)
		if err != nil {
			return Var{}, err
		}
		return Var{Items: items, IsList: true}, nil
	default:
		return Var{}, fmt.Errorf("must be a string or an array of strings, got %T", v)
	}
}

// toStringSlice converts a []any to []string with validation.
func toStringSlice(v []any) ([]string, error) {
	out := make([]string, 0, len(v))
	for _, it := range v {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", it)
		}
		out = append(out, s)
	}
	return out, nil
}

// DefaultConfigTemplate is written by `jnienv init`. %s is the project name.
const DefaultConfigTemplate = `# jnienv.toml: JDK discovery and JNI build settings.

# include = ["jnienv.local.toml"]

[project]
name = "%s"

[jdk]
# Overrides $JAVA_HOME when set.
# java_home = "/usr/lib/jvm/java-17-openjdk"
# Registers the Java compiler explicitly instead of searching PATH.
# javac = "/usr/lib/jvm/java-17-openjdk/bin/javac"
# generic | apple | posix-emulation (detected when empty)
# Under Cygwin, OSTYPE is usually not exported to child processes, so
# detection there relies on MSYSTEM. Set this or JNIENV_PLATFORM otherwise.
# platform = ""
# Roots shared with the rest of the system; their platform header
# directories are taken from header_subdirs instead of walking include/.
system_prefixes = ["/usr", "/usr/local"]
header_subdirs = ["win32", "linux", "solaris"]

[vars]
# Seed build variables applied before JNI configuration.
# CPPPATH = ["jni"]
# CCFLAGS = "-O2 -fPIC"
`

// GetDefaultProjectName infers a project name from the current directory.
func GetDefaultProjectName() string {
	wd, err := os.Getwd()
	if err != nil {
		return "my-jni-project"
	}
	return strings.ToLower(filepath.Base(wd))
}

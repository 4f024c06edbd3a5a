// Package buildenv models the mutable set of build variables a native build
// reads: compiler and linker search paths, flags, suffixes and tool paths.
//
// Variables hold either a scalar string or an ordered list of strings. The
// execution environment (ENV) used to look tools up is kept apart from the
// build variables, the same way a build tool separates its own construction
// variables from the environment it spawns commands with.
package buildenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/afero"
)

// Well-known variable names.
const (
	JAVAC       = "JAVAC"
	CPPPATH     = "CPPPATH"
	LIBPATH     = "LIBPATH"
	CCFLAGS     = "CCFLAGS"
	SHLINKFLAGS = "SHLINKFLAGS"
	SHLIBSUFFIX = "SHLIBSUFFIX"
	JavaHome    = "JAVA_HOME"
	JNICPPPATH  = "JNI_CPPPATH"
	JNILIBPATH  = "JNI_LIBPATH"
)

// Value is a single build variable: a scalar or a list.
type Value struct {
	Scalar string
	Items  []string
	IsList bool
}

// Strings returns the value as a list. A scalar becomes a one-element list,
// an empty scalar an empty list.
func (v Value) Strings() []string {
	if v.IsList {
		out := make([]string, len(v.Items))
		copy(out, v.Items)
		return out
	}
	if v.Scalar == "" {
		return nil
	}
	return []string{v.Scalar}
}

// String renders lists space-separated.
func (v Value) String() string {
	if v.IsList {
		return strings.Join(v.Items, " ")
	}
	return v.Scalar
}

// Environment is a build environment. It is not safe for concurrent use.
type Environment struct {
	vars    map[string]Value
	execEnv map[string]string

	// Fs is used by WhereIs. Defaults to the OS filesystem.
	Fs afero.Fs
	// GOOS decides executable naming rules for WhereIs.
	GOOS string
}

// New returns an empty environment whose execution environment carries the
// process PATH.
func New() *Environment {
	e := &Environment{
		vars:    map[string]Value{},
		execEnv: map[string]string{},
		Fs:      afero.NewOsFs(),
		GOOS:    runtime.GOOS,
	}
	if p := os.Getenv("PATH"); p != "" {
		e.execEnv["PATH"] = p
	}
	return e
}

func (e *Environment) Has(key string) bool {
	_, ok := e.vars[key]
	return ok
}

func (e *Environment) Get(key string) (Value, bool) {
	v, ok := e.vars[key]
	if !ok {
		return Value{}, false
	}
	if v.IsList {
		v.Items = append([]string(nil), v.Items...)
	}
	return v, true
}

// String returns the variable rendered as a string, or "" when unset.
func (e *Environment) String(key string) string {
	return e.vars[key].String()
}

// List returns the variable as a list, or nil when unset.
func (e *Environment) List(key string) []string {
	v, ok := e.vars[key]
	if !ok {
		return nil
	}
	return v.Strings()
}

// Set overwrites key with a scalar.
func (e *Environment) Set(key, value string) {
	e.vars[key] = Value{Scalar: value}
}

// SetList overwrites key with a copy of values.
func (e *Environment) SetList(key string, values []string) {
	e.vars[key] = Value{Items: append([]string{}, values...), IsList: true}
}

// Append adds values to the end of a list variable. A scalar already stored
// under key is promoted to the first element of the list.
func (e *Environment) Append(key string, values ...string) {
	cur, ok := e.vars[key]
	var items []string
	if ok {
		items = cur.Strings()
	}
	items = append(items, values...)
	e.vars[key] = Value{Items: items, IsList: true}
}

// AppendFlags tokenizes a flag string with shell quoting rules and appends
// the tokens to key.
func (e *Environment) AppendFlags(key, flags string) error {
	toks, err := shlex.Split(flags)
	if err != nil {
		return fmt.Errorf("parse %s flags %q: %w", key, flags, err)
	}
	e.Append(key, toks...)
	return nil
}

func (e *Environment) Delete(key string) {
	delete(e.vars, key)
}

// Keys returns the variable names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy. The filesystem is shared.
func (e *Environment) Clone() *Environment {
	c := &Environment{
		vars:    make(map[string]Value, len(e.vars)),
		execEnv: make(map[string]string, len(e.execEnv)),
		Fs:      e.Fs,
		GOOS:    e.GOOS,
	}
	for k, v := range e.vars {
		if v.IsList {
			v.Items = append([]string{}, v.Items...)
		}
		c.vars[k] = v
	}
	for k, v := range e.execEnv {
		c.execEnv[k] = v
	}
	return c
}

func (e *Environment) ExecEnv(key string) string {
	return e.execEnv[key]
}

func (e *Environment) SetExecEnv(key, value string) {
	e.execEnv[key] = value
}

// WhereIs searches the execution PATH for an executable named prog and
// returns its path.
func (e *Environment) WhereIs(prog string) (string, bool) {
	if prog == "" {
		return "", false
	}
	candidates := []string{prog}
	if e.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(prog), ".exe") {
		candidates = append([]string{prog + ".exe"}, candidates...)
	}
	for _, dir := range strings.Split(e.execEnv["PATH"], string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if e.IsExecutable(p) {
				return p, true
			}
		}
	}
	return "", false
}

// IsExecutable reports whether path names a runnable file on Fs. Windows
// accepts any regular file.
func (e *Environment) IsExecutable(path string) bool {
	fsys := e.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	st, err := fsys.Stat(path)
	if err != nil || st.IsDir() {
		return false
	}
	if e.GOOS == "windows" {
		return true
	}
	return st.Mode()&0o111 != 0
}

// DetectTools registers JAVAC from PATH unless it is already set.
func (e *Environment) DetectTools() {
	if e.Has(JAVAC) {
		return
	}
	if p, ok := e.WhereIs("javac"); ok {
		e.Set(JAVAC, p)
	}
}

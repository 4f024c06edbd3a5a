package jnienv

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/divijg19/jnienv/internal/buildenv"
)

func execCapture(name string, args []string, dir string, env []string) (string, error) {
	cmd := exec.Command(name, args...)
	if dir != "" {
		cmd.Dir = filepath.Clean(dir)
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

// CgoEnv renders the JNI include and library paths as cgo flags, appended to
// any CGO_CFLAGS/CGO_LDFLAGS already present in base. Shared-library link
// flags are carried over except -dynamiclib, which cgo executables cannot use.
func CgoEnv(env *buildenv.Environment, base map[string]string) map[string]string {
	var cflags, ldflags []string
	if prev := strings.TrimSpace(base["CGO_CFLAGS"]); prev != "" {
		cflags = append(cflags, prev)
	}
	if prev := strings.TrimSpace(base["CGO_LDFLAGS"]); prev != "" {
		ldflags = append(ldflags, prev)
	}
	for _, h := range env.List(buildenv.JNICPPPATH) {
		cflags = append(cflags, cgoQuote("-I"+h))
	}
	for _, l := range env.List(buildenv.JNILIBPATH) {
		ldflags = append(ldflags, cgoQuote("-L"+l))
	}
	for _, f := range env.List(buildenv.SHLINKFLAGS) {
		if f == "-dynamiclib" {
			continue
		}
		ldflags = append(ldflags, cgoQuote(f))
	}
	return map[string]string{
		"CGO_CFLAGS":  strings.Join(cflags, " "),
		"CGO_LDFLAGS": strings.Join(ldflags, " "),
	}
}

func cgoQuote(s string) string {
	if !strings.ContainsAny(s, " \t'\"") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ExportEnv builds the KEY=VALUE list a child process runs with: the process
// environment, then the configured variables, then the cgo flags. Keys are
// sorted.
func ExportEnv(env *buildenv.Environment, keys []string) []string {
	base := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		base[k] = v
	}
	if p := env.ExecEnv("PATH"); p != "" {
		base["PATH"] = p
	}
	for _, k := range keys {
		if env.Has(k) {
			base[k] = env.Flatten(k)
		}
	}
	for k, v := range CgoEnv(env, base) {
		base[k] = v
	}

	names := make([]string, 0, len(base))
	for k := range base {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, k := range names {
		out = append(out, k+"="+base[k])
	}
	return out
}

// Exec configures the environment under startDir and runs argv with it,
// streaming stdio.
func Exec(startDir string, argv []string, opts Options) error {
	if len(argv) == 0 {
		return errors.New("command must not be empty")
	}
	res, err := Configure(startDir, opts)
	if err != nil {
		return err
	}
	env := ExportEnv(res.Env, res.Layout.Keys())
	exe, err := resolveExecutable(res.Env, argv[0])
	if err != nil {
		return err
	}
	cmd := exec.Command(exe, argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

// resolveExecutable finds cmd the way a shell would, using the PATH and
// filesystem of env.
func resolveExecutable(env *buildenv.Environment, cmd string) (string, error) {
	if cmd == "" {
		return "", errors.New("empty executable")
	}
	if filepath.IsAbs(cmd) {
		return cmd, nil
	}
	if strings.ContainsRune(cmd, os.PathSeparator) || strings.ContainsRune(cmd, '/') {
		abs, err := filepath.Abs(cmd)
		if err != nil {
			return "", err
		}
		if !env.IsExecutable(abs) {
			return "", fmt.Errorf("%s is not an executable file", abs)
		}
		return abs, nil
	}
	if p, ok := env.WhereIs(cmd); ok {
		return p, nil
	}
	return "", fmt.Errorf("executable %q not found on PATH", cmd)
}

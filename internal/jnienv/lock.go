package jnienv

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/divijg19/jnienv/internal/buildenv"
)

const (
	LockSchema0  = 0
	LockFileName = "jnienv.lock"
)

// JDKLock pins the JDK a project was configured against.
//
// TOML layout (schema = 0):
//
//	schema = 0
//
//	[jdk]
//	platform = "generic"
//	java_home = "/usr/lib/jvm/java-17"
//	javac = "/usr/lib/jvm/java-17/bin/javac"
//	javac_version = "17.0.9"
//	javac_sha256 = "..." # optional
//	headers = ["/usr/lib/jvm/java-17/include", "/usr/lib/jvm/java-17/include/linux"]
//	libs = ["/usr/lib/jvm/java-17/lib"]
//
// Header order is the discovery order and is kept as is.
type JDKLock struct {
	Platform     string   `toml:"platform"`
	JavaHome     string   `toml:"java_home"`
	Javac        string   `toml:"javac"`
	JavacVersion string   `toml:"javac_version"`
	JavacSHA256  string   `toml:"javac_sha256,omitempty"`
	Headers      []string `toml:"headers"`
	Libs         []string `toml:"libs"`
}

type Lockfile struct {
	Schema int      `toml:"schema"`
	JDK    *JDKLock `toml:"jdk,omitempty"`
}

func ValidateLock(l Lockfile) error {
	if l.Schema != LockSchema0 {
		return fmt.Errorf("unsupported %s schema %d", LockFileName, l.Schema)
	}
	if l.JDK == nil {
		return errors.New("jdk table is required")
	}
	j := l.JDK
	if strings.TrimSpace(j.Platform) == "" {
		return errors.New("jdk.platform is required")
	}
	if strings.TrimSpace(j.JavaHome) == "" {
		return errors.New("jdk.java_home is required")
	}
	if strings.TrimSpace(j.Javac) == "" {
		return errors.New("jdk.javac is required")
	}
	if strings.TrimSpace(j.JavacVersion) == "" {
		return errors.New("jdk.javac_version is required")
	}
	if len(j.Headers) == 0 {
		return errors.New("jdk.headers must not be empty")
	}
	return nil
}

func ReadLock(fsys afero.Fs, path string) (Lockfile, error) {
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Lockfile{}, err
	}
	var l Lockfile
	if err := toml.Unmarshal(b, &l); err != nil {
		return Lockfile{}, fmt.Errorf("parse %s: %w", LockFileName, err)
	}
	if err := ValidateLock(l); err != nil {
		return Lockfile{}, err
	}
	return l, nil
}

// MarshalLock renders a lockfile with a fixed field order.
func MarshalLock(l Lockfile) ([]byte, error) {
	if err := ValidateLock(l); err != nil {
		return nil, err
	}
	j := l.JDK

	var buf bytes.Buffer
	buf.WriteString("schema = 0\n\n")
	buf.WriteString("[jdk]\n")
	writeTOMLKV(&buf, "platform", j.Platform)
	writeTOMLKV(&buf, "java_home", j.JavaHome)
	writeTOMLKV(&buf, "javac", j.Javac)
	writeTOMLKV(&buf, "javac_version", j.JavacVersion)
	if j.JavacSHA256 != "" {
		writeTOMLKV(&buf, "javac_sha256", j.JavacSHA256)
	}
	writeTOMLArray(&buf, "headers", j.Headers)
	writeTOMLArray(&buf, "libs", j.Libs)
	return buf.Bytes(), nil
}

func writeTOMLKV(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(" = ")
	buf.WriteString(tomlQuote(value))
	buf.WriteString("\n")
}

func writeTOMLArray(buf *bytes.Buffer, key string, values []string) {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = tomlQuote(v)
	}
	buf.WriteString(key)
	buf.WriteString(" = [")
	buf.WriteString(strings.Join(quoted, ", "))
	buf.WriteString("]\n")
}

func tomlQuote(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	)
	return "\"" + repl.Replace(s) + "\""
}

// WriteLock overwrites path atomically: temp file in the same directory,
// then rename.
func WriteLock(fsys afero.Fs, path string, l Lockfile) error {
	b, err := MarshalLock(l)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), LockFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = fsys.Remove(tmpName)
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fsys.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return fsys.Rename(tmpName, path)
}

// LockFromResult pins a configured environment: the resolved javac, its
// version and digest, and the discovered directories.
func LockFromResult(res *Result) (Lockfile, error) {
	javac, ok := javacPath(res.Env)
	if !ok {
		return Lockfile{}, fmt.Errorf("resolve %s %q: not found", buildenv.JAVAC, res.Env.String(buildenv.JAVAC))
	}
	ver, err := javacVersion(javac)
	if err != nil {
		return Lockfile{}, err
	}
	// The digest is advisory; a javac we cannot read still locks by version.
	sum, _ := ComputeFileSHA256(res.Env.Fs, javac)

	return Lockfile{
		Schema: LockSchema0,
		JDK: &JDKLock{
			Platform:     res.Layout.Platform.String(),
			JavaHome:     res.Layout.JavaHome,
			Javac:        javac,
			JavacVersion: ver,
			JavacSHA256:  sum,
			Headers:      append([]string(nil), res.Layout.Headers...),
			Libs:         append([]string(nil), res.Layout.Libs...),
		},
	}, nil
}

// Lock configures the project under startDir and writes jnienv.lock next to
// its manifest (or in startDir without one).
func Lock(startDir string, opts Options) (string, Lockfile, error) {
	s, err := NewSession(startDir, opts)
	if err != nil {
		return "", Lockfile{}, err
	}
	res, err := s.Configure()
	if err != nil {
		return "", Lockfile{}, err
	}
	l, err := LockFromResult(res)
	if err != nil {
		return "", Lockfile{}, err
	}
	if err := WriteLock(s.Env.Fs, res.LockPath, l); err != nil {
		return "", Lockfile{}, err
	}
	return res.LockPath, l, nil
}

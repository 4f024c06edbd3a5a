package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/divijg19/jnienv/internal/config"
)

// runJnienv executes the root command in-process with fresh flag values.
func runJnienv(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootDir, rootColor = "", "auto"
	configureFormat, configureAll, configureLock = "env", false, false
	initForce, initName = false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// fakeJDKOnPath creates <dir>/jdk with a javac script and puts its bin on
// PATH with JAVA_HOME cleared.
func fakeJDKOnPath(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses a shebang script as a fake javac")
	}
	jdk := filepath.Join(dir, "jdk")
	writeFile(t, filepath.Join(jdk, "bin", "javac"), "#!/bin/sh\necho \"javac 17.0.9\" 1>&2\n", 0o755)
	writeFile(t, filepath.Join(jdk, "include", "jni.h"), "/* jni */\n", 0o644)
	writeFile(t, filepath.Join(jdk, "include", "linux", "jni_md.h"), "/* md */\n", 0o644)
	if err := os.MkdirAll(filepath.Join(jdk, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", filepath.Join(jdk, "bin")+string(os.PathListSeparator)+"/bin"+string(os.PathListSeparator)+"/usr/bin")
	t.Setenv("JAVA_HOME", "")
	t.Setenv("JNIENV_PLATFORM", "")
	return jdk
}

func TestInitWritesManifest(t *testing.T) {
	dir := t.TempDir()
	out, err := runJnienv(t, "init", "-C", dir, "--name", "Bridge")
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}
	b, err := os.ReadFile(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("read %s: %v", config.FileName, err)
	}
	c, err := config.Parse(b)
	if err != nil {
		t.Fatalf("generated manifest does not parse: %v", err)
	}
	if c.Project.Name != "Bridge" {
		t.Fatalf("expected project name Bridge, got %q", c.Project.Name)
	}
	if !strings.Contains(string(b), "header_subdirs = [") {
		t.Fatalf("expected header_subdirs table, got:\n%s", b)
	}
}

func TestInitDefaultsNameToDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "NativeLib")
	if out, err := runJnienv(t, "init", "-C", dir); err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}
	c, _, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Project.Name != "nativelib" {
		t.Fatalf("expected lowercased directory name, got %q", c.Project.Name)
	}
}

func TestInitRefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.FileName), "[project]\nname = \"keep\"\n", 0o644)

	if _, err := runJnienv(t, "init", "-C", dir); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	if out, err := runJnienv(t, "init", "-C", dir, "--force", "--name", "fresh"); err != nil {
		t.Fatalf("init --force failed: %v\n%s", err, out)
	}
	c, _, err := config.Load(dir)
	if err != nil || c.Project.Name != "fresh" {
		t.Fatalf("expected overwritten manifest, got %+v err=%v", c, err)
	}
}

func TestConfigureExportsLayout(t *testing.T) {
	dir := t.TempDir()
	jdk := fakeJDKOnPath(t, dir)

	out, err := runJnienv(t, "configure", "-C", dir, "--format", "json")
	if err != nil {
		t.Fatalf("configure failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "JAVA_HOME environment variable is not set. Searching for java... found.") {
		t.Fatalf("expected discovery message, got:\n%s", out)
	}
	if !strings.Contains(out, `"JAVA_HOME": "`+jdk+`"`) {
		t.Fatalf("expected JAVA_HOME=%s in output, got:\n%s", jdk, out)
	}
	if !strings.Contains(out, filepath.Join(jdk, "include", "linux")) {
		t.Fatalf("expected platform header dir in output, got:\n%s", out)
	}
}

func TestConfigureFailsWithoutCompiler(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", dir)
	t.Setenv("JAVA_HOME", "")

	out, err := runJnienv(t, "configure", "-C", dir)
	var ee exitError
	if !errors.As(err, &ee) || ee.code != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	if !strings.Contains(out, "The Java Compiler must be installed and in the current path.") {
		t.Fatalf("expected compiler diagnostic, got:\n%s", out)
	}
}

func TestEnvPrintsShellExports(t *testing.T) {
	dir := t.TempDir()
	fakeJDKOnPath(t, dir)
	out, err := runJnienv(t, "env", "-C", dir)
	if err != nil {
		t.Fatalf("env failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "export JAVA_HOME=") || !strings.Contains(out, "export JNI_CPPPATH=") {
		t.Fatalf("expected shell exports, got:\n%s", out)
	}
}

func TestConfigureLockThenCheck(t *testing.T) {
	dir := t.TempDir()
	fakeJDKOnPath(t, dir)

	if out, err := runJnienv(t, "check", "-C", dir); err == nil {
		t.Fatalf("expected check to fail without a lock, got:\n%s", out)
	}
	if out, err := runJnienv(t, "configure", "-C", dir, "--lock"); err != nil {
		t.Fatalf("configure --lock failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "jnienv.lock")); err != nil {
		t.Fatalf("expected jnienv.lock: %v", err)
	}
	out, err := runJnienv(t, "check", "-C", dir)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"ok":true`) {
		t.Fatalf("expected ok report, got:\n%s", out)
	}

	out, err = runJnienv(t, "status", "-C", dir)
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "lockMatches: true") {
		t.Fatalf("expected matching lock in status, got:\n%s", out)
	}
}

func TestLockCommand(t *testing.T) {
	dir := t.TempDir()
	fakeJDKOnPath(t, dir)
	out, err := runJnienv(t, "lock", "-C", dir)
	if err != nil {
		t.Fatalf("lock failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "javac 17.0.9") {
		t.Fatalf("expected javac version in output, got:\n%s", out)
	}
}

func TestDoctorOutput(t *testing.T) {
	dir := t.TempDir()
	jdk := fakeJDKOnPath(t, dir)
	out, err := runJnienv(t, "doctor", "-C", dir)
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	for _, want := range []string{
		"javac_version: 17.0.9\n",
		"java_home: " + jdk + "\n",
		"java_home_source: javac\n",
		"jni_header: " + filepath.Join(jdk, "include", "jni.h") + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in doctor output, got:\n%s", want, out)
		}
	}
}

func TestExecPropagatesExitCode(t *testing.T) {
	dir := t.TempDir()
	fakeJDKOnPath(t, dir)
	_, err := runJnienv(t, "exec", "-C", dir, "--", "sh", "-c", `test -n "$JAVA_HOME" && exit 3`)
	var ee exitError
	if !errors.As(err, &ee) || ee.code != 3 {
		t.Fatalf("expected exit 3, got %v", err)
	}
}

func TestVersionOutput(t *testing.T) {
	out, err := runJnienv(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "jnienv ") {
		t.Fatalf("expected version header, got: %q", out)
	}
	if !strings.Contains(out, "\ngo: "+runtime.Version()+"\n") {
		t.Fatalf("expected go runtime line, got: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("version output must not include ANSI color, got: %q", out)
	}
}

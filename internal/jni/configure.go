// Package jni finds a JDK on the host and configures a build environment so
// native JNI code can be compiled and linked against it.
package jni

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/divijg19/jnienv/internal/buildenv"
)

var (
	// ErrNoCompiler means the environment has no JAVAC registered.
	ErrNoCompiler = errors.New("java compiler not registered")
	// ErrJDKNotFound means no JAVA_HOME, platform default or javac on PATH.
	ErrJDKNotFound = errors.New("JAVA_HOME not found")
)

// DefaultFrameworkPath is the JDK root on macOS when JAVA_HOME is unset.
const DefaultFrameworkPath = "/System/Library/Frameworks/JavaVM.framework"

// HomeSource records how the JDK root was found.
type HomeSource string

const (
	HomeFromEnv       HomeSource = "env"
	HomeFromFramework HomeSource = "framework"
	HomeFromCompiler  HomeSource = "javac"
)

// Options tune discovery. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Platform overrides GOOS sniffing when non-empty.
	Platform string
	// FrameworkPath is the AppleDesktop default root.
	FrameworkPath string
	// SystemPrefixes are roots shared with the rest of the system, where the
	// platform header directory name cannot be discovered by walking include/.
	SystemPrefixes []string
	// HeaderSubdirs are the candidate platform header directories appended
	// under include/ for a system prefix root.
	HeaderSubdirs []string
}

func DefaultOptions() Options {
	return Options{
		FrameworkPath:  DefaultFrameworkPath,
		SystemPrefixes: []string{"/usr", "/usr/local"},
		HeaderSubdirs:  []string{"win32", "linux", "solaris"},
	}
}

// Layout is the outcome of JDK discovery for one environment.
type Layout struct {
	Platform    Platform
	JavaHome    string
	HomeSource  HomeSource
	Headers     []string
	Libs        []string
	CCFlags     []string
	ShLinkFlags []string
	ShLibSuffix string
}

// Keys lists the build variables Apply writes for this layout.
func (l *Layout) Keys() []string {
	keys := []string{buildenv.CPPPATH, buildenv.LIBPATH}
	if len(l.CCFlags) > 0 {
		keys = append(keys, buildenv.CCFLAGS)
	}
	if len(l.ShLinkFlags) > 0 {
		keys = append(keys, buildenv.SHLINKFLAGS)
	}
	if l.ShLibSuffix != "" {
		keys = append(keys, buildenv.SHLIBSUFFIX)
	}
	return append(keys, buildenv.JavaHome, buildenv.JNICPPPATH, buildenv.JNILIBPATH)
}

// Configurator performs JDK discovery and writes the JNI settings into a build
// environment.
type Configurator struct {
	Source    Source
	Fs        afero.Fs
	Translate PathTranslator
	GOOS      string
	Options   Options
	// Out receives the human-readable diagnostics.
	Out    io.Writer
	Logger hclog.Logger
}

// New returns a Configurator bound to the host: process environment, OS
// filesystem, cygpath and runtime.GOOS.
func New() *Configurator {
	return &Configurator{
		Source:    NewViperSource(),
		Fs:        afero.NewOsFs(),
		Translate: CygpathTranslator,
		GOOS:      runtime.GOOS,
		Options:   DefaultOptions(),
		Out:       os.Stdout,
		Logger:    hclog.NewNullLogger(),
	}
}

func (c *Configurator) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

func (c *Configurator) out() io.Writer {
	if c.Out == nil {
		return io.Discard
	}
	return c.Out
}

// Resolve discovers the JDK and computes the settings for env without
// modifying it.
func (c *Configurator) Resolve(env *buildenv.Environment) (*Layout, error) {
	log := c.logger()
	if env.String(buildenv.JAVAC) == "" {
		return nil, ErrNoCompiler
	}

	platform, err := DetectPlatform(c.GOOS, c.Options.Platform, c.Source)
	if err != nil {
		return nil, err
	}
	log.Debug("platform resolved", "platform", platform.String(), "goos", c.GOOS)

	root, src, err := c.javaRoot(env, platform)
	if err != nil {
		return nil, err
	}
	log.Debug("jdk root resolved", "root", root, "source", string(src))

	native := root
	if platform == PosixEmulation {
		translate := c.Translate
		if translate == nil {
			translate = CygpathTranslator
		}
		root, err = translate(native)
		if err != nil {
			return nil, fmt.Errorf("translate JAVA_HOME %q: %w", native, err)
		}
		log.Debug("jdk root translated", "native", native, "posix", root)
	}

	l := &Layout{Platform: platform, JavaHome: root, HomeSource: src}
	join := filepath.Join
	if platform == PosixEmulation {
		join = path.Join
	}

	switch platform {
	case AppleDesktop:
		l.Headers = []string{join(root, "Headers")}
		l.Libs = []string{join(root, "Libraries")}
		l.ShLinkFlags = []string{"-dynamiclib", "-framework", "JavaVM"}
		l.ShLibSuffix = ".jnilib"
	default:
		include := join(root, "include")
		l.Libs = []string{join(root, "lib")}
		if c.isSystemPrefix(root) {
			l.Headers = []string{include}
			for _, sub := range c.Options.HeaderSubdirs {
				l.Headers = append(l.Headers, join(include, sub))
			}
		} else {
			fsys := c.Fs
			if fsys == nil {
				fsys = afero.NewOsFs()
			}
			l.Headers = ListAllSubdirectories(fsys, include)
		}
		if platform == PosixEmulation {
			l.CCFlags = []string{"-mno-cygwin"}
			l.ShLinkFlags = []string{"-mno-cygwin", "-Wl,--kill-at"}
		}
	}
	log.Debug("jni layout", "headers", l.Headers, "libs", l.Libs)
	return l, nil
}

func (c *Configurator) javaRoot(env *buildenv.Environment, platform Platform) (string, HomeSource, error) {
	if c.Source != nil {
		if home, ok := c.Source.Lookup("JAVA_HOME"); ok {
			return home, HomeFromEnv, nil
		}
	}
	if platform == AppleDesktop {
		fw := c.Options.FrameworkPath
		if fw == "" {
			fw = DefaultFrameworkPath
		}
		return fw, HomeFromFramework, nil
	}

	javac, ok := env.WhereIs("javac")
	if !ok {
		// An explicitly registered compiler path still pins the JDK.
		if reg := env.String(buildenv.JAVAC); filepath.IsAbs(reg) {
			javac, ok = reg, true
		}
	}
	if !ok {
		return "", "", ErrJDKNotFound
	}
	// <root>/bin/javac
	return filepath.Dir(filepath.Dir(javac)), HomeFromCompiler, nil
}

// headerDirs walks the include tree at its native location and reports each
// directory under include, which may be the translated form of the same path.
func (c *Configurator) headerDirs(nativeInclude, include string) []string {
	fsys := c.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	dirs := ListAllSubdirectories(fsys, nativeInclude)
	if nativeInclude == include {
		return dirs
	}
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		rel, err := filepath.Rel(nativeInclude, d)
		if err != nil {
			continue
		}
		out = append(out, path.Join(include, filepath.ToSlash(rel)))
	}
	return out
}

func (c *Configurator) isSystemPrefix(root string) bool {
	clean := path.Clean(filepath.ToSlash(root))
	for _, p := range c.Options.SystemPrefixes {
		if clean == path.Clean(filepath.ToSlash(p)) {
			return true
		}
	}
	return false
}

// Apply writes a resolved layout into env.
func Apply(env *buildenv.Environment, l *Layout) {
	env.Append(buildenv.CPPPATH, l.Headers...)
	env.Append(buildenv.LIBPATH, l.Libs...)

	if len(l.ShLinkFlags) > 0 {
		env.Append(buildenv.SHLINKFLAGS, l.ShLinkFlags...)
	}
	if len(l.CCFlags) > 0 {
		env.Append(buildenv.CCFLAGS, l.CCFlags...)
	}
	if l.ShLibSuffix != "" {
		env.Set(buildenv.SHLIBSUFFIX, l.ShLibSuffix)
	}

	env.Set(buildenv.JavaHome, l.JavaHome)
	env.SetList(buildenv.JNICPPPATH, l.Headers)
	env.SetList(buildenv.JNILIBPATH, l.Libs)
}

// ConfigureE resolves and applies, returning the layout. env is untouched on
// error.
func (c *Configurator) ConfigureE(env *buildenv.Environment) (*Layout, error) {
	l, err := c.Resolve(env)
	if err != nil {
		return nil, err
	}
	Apply(env, l)
	return l, nil
}

// Configure prepares env for compiling JNI code. It reports success; on
// failure a diagnostic is printed to Out and env is left unmodified.
func (c *Configurator) Configure(env *buildenv.Environment) bool {
	l, err := c.ConfigureE(env)
	c.Report(l, err)
	return err == nil
}

// Report prints the human-readable outcome of a ConfigureE call to Out.
func (c *Configurator) Report(l *Layout, err error) {
	out := c.out()
	switch {
	case err == nil:
		if l != nil && l.HomeSource == HomeFromCompiler {
			fmt.Fprintln(out, "JAVA_HOME environment variable is not set. Searching for java... found.")
		}
		return
	case errors.Is(err, ErrNoCompiler):
		fmt.Fprintln(out, "The Java Compiler must be installed and in the current path.")
	case errors.Is(err, ErrJDKNotFound):
		fmt.Fprintln(out, "JAVA_HOME environment variable is not set. Searching for java... JAVA_HOME not found.")
	default:
		fmt.Fprintf(out, "JNI configuration failed: %v\n", err)
	}
	c.logger().Warn("jni configuration failed", "error", err)
}

// ConfigureJNI configures env using the host defaults.
func ConfigureJNI(env *buildenv.Environment) bool {
	return New().Configure(env)
}

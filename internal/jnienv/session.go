package jnienv

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/divijg19/jnienv/internal/buildenv"
	cfg "github.com/divijg19/jnienv/internal/config"
	"github.com/divijg19/jnienv/internal/jni"
)

// Options carries the host bindings. Zero fields take host defaults.
type Options struct {
	Fs     afero.Fs
	Source jni.Source
	GOOS   string
	// Out receives configuration diagnostics (stdout when nil).
	Out    io.Writer
	Logger hclog.Logger
	// Translate overrides cygpath on POSIX-emulation hosts.
	Translate jni.PathTranslator
	// PATH overrides the process PATH for tool lookup when non-empty.
	PATH string
}

// Session is one manifest bound to a fresh build environment.
type Session struct {
	Config       *cfg.Config
	ConfigPath   string
	BaseDir      string
	Env          *buildenv.Environment
	Configurator *jni.Configurator
}

// flagVars are tokenized with shell rules when seeded from a string.
var flagVars = map[string]struct{}{
	"CFLAGS":      {},
	"CCFLAGS":     {},
	"CXXFLAGS":    {},
	"SHCCFLAGS":   {},
	"LINKFLAGS":   {},
	"SHLINKFLAGS": {},
}

// NewSession loads jnienv.toml from startDir upward (optional), seeds a build
// environment from its [vars] and registers JAVAC.
func NewSession(startDir string, opts Options) (*Session, error) {
	conf, confPath, err := cfg.Load(startDir)
	if err != nil && !errors.Is(err, cfg.ErrConfigNotFound) {
		return nil, err
	}
	if conf == nil {
		conf = &cfg.Config{Vars: cfg.VarsMap{}}
	}

	baseDir := ""
	if confPath != "" {
		baseDir = filepath.Dir(confPath)
	} else {
		baseDir = startDir
		if baseDir == "" {
			if baseDir, err = os.Getwd(); err != nil {
				return nil, err
			}
		}
		baseDir, _ = filepath.Abs(baseDir)
	}

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	env := buildenv.New()
	env.Fs = fsys
	env.GOOS = goos
	if opts.PATH != "" {
		env.SetExecEnv("PATH", opts.PATH)
	}
	if err := seedVars(env, conf.Vars); err != nil {
		return nil, err
	}
	if conf.JDK.Javac != "" {
		env.Set(buildenv.JAVAC, conf.JDK.Javac)
	} else {
		env.DetectTools()
	}

	base := opts.Source
	if base == nil {
		base = jni.NewViperSource()
	}
	source := jni.Chain{jni.MapSource{"JAVA_HOME": conf.JDK.JavaHome}, base}

	c := jni.New()
	c.Source = source
	c.Fs = fsys
	c.GOOS = goos
	c.Options = jniOptions(conf.JDK)
	c.Out = out
	c.Logger = logger.Named("jni")
	if opts.Translate != nil {
		c.Translate = opts.Translate
	}

	logger.Debug("session ready", "config", confPath, "javac", env.String(buildenv.JAVAC))
	return &Session{
		Config:       conf,
		ConfigPath:   confPath,
		BaseDir:      baseDir,
		Env:          env,
		Configurator: c,
	}, nil
}

func jniOptions(j cfg.JDK) jni.Options {
	o := jni.DefaultOptions()
	o.Platform = j.Platform
	if j.FrameworkPath != "" {
		o.FrameworkPath = j.FrameworkPath
	}
	if j.SystemPrefixes != nil {
		o.SystemPrefixes = j.SystemPrefixes
	}
	if j.HeaderSubdirs != nil {
		o.HeaderSubdirs = j.HeaderSubdirs
	}
	return o
}

func seedVars(env *buildenv.Environment, vars cfg.VarsMap) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := vars[k]
		if v.IsList {
			env.SetList(k, v.Items)
			continue
		}
		if _, ok := flagVars[k]; ok {
			env.SetList(k, nil)
			if err := env.AppendFlags(k, v.Scalar); err != nil {
				return err
			}
			continue
		}
		env.Set(k, v.Scalar)
	}
	return nil
}

// LockPath is where jnienv.lock lives for this session.
func (s *Session) LockPath() string {
	return filepath.Join(s.BaseDir, LockFileName)
}

// Result is a configured environment.
type Result struct {
	Env        *buildenv.Environment
	Layout     *jni.Layout
	ConfigPath string
	LockPath   string
}

// Configure runs JNI configuration on the session environment. Failures are
// reported on the configurator's Out and returned.
func (s *Session) Configure() (*Result, error) {
	l, err := s.Configurator.ConfigureE(s.Env)
	s.Configurator.Report(l, err)
	if err != nil {
		return nil, err
	}
	return &Result{Env: s.Env, Layout: l, ConfigPath: s.ConfigPath, LockPath: s.LockPath()}, nil
}

// Configure loads the manifest under startDir and configures a fresh
// environment.
func Configure(startDir string, opts Options) (*Result, error) {
	s, err := NewSession(startDir, opts)
	if err != nil {
		return nil, err
	}
	return s.Configure()
}

package jnienv

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/divijg19/jnienv/internal/jni"
)

type DoctorReport struct {
	VersionPresent bool `json:"versionPresent"`

	ConfigPath string `json:"configPath,omitempty"`
	HasConfig  bool   `json:"hasConfig"`

	JavacFound   bool   `json:"javacFound"`
	Javac        string `json:"javac,omitempty"`
	JavacVersion string `json:"javacVersion,omitempty"`

	Platform   string `json:"platform,omitempty"`
	JavaHome   string `json:"javaHome,omitempty"`
	HomeSource string `json:"homeSource,omitempty"`

	MissingHeaders []string `json:"missingHeaders,omitempty"`
	MissingLibs    []string `json:"missingLibs,omitempty"`
	JNIHeader      string   `json:"jniHeader,omitempty"`

	LockPath  string `json:"lockPath"`
	HasLock   bool   `json:"hasLock"`
	LockValid bool   `json:"lockValid"`

	Errors []string `json:"errors,omitempty"`
}

// Healthy reports whether doctor found nothing to fix.
func (r DoctorReport) Healthy() bool { return len(r.Errors) == 0 }

// Doctor inspects the host JDK setup without modifying anything.
func Doctor(startDir string, currentVersion string, opts Options) (DoctorReport, error) {
	v := strings.TrimSpace(currentVersion)
	rep := DoctorReport{VersionPresent: v != "" && v != "dev"}

	s, err := NewSession(startDir, opts)
	if err != nil {
		return rep, err
	}
	fsys := s.Env.Fs
	rep.ConfigPath = s.ConfigPath
	rep.HasConfig = s.ConfigPath != ""
	rep.LockPath = s.LockPath()

	if javac, ok := javacPath(s.Env); ok {
		rep.JavacFound = true
		rep.Javac = javac
		if ver, verr := javacVersion(javac); verr == nil {
			rep.JavacVersion = ver
		} else {
			rep.Errors = append(rep.Errors, fmt.Sprintf("javac version: %v", verr))
		}
	} else {
		rep.Errors = append(rep.Errors, "javac not found in PATH")
	}

	l, cerr := s.Configurator.Resolve(s.Env)
	if cerr != nil {
		rep.Errors = append(rep.Errors, fmt.Sprintf("jni: %v", cerr))
	} else {
		rep.Platform = l.Platform.String()
		rep.JavaHome = l.JavaHome
		rep.HomeSource = string(l.HomeSource)
		// Cygwin paths cannot be checked through the native filesystem.
		if l.Platform != jni.PosixEmulation {
			rep.MissingHeaders = missingDirs(fsys, l.Headers)
			rep.MissingLibs = missingDirs(fsys, l.Libs)
			rep.JNIHeader = findFile(fsys, l.Headers, "jni.h")
			// Candidate platform subdirectories under a system prefix are
			// expected to be partly absent; only the include root matters.
			if len(l.Headers) > 0 && len(rep.MissingHeaders) > 0 && rep.MissingHeaders[0] == l.Headers[0] {
				rep.Errors = append(rep.Errors, fmt.Sprintf("header directory missing: %s", l.Headers[0]))
			}
			for _, d := range rep.MissingLibs {
				rep.Errors = append(rep.Errors, fmt.Sprintf("library directory missing: %s", d))
			}
			if rep.JNIHeader == "" {
				rep.Errors = append(rep.Errors, "jni.h not found in header directories")
			}
		}
	}

	if _, lerr := ReadLock(fsys, rep.LockPath); lerr == nil {
		rep.HasLock, rep.LockValid = true, true
	} else if exists, _ := afero.Exists(fsys, rep.LockPath); exists {
		rep.HasLock = true
		rep.Errors = append(rep.Errors, fmt.Sprintf("%s invalid: %v", LockFileName, lerr))
	}
	return rep, nil
}

func missingDirs(fsys afero.Fs, dirs []string) []string {
	var missing []string
	for _, d := range dirs {
		if ok, _ := afero.DirExists(fsys, d); !ok {
			missing = append(missing, d)
		}
	}
	return missing
}

func findFile(fsys afero.Fs, dirs []string, name string) string {
	for _, d := range dirs {
		p := filepath.Join(d, name)
		if ok, _ := afero.Exists(fsys, p); ok {
			return p
		}
	}
	return ""
}

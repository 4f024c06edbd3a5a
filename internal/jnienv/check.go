package jnienv

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

const (
	RowOK       = "ok"
	RowMissing  = "missing"
	RowMismatch = "mismatch"
)

// CheckRow compares one locked field with what the host resolves today.
type CheckRow struct {
	Name   string `json:"name"`
	Locked string `json:"locked"`
	Have   string `json:"have,omitempty"`
	Status string `json:"status"`
}

type CheckReport struct {
	ConfigPath string     `json:"configPath,omitempty"`
	LockPath   string     `json:"lockPath"`
	OK         bool       `json:"ok"`
	Error      string     `json:"error,omitempty"`
	Missing    int        `json:"missing"`
	Mismatched int        `json:"mismatched"`
	Rows       []CheckRow `json:"rows"`
}

// Check re-resolves the JDK without printing diagnostics and compares the
// result with jnienv.lock. Lock and resolution problems land in the report;
// only manifest errors are returned.
func Check(startDir string, opts Options) (CheckReport, error) {
	s, err := NewSession(startDir, opts)
	if err != nil {
		return CheckReport{}, err
	}
	rep := CheckReport{ConfigPath: s.ConfigPath, LockPath: s.LockPath(), Rows: []CheckRow{}}

	lock, err := ReadLock(s.Env.Fs, rep.LockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			rep.Error = LockFileName + " not found: run 'jnienv lock' first"
			return rep, nil
		}
		rep.Error = err.Error()
		return rep, nil
	}

	have := &JDKLock{}
	if l, cerr := s.Configurator.ConfigureE(s.Env); cerr != nil {
		rep.Error = cerr.Error()
	} else if cur, lerr := LockFromResult(&Result{Env: s.Env, Layout: l}); lerr != nil {
		// Directories are still comparable when javac cannot be run.
		rep.Error = lerr.Error()
		have = &JDKLock{Platform: l.Platform.String(), JavaHome: l.JavaHome, Headers: l.Headers, Libs: l.Libs}
	} else {
		have = cur.JDK
	}

	want := lock.JDK
	rep.Rows = append(rep.Rows,
		compareRow("platform", want.Platform, have.Platform),
		compareRow("java_home", want.JavaHome, have.JavaHome),
		compareRow("javac_version", want.JavacVersion, have.JavacVersion),
	)
	if want.JavacSHA256 != "" {
		rep.Rows = append(rep.Rows, compareRow("javac_sha256", want.JavacSHA256, have.JavacSHA256))
	}
	rep.Rows = append(rep.Rows,
		compareRow("headers", joinList(want.Headers), joinList(have.Headers)),
		compareRow("libs", joinList(want.Libs), joinList(have.Libs)),
	)

	for _, r := range rep.Rows {
		switch r.Status {
		case RowMissing:
			rep.Missing++
		case RowMismatch:
			rep.Mismatched++
		}
	}
	rep.OK = rep.Missing == 0 && rep.Mismatched == 0 && rep.Error == ""
	return rep, nil
}

func compareRow(name, locked, have string) CheckRow {
	r := CheckRow{Name: name, Locked: locked, Have: have}
	switch {
	case have == "":
		r.Status = RowMissing
	case have != locked:
		r.Status = RowMismatch
	default:
		r.Status = RowOK
	}
	return r
}

func joinList(items []string) string {
	return strings.Join(items, string(os.PathListSeparator))
}

func (r CheckReport) MarshalJSONStable() ([]byte, error) {
	return json.Marshal(r)
}

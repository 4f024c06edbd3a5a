package jnienv

import (
	"errors"
	"os"
)

type StatusReport struct {
	ConfigPath string `json:"configPath,omitempty"`
	LockPath   string `json:"lockPath"`

	HasConfig bool `json:"hasConfig"`
	HasLock   bool `json:"hasLock"`
	LockValid bool `json:"lockValid"`

	LockMatches bool `json:"lockMatches"`
	Missing     int  `json:"missing"`
	Mismatched  int  `json:"mismatched"`
}

func Status(startDir string, opts Options) (StatusReport, error) {
	rep, err := Check(startDir, opts)
	if err != nil {
		return StatusReport{}, err
	}
	st := StatusReport{
		ConfigPath:  rep.ConfigPath,
		LockPath:    rep.LockPath,
		HasConfig:   rep.ConfigPath != "",
		LockMatches: rep.OK,
		Missing:     rep.Missing,
		Mismatched:  rep.Mismatched,
	}

	s, err := NewSession(startDir, opts)
	if err != nil {
		return StatusReport{}, err
	}
	if _, lerr := ReadLock(s.Env.Fs, st.LockPath); lerr == nil {
		st.HasLock, st.LockValid = true, true
	} else if !errors.Is(lerr, os.ErrNotExist) {
		st.HasLock = true
	}
	return st, nil
}

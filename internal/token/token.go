// Copyright Redwood Labs, 2026. All rights reserved.

// Package token resolves the API credential. Resolution checks an
// in-process override first, then the environment, then a per-user INI
// file. An absent credential is not an error here; the dispatcher reports
// it.
package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// EnvVar is the environment variable consulted when no in-process override
// has been set.
const EnvVar = "CONVERTAPI_TOKEN"

const (
	iniSection = "credentials"
	iniKey     = "token"
)

// Provider holds credential state for one process. It is read-only after
// Set and is not safe for concurrent mutation; invocations are
// single-threaded.
type Provider struct {
	override string
	iniPath  string
}

// NewProvider builds a provider persisting to iniPath. An empty iniPath
// uses the per-user default.
func NewProvider(iniPath string) *Provider {
	if iniPath == "" {
		if p, err := DefaultINIPath(); err == nil {
			iniPath = p
		}
	}
	return &Provider{iniPath: iniPath}
}

// DefaultINIPath returns the per-user credential file location.
func DefaultINIPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "convertapi-cli", "credentials.ini"), nil
}

// Resolve returns the credential and whether one was found: in-process
// override, then EnvVar, then the persisted INI file. No network or disk
// writes.
func (p *Provider) Resolve() (string, bool) {
	if p.override != "" {
		return p.override, true
	}
	if v := strings.TrimSpace(os.Getenv(EnvVar)); v != "" {
		return v, true
	}
	if v := p.readINI(); v != "" {
		return v, true
	}
	return "", false
}

// Set stores tok as the in-process override. With persist, it also writes
// the per-user INI file so future processes resolve the same credential.
func (p *Provider) Set(tok string, persist bool) error {
	p.override = tok
	if !persist {
		return nil
	}
	if p.iniPath == "" {
		return fmt.Errorf("no credential file path available")
	}

	if err := os.MkdirAll(filepath.Dir(p.iniPath), 0o700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}
	cfg, err := ini.LooseLoad(p.iniPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", p.iniPath, err)
	}
	cfg.Section(iniSection).Key(iniKey).SetValue(tok)
	if err := cfg.SaveTo(p.iniPath); err != nil {
		return fmt.Errorf("saving %s: %w", p.iniPath, err)
	}
	return nil
}

// Source reports where Resolve found the credential: "override", "env",
// "file", or "" when none is set.
func (p *Provider) Source() string {
	switch {
	case p.override != "":
		return "override"
	case strings.TrimSpace(os.Getenv(EnvVar)) != "":
		return "env"
	case p.readINI() != "":
		return "file"
	}
	return ""
}

func (p *Provider) readINI() string {
	if p.iniPath == "" {
		return ""
	}
	cfg, err := ini.Load(p.iniPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cfg.Section(iniSection).Key(iniKey).String())
}

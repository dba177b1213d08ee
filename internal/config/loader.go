package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader finds and reads the rc file.
type Loader struct {
	Version      string // "dev" builds also look in the working directory
	OverridePath string // set at link time to pin a config file
}

func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Dir is the per-user sketchgen directory: $XDG_CONFIG_HOME/sketchgen, or
// ~/.config/sketchgen when the variable is unset or relative. It is empty
// when no home directory is known.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(xdg) {
		return filepath.Join(xdg, "sketchgen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sketchgen")
}

// DefaultPath is where a config file is written when none exists yet.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.rc")
}

// Candidates lists the files GetConfigPath checks, most specific first.
func (l *Loader) Candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".sketchgenrc"))
		}
	}
	if dir := Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "sketchgen.rc"))
	}
	return paths
}

// GetConfigPath returns the first candidate that is a regular file, or ""
// when there is none.
func (l *Loader) GetConfigPath() string {
	for _, path := range l.Candidates() {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// Load parses the file GetConfigPath finds. Without one it returns the
// defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

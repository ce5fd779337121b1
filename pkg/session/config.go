// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	configName    = "rhlatex.toml"
	configVersion = 1
)

// ColorMode controls when output is colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a user-supplied color mode string.
func ParseColorMode(raw string) (ColorMode, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "", string(ColorAuto):
		return ColorAuto, nil
	case string(ColorAlways):
		return ColorAlways, nil
	case string(ColorNever):
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (expected auto|always|never)", raw)
	}
}

// Enabled reports whether colorized output should be produced given whether
// stdout is attached to a terminal.
func (m ColorMode) Enabled(isTTY bool) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTTY
	}
}

// Config is the on-disk project configuration (rhlatex.toml).
type Config struct {
	Version  int          `toml:"version,omitempty"`
	Requires string       `toml:"requires,omitempty"`
	Server   ServerConfig `toml:"server"`
}

// ServerConfig holds the session knobs. Interval is a Go duration string.
type ServerConfig struct {
	Count         int    `toml:"count,omitempty"`
	Interval      string `toml:"interval,omitempty"`
	Prefix        string `toml:"prefix,omitempty"`
	Color         string `toml:"color,omitempty"`
	Transcripts   bool   `toml:"transcripts,omitempty"`
	TranscriptDir string `toml:"transcript_dir,omitempty"`
}

// ConfigLocation pairs a loaded config with where it was found.
type ConfigLocation struct {
	Path   string
	Dir    string
	Config *Config
}

// LoadConfigFile loads an explicitly named config file.
func LoadConfigFile(path string) (*ConfigLocation, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Version == 0 {
		cfg.Version = configVersion
	}
	return &ConfigLocation{Path: path, Dir: filepath.Dir(path), Config: &cfg}, nil
}

// LoadConfigFromCwd discovers rhlatex.toml by walking up from the working
// directory. A missing config is not an error; the result is nil.
func LoadConfigFromCwd() (*ConfigLocation, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadConfigFromDir(cwd)
}

// LoadConfigFromDir walks up from startDir looking for rhlatex.toml.
func LoadConfigFromDir(startDir string) (*ConfigLocation, error) {
	path, err := findConfigPath(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return LoadConfigFile(path)
}

func findConfigPath(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, configName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if err != nil && !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// IntervalDuration parses the configured interval, falling back to the
// default when unset.
func (c *ServerConfig) IntervalDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Interval) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("parse interval %q: %w", c.Interval, err)
	}
	return d, nil
}

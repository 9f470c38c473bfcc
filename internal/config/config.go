/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older binaries tolerate newer files.

type GeneralConfig struct {
	Theme       string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
	ShowMinimap bool   `yaml:"show_minimap"`
}

type CanvasConfig struct {
	SnapEnabled bool `yaml:"snap_enabled"`
	// AutosaveSec is the interval between background saves; 0 disables autosave.
	AutosaveSec int `yaml:"autosave_sec"`
	// MaxRecent caps the recent-files list.
	MaxRecent   int      `yaml:"max_recent"`
	RecentFiles []string `yaml:"recent_files"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system", ShowMinimap: true},
		Canvas:        CanvasConfig{SnapEnabled: true, AutosaveSec: 120, MaxRecent: 10},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvTheme       = "DCV_THEME"
	EnvShowMinimap = "DCV_SHOW_MINIMAP"
	EnvSnapEnabled = "DCV_SNAP"
	EnvAutosaveSec = "DCV_AUTOSAVE_SEC"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "DCV_LOG_LEVEL"
	EnvLogFormat = "DCV_LOG_FORMAT"
	EnvLogSource = "DCV_LOG_SOURCE"
	EnvLogFile   = "DCV_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "DeskCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "DeskCanvas")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "deskcanvas")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// RememberRecent prepends path to the recent-files list, deduplicating and
// trimming to MaxRecent.
func (c *AppConfig) RememberRecent(path string) {
	max := c.Canvas.MaxRecent
	if max <= 0 {
		max = Defaults().Canvas.MaxRecent
	}
	out := make([]string, 0, max)
	out = append(out, path)
	for _, p := range c.Canvas.RecentFiles {
		if p == path {
			continue
		}
		out = append(out, p)
		if len(out) == max {
			break
		}
	}
	c.Canvas.RecentFiles = out
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.ShowMinimap = src.General.ShowMinimap
	dst.Canvas.SnapEnabled = src.Canvas.SnapEnabled
	if src.Canvas.AutosaveSec != 0 {
		dst.Canvas.AutosaveSec = src.Canvas.AutosaveSec
	}
	if src.Canvas.MaxRecent != 0 {
		dst.Canvas.MaxRecent = src.Canvas.MaxRecent
	}
	if len(src.Canvas.RecentFiles) > 0 {
		dst.Canvas.RecentFiles = src.Canvas.RecentFiles
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvShowMinimap)); v != "" {
		cfg.General.ShowMinimap = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapEnabled)); v != "" {
		cfg.Canvas.SnapEnabled = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutosaveSec)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Canvas.AutosaveSec = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "general.theme":
		if os.Getenv(EnvTheme) != "" {
			return EnvTheme, true
		}
	case "general.show_minimap":
		if os.Getenv(EnvShowMinimap) != "" {
			return EnvShowMinimap, true
		}
	case "canvas.snap_enabled":
		if os.Getenv(EnvSnapEnabled) != "" {
			return EnvSnapEnabled, true
		}
	case "canvas.autosave_sec":
		if os.Getenv(EnvAutosaveSec) != "" {
			return EnvAutosaveSec, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}

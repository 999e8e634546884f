/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads and persists the user-editable application
// configuration. The config lives in a YAML file in the user scope;
// environment variables are treated as read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ItemDefaults are the style attributes applied to newly created elements.
type ItemDefaults struct {
	StrokeColor     string  `yaml:"stroke_color"`
	BackgroundColor string  `yaml:"background_color"`
	FillStyle       string  `yaml:"fill_style"` // hachure | cross-hatch | solid
	StrokeWidth     float64 `yaml:"stroke_width"`
	Roughness       float64 `yaml:"roughness"`
	Opacity         float64 `yaml:"opacity"`
	Font            string  `yaml:"font"`
}

// CanvasConfig holds canvas-wide presentation settings.
type CanvasConfig struct {
	BackgroundColor string `yaml:"background_color"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Item          ItemDefaults  `yaml:"item"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Item: ItemDefaults{
			StrokeColor:     "#000000",
			BackgroundColor: "transparent",
			FillStyle:       "hachure",
			StrokeWidth:     1,
			Roughness:       1,
			Opacity:         100,
			Font:            "20px Virgil",
		},
		Canvas:  CanvasConfig{BackgroundColor: "#ffffff"},
		Logging: LoggingConfig{Level: "info", Format: "text", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvLogLevel  = "SKP_LOG_LEVEL"
	EnvLogFormat = "SKP_LOG_FORMAT"
	EnvLogSource = "SKP_LOG_SOURCE"
	EnvLogFile   = "SKP_LOG_FILE"
)

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Sketchpad")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Sketchpad")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "sketchpad")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. A missing or unparsable file falls back to defaults.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
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
	path, err := Path()
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

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Item.StrokeColor != "" {
		dst.Item.StrokeColor = src.Item.StrokeColor
	}
	if src.Item.BackgroundColor != "" {
		dst.Item.BackgroundColor = src.Item.BackgroundColor
	}
	if src.Item.FillStyle != "" {
		dst.Item.FillStyle = src.Item.FillStyle
	}
	if src.Item.StrokeWidth != 0 {
		dst.Item.StrokeWidth = src.Item.StrokeWidth
	}
	if src.Item.Roughness != 0 {
		dst.Item.Roughness = src.Item.Roughness
	}
	if src.Item.Opacity != 0 {
		dst.Item.Opacity = src.Item.Opacity
	}
	if src.Item.Font != "" {
		dst.Item.Font = src.Item.Font
	}
	if src.Canvas.BackgroundColor != "" {
		dst.Canvas.BackgroundColor = src.Canvas.BackgroundColor
	}
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

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

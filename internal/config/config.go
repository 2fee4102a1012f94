/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads user settings from a YAML file in the user's config
// directory, layered over built-in defaults and under environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CanvasConfig controls surface sizing and the empty-state placeholder.
type CanvasConfig struct {
	MaxSize               int    `yaml:"max_size"`
	ContainerWidth        int    `yaml:"container_width"` // 0 = unknown
	Placeholder           bool   `yaml:"placeholder"`
	PlaceholderWidth      int    `yaml:"placeholder_width"`
	PlaceholderHeight     int    `yaml:"placeholder_height"`
	PlaceholderFill       string `yaml:"placeholder_fill"`
	PlaceholderLabel      string `yaml:"placeholder_label"`
	PlaceholderLabelColor string `yaml:"placeholder_label_color"`
}

// RenderConfig tunes frame pacing and encoders.
type RenderConfig struct {
	FrameIntervalMs int `yaml:"frame_interval_ms"`
	TextDebounceMs  int `yaml:"text_debounce_ms"`
	JPEGQuality     int `yaml:"jpeg_quality"`
}

// ImageConfig limits base image loading.
type ImageConfig struct {
	FetchTimeoutMs int   `yaml:"fetch_timeout_ms"`
	MaxBytes       int64 `yaml:"max_bytes"`
	MaxPixels      int64 `yaml:"max_pixels"`
}

// FontConfig registers a TTF/OTF file under a family name.
type FontConfig struct {
	Family string `yaml:"family"`
	Bold   bool   `yaml:"bold"`
	Italic bool   `yaml:"italic"`
	Path   string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Render        RenderConfig  `yaml:"render"`
	Image         ImageConfig   `yaml:"image"`
	Fonts         []FontConfig  `yaml:"fonts,omitempty"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas: CanvasConfig{
			MaxSize:               800,
			Placeholder:           true,
			PlaceholderWidth:      600,
			PlaceholderHeight:     600,
			PlaceholderFill:       "#f3f4f6",
			PlaceholderLabel:      "Choose template on home page",
			PlaceholderLabelColor: "#6b7280",
		},
		Render:  RenderConfig{FrameIntervalMs: 16, TextDebounceMs: 100, JPEGQuality: 92},
		Image:   ImageConfig{FetchTimeoutMs: 30000, MaxBytes: 32 << 20, MaxPixels: 40_000_000},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// FrameInterval is the display refresh period used to flush renders.
func (r RenderConfig) FrameInterval() time.Duration {
	return time.Duration(r.FrameIntervalMs) * time.Millisecond
}

// TextDebounce is the quiet period applied to content edits.
func (r RenderConfig) TextDebounce() time.Duration {
	return time.Duration(r.TextDebounceMs) * time.Millisecond
}

// FetchTimeout bounds remote image downloads.
func (i ImageConfig) FetchTimeout() time.Duration {
	return time.Duration(i.FetchTimeoutMs) * time.Millisecond
}

// Env var names used as overrides.
const (
	EnvConfigFile      = "MEMELAB_CONFIG"
	EnvMaxSize         = "MEMELAB_MAX_SIZE"
	EnvContainerWidth  = "MEMELAB_CONTAINER_WIDTH"
	EnvPlaceholder     = "MEMELAB_PLACEHOLDER"
	EnvFrameIntervalMs = "MEMELAB_FRAME_INTERVAL_MS"
	EnvTextDebounceMs  = "MEMELAB_TEXT_DEBOUNCE_MS"
	EnvJPEGQuality     = "MEMELAB_JPEG_QUALITY"
	EnvFetchTimeoutMs  = "MEMELAB_FETCH_TIMEOUT_MS"
	EnvLogLevel        = "MEMELAB_LOG_LEVEL"
	EnvLogFormat       = "MEMELAB_LOG_FORMAT"
	EnvLogSource       = "MEMELAB_LOG_SOURCE"
	EnvLogFile         = "MEMELAB_LOG_FILE"
)

// override binds a config key to its environment variable.
type override struct {
	env   string
	apply func(cfg *AppConfig, v string)
}

var overrides = map[string]override{
	"canvas.max_size":          {EnvMaxSize, func(c *AppConfig, v string) { setInt(&c.Canvas.MaxSize, v) }},
	"canvas.container_width":   {EnvContainerWidth, func(c *AppConfig, v string) { setInt(&c.Canvas.ContainerWidth, v) }},
	"canvas.placeholder":       {EnvPlaceholder, func(c *AppConfig, v string) { c.Canvas.Placeholder = truthy(v) }},
	"render.frame_interval_ms": {EnvFrameIntervalMs, func(c *AppConfig, v string) { setInt(&c.Render.FrameIntervalMs, v) }},
	"render.text_debounce_ms":  {EnvTextDebounceMs, func(c *AppConfig, v string) { setInt(&c.Render.TextDebounceMs, v) }},
	"render.jpeg_quality":      {EnvJPEGQuality, func(c *AppConfig, v string) { setInt(&c.Render.JPEGQuality, v) }},
	"image.fetch_timeout_ms":   {EnvFetchTimeoutMs, func(c *AppConfig, v string) { setInt(&c.Image.FetchTimeoutMs, v) }},
	"logging.level":            {EnvLogLevel, func(c *AppConfig, v string) { c.Logging.Level = v }},
	"logging.format":           {EnvLogFormat, func(c *AppConfig, v string) { c.Logging.Format = v }},
	"logging.source":           {EnvLogSource, func(c *AppConfig, v string) { c.Logging.Source = truthy(v) }},
	"logging.file":             {EnvLogFile, func(c *AppConfig, v string) { c.Logging.File = v }},
}

// ConfigPath returns the per-user config file path. MEMELAB_CONFIG
// replaces it entirely.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "MemeLab")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "MemeLab")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "memelab")
		} else if h := os.Getenv("HOME"); h != "" {
			base = filepath.Join(h, ".config", "memelab")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file if present, then applies environment
// overrides. A missing file is not an error; a malformed one is, and the
// defaults (with overrides) are still returned alongside it.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit file.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var loadErr error
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			loadErr = fmt.Errorf("parse config %s: %w", path, err)
		} else {
			cfg = fileCfg
		}
	case !errors.Is(err, os.ErrNotExist):
		loadErr = fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return cfg, loadErr
}

// Save writes the config as YAML to ConfigPath.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the config as YAML to path.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// normalize repairs values a hand-edited file may get wrong.
func normalize(cfg *AppConfig) {
	d := Defaults()
	if cfg.Canvas.MaxSize <= 0 {
		cfg.Canvas.MaxSize = d.Canvas.MaxSize
	}
	if cfg.Canvas.ContainerWidth < 0 {
		cfg.Canvas.ContainerWidth = 0
	}
	if cfg.Canvas.PlaceholderWidth <= 0 || cfg.Canvas.PlaceholderHeight <= 0 {
		cfg.Canvas.PlaceholderWidth, cfg.Canvas.PlaceholderHeight = d.Canvas.PlaceholderWidth, d.Canvas.PlaceholderHeight
	}
	if cfg.Render.FrameIntervalMs <= 0 {
		cfg.Render.FrameIntervalMs = d.Render.FrameIntervalMs
	}
	if cfg.Render.TextDebounceMs < 0 {
		cfg.Render.TextDebounceMs = d.Render.TextDebounceMs
	}
	if cfg.Render.JPEGQuality < 1 || cfg.Render.JPEGQuality > 100 {
		cfg.Render.JPEGQuality = d.Render.JPEGQuality
	}
	if cfg.Image.FetchTimeoutMs <= 0 {
		cfg.Image.FetchTimeoutMs = d.Image.FetchTimeoutMs
	}
	if cfg.Image.MaxBytes <= 0 {
		cfg.Image.MaxBytes = d.Image.MaxBytes
	}
	if cfg.Image.MaxPixels <= 0 {
		cfg.Image.MaxPixels = d.Image.MaxPixels
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
}

func applyEnvOverrides(cfg *AppConfig) {
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			o.apply(cfg, v)
		}
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by
// environment variables.
func EnvOverrideFor(key string) (string, bool) {
	o, ok := overrides[key]
	if !ok || strings.TrimSpace(os.Getenv(o.env)) == "" {
		return "", false
	}
	return o.env, true
}

// Keys lists the config keys that accept environment overrides.
func Keys() []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setInt(dst *int, v string) {
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

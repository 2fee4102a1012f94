/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"fmt"
	"time"

	"memelab/internal/config"
	"memelab/internal/surface"
	"memelab/internal/textlayout"
	"memelab/internal/vector"
)

// LoadFonts builds a font library from configured font files. Every file
// is attempted; failures are joined into the returned error and the
// library holds whatever loaded.
func LoadFonts(fonts []config.FontConfig) (*textlayout.FontLibrary, error) {
	lib := textlayout.NewFontLibrary()
	var errs []error
	for _, f := range fonts {
		weight := 400
		if f.Bold {
			weight = 700
		}
		if err := lib.LoadTTF(f.Family, weight, f.Italic, f.Path); err != nil {
			errs = append(errs, fmt.Errorf("font %q: %w", f.Family, err))
		}
	}
	return lib, errors.Join(errs...)
}

// OptionsFromConfig translates the canvas and render sections. lib may be
// shared between editors.
func OptionsFromConfig(cfg config.AppConfig, lib *textlayout.FontLibrary) Options {
	opts := Options{
		Fonts:          textlayout.NewProvider(lib),
		MaxSize:        cfg.Canvas.MaxSize,
		ContainerWidth: cfg.Canvas.ContainerWidth,
		TextDebounce:   cfg.Render.TextDebounce(),
	}
	if cfg.Render.TextDebounceMs == 0 {
		opts.TextDebounce = -time.Nanosecond
	}
	if cfg.Canvas.Placeholder {
		p := surface.DefaultPlaceholder()
		p.Width, p.Height = cfg.Canvas.PlaceholderWidth, cfg.Canvas.PlaceholderHeight
		if c, err := vector.ParseHex(cfg.Canvas.PlaceholderFill); err == nil {
			p.Fill = c
		}
		if c, err := vector.ParseHex(cfg.Canvas.PlaceholderLabelColor); err == nil {
			p.LabelColor = c
		}
		p.Label = cfg.Canvas.PlaceholderLabel
		opts.Placeholder = &p
	}
	return opts
}

// NewFromConfig loads the configured fonts and returns a ready editor.
// Font errors are returned alongside a usable editor.
func NewFromConfig(cfg config.AppConfig) (*Editor, error) {
	lib, err := LoadFonts(cfg.Fonts)
	return New(OptionsFromConfig(cfg, lib)), err
}

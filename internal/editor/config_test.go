/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"path/filepath"
	"testing"

	"memelab/internal/config"
)

func TestOptionsFromConfigDefaults(t *testing.T) {
	opts := OptionsFromConfig(config.Defaults(), nil)
	if opts.Placeholder == nil || opts.Placeholder.Width != 600 || opts.Placeholder.Label == "" {
		t.Fatalf("placeholder = %+v", opts.Placeholder)
	}
	if opts.Placeholder.Fill.Hex() != "#f3f4f6" {
		t.Fatalf("fill = %s", opts.Placeholder.Fill.Hex())
	}
	if opts.TextDebounce.Milliseconds() != 100 || opts.MaxSize != 800 {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestOptionsFromConfigOverrides(t *testing.T) {
	cfg := config.Defaults()
	cfg.Canvas.Placeholder = false
	cfg.Render.TextDebounceMs = 0
	opts := OptionsFromConfig(cfg, nil)
	if opts.Placeholder != nil {
		t.Fatalf("placeholder should be disabled")
	}
	if opts.TextDebounce >= 0 {
		t.Fatalf("zero debounce should disable debouncing, got %v", opts.TextDebounce)
	}
	e := New(opts)
	defer e.Close()
	if e.text != nil {
		t.Fatalf("debouncer should not exist")
	}
}

func TestNewFromConfigReportsBadFonts(t *testing.T) {
	cfg := config.Defaults()
	cfg.Fonts = []config.FontConfig{{Family: "Missing", Path: filepath.Join(t.TempDir(), "nope.ttf")}}
	e, err := NewFromConfig(cfg)
	if err == nil {
		t.Fatalf("expected font load error")
	}
	if e == nil {
		t.Fatalf("editor should still be usable")
	}
	e.Close()
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene reads YAML meme descriptions for unattended rendering.
//
//	image: templates/drake.jpg
//	container_width: 640
//	overlays:
//	  - text: "TOP TEXT"
//	    y: 60
//	  - text: "BOTTOM\nTEXT"
//	    font_size: 56
//	    color: "#ff0"
//	    shadow: true
//
// Fields left out keep the editor defaults; x and y default to the
// surface center.
package scene

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"memelab/internal/domain"
	"memelab/internal/editor"
	"memelab/internal/imageload"
	applog "memelab/internal/log"
)

type Scene struct {
	Image          string        `yaml:"image,omitempty"`
	ContainerWidth int           `yaml:"container_width,omitempty"`
	Overlays       []OverlaySpec `yaml:"overlays"`

	// Dir resolves a relative Image path. Load sets it to the scene's
	// directory.
	Dir string `yaml:"-"`
}

// OverlaySpec lists the settable overlay fields; nil means default.
type OverlaySpec struct {
	Text            *string  `yaml:"text,omitempty"`
	X               *float64 `yaml:"x,omitempty"`
	Y               *float64 `yaml:"y,omitempty"`
	FontSize        *float64 `yaml:"font_size,omitempty"`
	FontFamily      *string  `yaml:"font_family,omitempty"`
	Color           *string  `yaml:"color,omitempty"`
	StrokeColor     *string  `yaml:"stroke_color,omitempty"`
	StrokeWidth     *float64 `yaml:"stroke_width,omitempty"`
	Bold            *bool    `yaml:"bold,omitempty"`
	Italic          *bool    `yaml:"italic,omitempty"`
	Shadow          *bool    `yaml:"shadow,omitempty"`
	Background      *bool    `yaml:"background,omitempty"`
	BackgroundColor *string  `yaml:"background_color,omitempty"`
	Rotation        *float64 `yaml:"rotation,omitempty"`
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes a scene. Unknown keys are rejected so typos do not pass
// silently.
func Parse(b []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &s, nil
}

// ImageSource returns Image resolved against Dir. URLs and data URIs
// are returned unchanged.
func (s *Scene) ImageSource() string {
	src := strings.TrimSpace(s.Image)
	switch {
	case src == "", strings.HasPrefix(src, "data:"), strings.Contains(src, "://"):
		return src
	case filepath.IsAbs(src), s.Dir == "":
		return src
	}
	return filepath.Join(s.Dir, src)
}

// Apply loads the base image and adds every overlay to ed. An image that
// cannot be loaded is logged and the scene renders on the placeholder.
// Invalid overlay values keep their defaults; they are reported together
// in the returned error after everything else was applied.
func (s *Scene) Apply(ctx context.Context, ed *editor.Editor, opts imageload.Options) error {
	l := applog.WithOperation(applog.WithComponent("scene"), "apply")
	if s.ContainerWidth > 0 {
		ed.SetContainerWidth(s.ContainerWidth)
	}
	if src := s.ImageSource(); src != "" {
		img, format, err := imageload.Load(ctx, src, opts)
		if err != nil {
			l.WarnContext(ctx, "base image unavailable, using placeholder", slog.String("image", src), slog.Any("err", err))
		} else {
			l.DebugContext(ctx, "base image loaded", slog.String("format", format), slog.Any("size", img.Bounds().Size()))
			ed.SetBaseImage(img)
		}
	}

	var errs []error
	for i, spec := range s.Overlays {
		o := ed.CreateOverlay()
		for _, fv := range spec.fields() {
			if err := ed.SetField(o, fv.field, fv.raw); err != nil {
				errs = append(errs, fmt.Errorf("overlay %d: %w", i, err))
			}
		}
		if spec.FontSize != nil {
			ed.SetFontSize(o, *spec.FontSize)
		}
		if spec.StrokeWidth != nil {
			ed.SetStrokeWidth(o, *spec.StrokeWidth)
		}
		if spec.Rotation != nil {
			ed.SetRotation(o, *spec.Rotation)
		}
		if spec.X != nil || spec.Y != nil {
			x, y := o.X, o.Y
			if spec.X != nil {
				x = *spec.X
			}
			if spec.Y != nil {
				y = *spec.Y
			}
			ed.SetPosition(o, x, y)
		}
	}
	ed.SetSelection(nil)
	return errors.Join(errs...)
}

type fieldValue struct {
	field domain.Field
	raw   string
}

// fields turns the textual and boolean values into raw form values so
// scenes go through the same coercion as interactive edits. Numbers are
// set directly to keep fractions.
func (o OverlaySpec) fields() []fieldValue {
	var out []fieldValue
	str := func(f domain.Field, v *string) {
		if v != nil {
			out = append(out, fieldValue{f, *v})
		}
	}
	flag := func(f domain.Field, v *bool) {
		if v != nil {
			out = append(out, fieldValue{f, strconv.FormatBool(*v)})
		}
	}
	str(domain.FieldText, o.Text)
	str(domain.FieldFontFamily, o.FontFamily)
	str(domain.FieldTextColor, o.Color)
	str(domain.FieldStrokeColor, o.StrokeColor)
	flag(domain.FieldBold, o.Bold)
	flag(domain.FieldItalic, o.Italic)
	flag(domain.FieldShadow, o.Shadow)
	flag(domain.FieldBackground, o.Background)
	str(domain.FieldBackgroundColor, o.BackgroundColor)
	return out
}

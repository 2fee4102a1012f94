/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"math"
	"unicode/utf8"

	"memelab/internal/textlayout"
	"memelab/internal/vector"
)

// Defaults for a freshly created overlay.
const (
	DefaultText        = "NEW TEXT"
	DefaultFontSize    = 40.0
	DefaultFontFamily  = "Impact"
	DefaultStrokeWidth = 3.0

	// EmptyLabel is what list UIs show for an overlay without content.
	EmptyLabel = "(empty text)"
	labelRunes = 30
)

var (
	DefaultTextColor       = vector.White
	DefaultStrokeColor     = vector.Black
	DefaultBackgroundColor = vector.Black
)

// Overlay is one styled text block placed on the canvas. It is a plain
// mutable record; the session holds pointers so an edit through any
// handle is seen by rendering and hit-testing alike.
type Overlay struct {
	Text string
	// X, Y is the anchor: the visual center of the whole block and the
	// pivot for rotation.
	X, Y float64

	FontSize    float64
	FontFamily  string
	Bold        bool
	Italic      bool
	TextColor   vector.Color
	StrokeColor vector.Color
	StrokeWidth float64 // 0 disables the outline

	Shadow          bool
	Background      bool
	BackgroundColor vector.Color

	Rotation float64 // degrees, clockwise on screen
}

// NewOverlay returns an overlay with default styling anchored at (x, y).
func NewOverlay(x, y float64) *Overlay {
	return &Overlay{
		Text:            DefaultText,
		X:               x,
		Y:               y,
		FontSize:        DefaultFontSize,
		FontFamily:      DefaultFontFamily,
		TextColor:       DefaultTextColor,
		StrokeColor:     DefaultStrokeColor,
		StrokeWidth:     DefaultStrokeWidth,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// Anchor returns the overlay's center point.
func (o *Overlay) Anchor() vector.Pt { return vector.Pt{X: o.X, Y: o.Y} }

// Font is the single place an overlay's styling turns into a font request.
// Drawing and hit-testing both go through it.
func (o *Overlay) Font() textlayout.FontSpec {
	w := 400
	if o.Bold {
		w = 700
	}
	return textlayout.FontSpec{Family: o.FontFamily, Size: o.FontSize, Weight: w, Italic: o.Italic}
}

// Radians returns the rotation normalized to [0, 2π). A non-finite
// rotation counts as none.
func (o *Overlay) Radians() float64 {
	if !vector.Finite(o.Rotation) {
		return 0
	}
	d := math.Mod(o.Rotation, 360)
	if d < 0 {
		d += 360
	}
	return vector.Radians(d)
}

// Label is the overlay's name in list UIs.
func (o *Overlay) Label() string {
	if o.Text == "" {
		return EmptyLabel
	}
	if utf8.RuneCountInString(o.Text) <= labelRunes {
		return o.Text
	}
	n := 0
	for i := range o.Text {
		if n == labelRunes {
			return o.Text[:i]
		}
		n++
	}
	return o.Text
}

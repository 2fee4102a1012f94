/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Line layout for overlay text. The same geometry feeds drawing and
// hit-testing so that what the user sees is what the pointer grabs.

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"memelab/internal/vector"
)

const (
	// LineHeightFactor scales the font size into the distance between
	// successive line centers.
	LineHeightFactor = 1.2
	// BackgroundPadFactor scales the font size into the horizontal padding
	// of a line's background rectangle.
	BackgroundPadFactor = 0.3
	// MaxSize is the largest font size faces are built and laid out at.
	// Larger advances would overflow 26.6 fixed point.
	MaxSize = 400.0
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string  // logical family name, may be a comma separated list
	Size   float64 // pixels
	Weight int     // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
// Descent is positive below the baseline.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Measurer reports the advance width of a single line of text.
type Measurer interface {
	Measure(s string) float64
	Metrics() Metrics
}

// Provider maps FontSpec to a concrete face. It never fails: unknown
// families resolve to a built-in fallback.
type Provider interface {
	Resolve(FontSpec) *Face
}

// SplitLines normalizes s to NFC and splits on line breaks. Empty input
// yields a single empty line.
func SplitLines(s string) []string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

// LineBox is one laid out line in the overlay's unrotated frame.
type LineBox struct {
	Text     string
	Width    float64
	CenterY  float64
	Baseline float64
}

// Block is a vertically centered stack of lines around an anchor.
type Block struct {
	Anchor     vector.Pt
	FontSize   float64
	LineHeight float64
	Lines      []LineBox
}

// LayoutLines splits content into lines and positions them so the block's
// vertical midpoint sits on the anchor and each line is horizontally
// centered on it.
func LayoutLines(m Measurer, content string, fontSize float64, anchor vector.Pt) Block {
	lines := SplitLines(content)
	fontSize = math.Min(fontSize, MaxSize)
	lh := fontSize * LineHeightFactor
	b := Block{
		Anchor:     anchor,
		FontSize:   fontSize,
		LineHeight: lh,
		Lines:      make([]LineBox, len(lines)),
	}
	met := m.Metrics()
	top := anchor.Y - b.Height()/2
	for i, s := range lines {
		cy := top + float64(i)*lh + lh/2
		b.Lines[i] = LineBox{
			Text:     s,
			Width:    m.Measure(s),
			CenterY:  cy,
			Baseline: cy + (met.Ascent-met.Descent)/2,
		}
	}
	return b
}

// Height is the total block height.
func (b Block) Height() float64 { return float64(len(b.Lines)) * b.LineHeight }

// MaxWidth is the widest line's advance.
func (b Block) MaxWidth() float64 {
	w := 0.0
	for _, l := range b.Lines {
		w = math.Max(w, l.Width)
	}
	return w
}

// LineLeft is the x where line i starts.
func (b Block) LineLeft(i int) float64 { return b.Anchor.X - b.Lines[i].Width/2 }

// TextBox is the unpadded box of line i: its advance width by one line height.
func (b Block) TextBox(i int) vector.Rect {
	l := b.Lines[i]
	return vector.R(b.LineLeft(i), l.CenterY-b.LineHeight/2, l.Width, b.LineHeight)
}

// BackgroundRect is the filled rectangle behind line i.
func (b Block) BackgroundRect(i int) vector.Rect {
	l := b.Lines[i]
	pad := b.FontSize * BackgroundPadFactor
	return vector.R(b.LineLeft(i)-pad, l.CenterY-b.FontSize/1.5, l.Width+2*pad, b.LineHeight)
}

// BoundingRadius bounds every point of every line box grown by pad, at any
// rotation about the anchor.
func (b Block) BoundingRadius(pad float64) float64 {
	return math.Hypot(b.MaxWidth()/2+pad, b.Height()/2+pad)
}

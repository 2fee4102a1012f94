/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package hittest resolves which overlay, if any, lies under a point.
package hittest

import (
	"math"

	"memelab/internal/domain"
	"memelab/internal/textlayout"
	"memelab/internal/vector"
)

// DefaultPadding grows every line box on all sides so thin strokes and
// short words stay easy to grab.
const DefaultPadding = 10.0

// Tester measures overlays with the same font provider the compositor
// draws with.
type Tester struct {
	Fonts   textlayout.Provider
	Padding float64
}

func New(fonts textlayout.Provider) *Tester {
	return &Tester{Fonts: fonts, Padding: DefaultPadding}
}

// Layout returns the unrotated line layout of o.
func (t *Tester) Layout(o *domain.Overlay) textlayout.Block {
	face := t.Fonts.Resolve(o.Font())
	return textlayout.LayoutLines(face, o.Text, o.FontSize, o.Anchor())
}

// Hit reports whether (x, y) in surface pixels falls inside o.
func (t *Tester) Hit(o *domain.Overlay, x, y float64) bool {
	if o == nil || !vector.Finite(x) || !vector.Finite(y) {
		return false
	}
	b := t.Layout(o)

	// Cheap reject with a box that contains the block at every rotation.
	p := vector.Pt{X: x, Y: y}
	r := b.BoundingRadius(t.Padding)
	if d := p.Sub(o.Anchor()); math.Abs(d.X) > r || math.Abs(d.Y) > r {
		return false
	}

	// Undo the drawing transform so line boxes can be tested unrotated.
	if a := o.Radians(); a != 0 {
		p = vector.RotateAbout(a, o.Anchor()).Invert().Apply(p)
	}
	for i := range b.Lines {
		if b.TextBox(i).Inset(-t.Padding, -t.Padding).Contains(p) {
			return true
		}
	}
	return false
}

// Topmost returns the last overlay in items that contains (x, y), or nil.
// items is ordered bottom to top.
func (t *Tester) Topmost(items []*domain.Overlay, x, y float64) *domain.Overlay {
	for i := len(items) - 1; i >= 0; i-- {
		if t.Hit(items[i], x, y) {
			return items[i]
		}
	}
	return nil
}

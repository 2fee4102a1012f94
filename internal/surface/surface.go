/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package surface owns the pixel buffer overlays are composited onto and
// the sizing rules that derive it from a base image.
package surface

import (
	"image"
	"image/draw"

	"memelab/internal/vector"
)

const (
	// DefaultMaxSize caps the longer side of a fitted image.
	DefaultMaxSize = 800
	// ContainerMargin is subtracted from a known container width.
	ContainerMargin = 40
)

// Placeholder describes the surface shown when no base image is loaded.
type Placeholder struct {
	Width, Height int
	Fill          vector.Color
	Label         string
	LabelColor    vector.Color
	LabelSize     float64
	LabelFamily   string
}

// DefaultPlaceholder is a 600×600 light grey card with a centered hint.
func DefaultPlaceholder() Placeholder {
	return Placeholder{
		Width:       600,
		Height:      600,
		Fill:        vector.MustHex("#f3f4f6"),
		Label:       "Choose template on home page",
		LabelColor:  vector.MustHex("#6b7280"),
		LabelSize:   24,
		LabelFamily: "Arial",
	}
}

// Surface is an RGBA pixel buffer whose size is the coordinate space of
// every overlay.
type Surface struct {
	img *image.RGBA
}

// New allocates a cleared w×h surface. Sizes below one pixel are raised
// to one.
func New(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))}
}

func (s *Surface) Image() *image.RGBA       { return s.img }
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }
func (s *Surface) Width() int              { return s.img.Bounds().Dx() }
func (s *Surface) Height() int             { return s.img.Bounds().Dy() }

// Center returns the midpoint in surface pixels.
func (s *Surface) Center() vector.Pt {
	return vector.Pt{X: float64(s.Width()) / 2, Y: float64(s.Height()) / 2}
}

// Resize reallocates the buffer when the size changes. Content is lost.
func (s *Surface) Resize(w, h int) bool {
	w, h = max(w, 1), max(h, 1)
	if w == s.Width() && h == s.Height() {
		return false
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	return true
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Snapshot copies the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// MaxSizeFor returns the fit limit for a display container of the given
// width; zero or negative means unknown.
func MaxSizeFor(limit, containerWidth int) int {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if containerWidth > 0 {
		limit = min(limit, containerWidth-ContainerMargin)
	}
	return max(limit, 1)
}

// Fit scales a natural image size down so neither side exceeds maxSize,
// keeping the aspect ratio. Images that already fit keep their size.
// Fractional results are truncated.
func Fit(naturalW, naturalH, maxSize int) (w, h int) {
	if naturalW <= 0 || naturalH <= 0 {
		return 0, 0
	}
	if maxSize <= 0 || (naturalW <= maxSize && naturalH <= maxSize) {
		return naturalW, naturalH
	}
	fw, fh, m := float64(naturalW), float64(naturalH), float64(maxSize)
	if fw > fh {
		fh = fh / fw * m
		fw = m
	} else {
		fw = fw / fh * m
		fh = m
	}
	return max(int(fw), 1), max(int(fh), 1)
}

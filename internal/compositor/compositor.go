/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compositor repaints a surface from a base image and a stack of
// text overlays.
package compositor

import (
	"image"
	"image/draw"
	"log/slog"
	"reflect"

	xdraw "golang.org/x/image/draw"

	"memelab/internal/domain"
	applog "memelab/internal/log"
	"memelab/internal/surface"
	"memelab/internal/textlayout"
	"memelab/internal/vector"
)

// Options configure a Compositor.
type Options struct {
	// Placeholder is drawn when there is no base image; nil leaves the
	// surface transparent.
	Placeholder *surface.Placeholder
	Logger      *slog.Logger
}

// Stats describes the most recent Render.
type Stats struct {
	Overlays int // overlay blocks processed, bottom to top
	Lines    int // lines that produced glyphs
	Base     bool
}

// Compositor draws frames. It keeps a scaled copy of the last base image,
// so one Compositor should serve one surface from one goroutine.
type Compositor struct {
	fonts       textlayout.Provider
	placeholder *surface.Placeholder
	log         *slog.Logger

	paint painter
	stats Stats
	base  struct {
		src image.Image
		img *image.RGBA
	}
}

func New(fonts textlayout.Provider, opts Options) *Compositor {
	lg := opts.Logger
	if lg == nil {
		lg = applog.WithComponent("compositor")
	}
	return &Compositor{fonts: fonts, placeholder: opts.Placeholder, log: lg}
}

// Stats returns counters of the last Render.
func (c *Compositor) Stats() Stats { return c.stats }

// Render clears dst, draws base stretched over the whole surface (or the
// placeholder when base is nil) and then each overlay in order. A nil
// overlay is skipped.
func (c *Compositor) Render(dst *surface.Surface, base image.Image, overlays []*domain.Overlay) {
	img := dst.Image()
	dst.Clear()
	c.paint.reset(img)
	c.stats = Stats{}

	switch {
	case base != nil && !base.Bounds().Empty():
		c.drawBase(img, base)
		c.stats.Base = true
	case c.placeholder != nil:
		c.drawPlaceholder(img, dst.Center())
	}

	for _, o := range overlays {
		if o == nil {
			continue
		}
		c.stats.Lines += c.drawOverlay(o)
		c.stats.Overlays++
	}
	c.log.Debug("frame rendered", "overlays", c.stats.Overlays, "lines", c.stats.Lines, "size", img.Bounds().Size())
}

func (c *Compositor) drawBase(img *image.RGBA, base image.Image) {
	src := c.scaledBase(base, img.Bounds().Size())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Over)
}

// scaledBase stretches base to size, reusing the previous result while
// the same image is drawn at the same size.
func (c *Compositor) scaledBase(base image.Image, size image.Point) image.Image {
	if base.Bounds().Size() == size {
		return base
	}
	if c.base.img != nil && c.base.img.Bounds().Size() == size && sameImage(c.base.src, base) {
		return c.base.img
	}
	out := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.CatmullRom.Scale(out, out.Bounds(), base, base.Bounds(), xdraw.Src, nil)
	c.base.src, c.base.img = base, out
	return out
}

func sameImage(a, b image.Image) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}

func (c *Compositor) drawPlaceholder(img *image.RGBA, center vector.Pt) {
	p := c.placeholder
	draw.Draw(img, img.Bounds(), image.NewUniform(p.Fill), image.Point{}, draw.Src)
	if p.Label == "" {
		return
	}
	label := &domain.Overlay{
		Text:       p.Label,
		X:          center.X,
		Y:          center.Y,
		FontSize:   p.LabelSize,
		FontFamily: p.LabelFamily,
		TextColor:  p.LabelColor,
	}
	c.drawOverlay(label)
}

// drawOverlay paints one block and returns how many lines had glyphs.
func (c *Compositor) drawOverlay(o *domain.Overlay) int {
	if o.Text == "" || !o.Anchor().Finite() || !(o.FontSize > 0) || !vector.Finite(o.FontSize) {
		return 0
	}
	face := c.fonts.Resolve(o.Font())
	block := textlayout.LayoutLines(face, o.Text, o.FontSize, o.Anchor())
	m := vector.RotateAbout(o.Radians(), o.Anchor())

	var sh *shadowStyle
	if o.Shadow {
		sh = &dropShadow
	}
	drawn := 0
	var glyphs vector.Path
	for i, line := range block.Lines {
		if o.Background {
			// The background never casts a shadow, even on shadowed text.
			c.paint.fill(rectPath(block.BackgroundRect(i), m), o.BackgroundColor, nil)
		}
		if line.Text == "" {
			continue
		}
		glyphs.Reset()
		if err := face.AppendOutline(&glyphs, line.Text, block.LineLeft(i), line.Baseline, m); err != nil {
			c.log.Warn("glyph outline failed", "line", i, "err", err)
			continue
		}
		if glyphs.Empty() {
			continue
		}
		if o.StrokeWidth > 0 && vector.Finite(o.StrokeWidth) {
			c.paint.stroke(&glyphs, o.StrokeWidth, o.StrokeColor, sh)
		}
		c.paint.fill(&glyphs, o.TextColor, sh)
		drawn++
	}
	return drawn
}

func rectPath(r vector.Rect, m vector.Affine2D) *vector.Path {
	corners := r.Corners()
	var p vector.Path
	p.Polygon(corners[:]...)
	out := p.Transform(m)
	return &out
}

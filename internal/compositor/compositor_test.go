/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"memelab/internal/domain"
	"memelab/internal/surface"
	"memelab/internal/textlayout"
	"memelab/internal/vector"
)

var (
	red   = vector.Color{R: 255, A: 255}
	green = vector.Color{G: 255, A: 255}
	blue  = vector.Color{B: 255, A: 255}
)

func newCompositor() *Compositor {
	return New(textlayout.NewProvider(nil), Options{})
}

func at(s *surface.Surface, x, y int) color.RGBA { return s.Image().RGBAAt(x, y) }

func opaque(c color.RGBA, want vector.Color) bool {
	return c.A == 255 && c.R == want.R && c.G == want.G && c.B == want.B
}

func countPixels(s *surface.Surface, keep func(color.RGBA) bool) int {
	n := 0
	b := s.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if keep(at(s, x, y)) {
				n++
			}
		}
	}
	return n
}

func visible(c color.RGBA) bool { return c.A > 0 }

func TestRenderCountsEveryOverlay(t *testing.T) {
	c := newCompositor()
	s := surface.New(600, 600)
	for n := 0; n <= 5; n++ {
		var items []*domain.Overlay
		for i := 0; i < n; i++ {
			items = append(items, domain.NewOverlay(100+float64(i)*50, 300))
		}
		c.Render(s, nil, items)
		if st := c.Stats(); st.Overlays != n || st.Lines != n {
			t.Fatalf("n=%d: stats %+v", n, st)
		}
	}
}

func TestEmptyContentDrawsNothing(t *testing.T) {
	c := newCompositor()
	s := surface.New(200, 200)
	o := domain.NewOverlay(100, 100)
	o.Text = ""
	o.Background = true
	o.Shadow = true
	c.Render(s, nil, []*domain.Overlay{o})
	if n := countPixels(s, visible); n != 0 {
		t.Fatalf("empty overlay painted %d pixels", n)
	}
}

func TestZOrderTopWins(t *testing.T) {
	c := newCompositor()
	s := surface.New(600, 600)
	a := domain.NewOverlay(300, 300)
	a.Background, a.BackgroundColor = true, red
	b := domain.NewOverlay(300, 300)
	b.Background, b.BackgroundColor = true, blue
	b.TextColor, b.StrokeWidth = blue, 0
	c.Render(s, nil, []*domain.Overlay{a, b})
	if got := at(s, 300, 300); !opaque(got, blue) {
		t.Fatalf("top overlay should cover the anchor, got %+v", got)
	}
	c.Render(s, nil, []*domain.Overlay{b, a})
	if got := at(s, 300, 300); opaque(got, blue) {
		t.Fatalf("reordered stack still shows the old top")
	}
}

func TestTwoLineLayoutGeometry(t *testing.T) {
	c := newCompositor()
	s := surface.New(600, 600)
	o := domain.NewOverlay(300, 300)
	o.Text = "LINE ONE\nLINE TWO"
	o.Background, o.BackgroundColor = true, green
	o.TextColor, o.StrokeWidth = green, 0
	c.Render(s, nil, []*domain.Overlay{o})

	// Line height 48: backgrounds span 300-48-26.7 .. 300+48+21.3.
	for _, y := range []int{252, 276, 300, 324, 343} {
		if got := at(s, 300, y); !opaque(got, green) {
			t.Fatalf("y=%d should be inside the block, got %+v", y, got)
		}
	}
	for _, y := range []int{246, 348} {
		if got := at(s, 300, y); visible(got) {
			t.Fatalf("y=%d should be outside the block, got %+v", y, got)
		}
	}
	w := c.fonts.Resolve(o.Font()).Measure("LINE ONE")
	left := int(300 - w/2 - 0.3*40)
	if got := at(s, left+2, 276); !opaque(got, green) {
		t.Fatalf("inside left padding, got %+v", got)
	}
	if got := at(s, left-3, 276); visible(got) {
		t.Fatalf("left of the padded line, got %+v", got)
	}
}

func TestRotationDoesNotAccumulate(t *testing.T) {
	c := newCompositor()
	s := surface.New(600, 600)
	a := domain.NewOverlay(100, 100)
	a.Rotation = 90
	b := domain.NewOverlay(300, 400)
	b.Background, b.BackgroundColor = true, blue
	b.TextColor, b.StrokeWidth = blue, 0
	c.Render(s, nil, []*domain.Overlay{a, b})
	w := c.fonts.Resolve(b.Font()).Measure(b.Text)
	if got := at(s, int(300+w/2), 400); !opaque(got, blue) {
		t.Fatalf("unrotated overlay should extend horizontally, got %+v", got)
	}
	if got := at(s, 300, int(400-w/2)); visible(got) {
		t.Fatalf("rotation leaked into the next overlay, got %+v", got)
	}
}

func TestBackgroundNeverShadowed(t *testing.T) {
	c := newCompositor()
	s := surface.New(400, 400)
	o := domain.NewOverlay(200, 200)
	o.Text = " "
	o.Shadow = true
	o.Background, o.BackgroundColor = true, red
	c.Render(s, nil, []*domain.Overlay{o})
	if got := at(s, 200, 200); !opaque(got, red) {
		t.Fatalf("background missing: %+v", got)
	}
	// Bottom edge of the background is at 200+48-26.7; a shadow would
	// darken the pixels just below it.
	if got := at(s, 200, 225); visible(got) {
		t.Fatalf("background cast a shadow: %+v", got)
	}
}

func TestShadowAndStroke(t *testing.T) {
	c := newCompositor()
	s := surface.New(400, 200)
	plain := domain.NewOverlay(200, 100)
	plain.StrokeWidth = 0
	c.Render(s, nil, []*domain.Overlay{plain})
	base := countPixels(s, visible)
	if base == 0 {
		t.Fatalf("text drew nothing")
	}
	// Pixels are premultiplied: compare red against alpha, not 255.
	dark := func(px color.RGBA) bool { return px.A >= 32 && int(px.R)*4 < int(px.A) }
	if n := countPixels(s, dark); n != 0 {
		t.Fatalf("white text without stroke produced %d dark pixels", n)
	}

	stroked := domain.NewOverlay(200, 100)
	c.Render(s, nil, []*domain.Overlay{stroked})
	if countPixels(s, visible) <= base || countPixels(s, dark) == 0 {
		t.Fatalf("stroke should add dark outline pixels")
	}

	shadowed := domain.NewOverlay(200, 100)
	shadowed.StrokeWidth = 0
	shadowed.Shadow = true
	c.Render(s, nil, []*domain.Overlay{shadowed})
	if countPixels(s, visible) <= base || countPixels(s, dark) == 0 {
		t.Fatalf("shadow should spread dark pixels beyond the glyphs")
	}
}

func TestBaseImageStretched(t *testing.T) {
	c := newCompositor()
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(base, base.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	s := surface.New(50, 30)
	c.Render(s, base, nil)
	for _, p := range []image.Point{{0, 0}, {49, 29}, {25, 15}} {
		if got := at(s, p.X, p.Y); !opaque(got, red) {
			t.Fatalf("%v: base not stretched, got %+v", p, got)
		}
	}
	if !c.Stats().Base {
		t.Fatalf("stats should report the base image")
	}
	// The scaled copy is reused while the image and size are unchanged.
	first := c.base.img
	c.Render(s, base, nil)
	if c.base.img != first {
		t.Fatalf("scaled base was rebuilt")
	}
}

func TestPlaceholder(t *testing.T) {
	ph := surface.DefaultPlaceholder()
	c := New(textlayout.NewProvider(nil), Options{Placeholder: &ph})
	s := surface.New(ph.Width, ph.Height)
	c.Render(s, nil, nil)
	if got := at(s, 0, 0); !opaque(got, ph.Fill) {
		t.Fatalf("placeholder fill: %+v", got)
	}
	label := func(px color.RGBA) bool { return opaque(px, ph.LabelColor) }
	if countPixels(s, label) == 0 {
		t.Fatalf("placeholder label not drawn")
	}
	if c.Stats().Overlays != 0 {
		t.Fatalf("label must not count as an overlay")
	}
}

func TestOffscreenAndDegenerateOverlays(t *testing.T) {
	c := newCompositor()
	s := surface.New(100, 100)
	far := domain.NewOverlay(-5000, 40)
	far.Shadow = true
	tiny := domain.NewOverlay(50, 50)
	tiny.FontSize = 0
	c.Render(s, nil, []*domain.Overlay{far, tiny, nil})
	if n := countPixels(s, visible); n != 0 {
		t.Fatalf("offscreen overlays painted %d pixels", n)
	}
}

func TestBoxSizes(t *testing.T) {
	got := boxSizes(4, 3)
	want := []int{7, 7, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("boxSizes(4,3) = %v", got)
		}
	}
}

func TestBlurSpreadsCoverage(t *testing.T) {
	src := image.NewAlpha(image.Rect(0, 0, 41, 41))
	for y := 18; y <= 22; y++ {
		for x := 18; x <= 22; x++ {
			src.SetAlpha(x, y, color.Alpha{A: 255})
		}
	}
	out := blurAlpha(src, 4)
	if out.AlphaAt(20, 20).A >= 255 || out.AlphaAt(20, 20).A == 0 {
		t.Fatalf("center should soften, got %d", out.AlphaAt(20, 20).A)
	}
	if out.AlphaAt(28, 20).A == 0 {
		t.Fatalf("blur should reach beyond the square")
	}
	if out.AlphaAt(0, 0).A != 0 {
		t.Fatalf("far corner should stay clear")
	}
	var sumIn, sumOut int
	for i := range src.Pix {
		sumIn += int(src.Pix[i])
		sumOut += int(out.Pix[i])
	}
	if d := sumIn - sumOut; d < -sumIn/20 || d > sumIn/20 {
		t.Fatalf("blur should roughly preserve coverage: %d vs %d", sumIn, sumOut)
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compositor

// Coverage masks and compositing. Every draw step rasterizes its shape
// into a private alpha mask, optionally casts a blurred shadow from that
// mask, then composites the mask onto the surface with a solid color.

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"

	"memelab/internal/vector"
)

// shadowStyle is a drop shadow in device space; rotation never applies to it.
type shadowStyle struct {
	Color  vector.Color
	Sigma  float64
	DX, DY int
}

// dropShadow matches a canvas shadow of rgba(0,0,0,0.8), blur 8, offset 4,4.
var dropShadow = shadowStyle{Color: vector.Black.WithAlpha(204), Sigma: 4, DX: 4, DY: 4}

// margin is how far the blur can spread coverage.
func (s *shadowStyle) margin() int { return int(math.Ceil(3*s.Sigma)) + 1 }

// coverage is an alpha mask whose origin sits at at in surface pixels.
type coverage struct {
	at image.Point
	a  *image.Alpha
}

func (c coverage) rect() image.Rectangle {
	return image.Rectangle{Min: c.at, Max: c.at.Add(c.a.Rect.Size())}
}

type painter struct {
	dst *image.RGBA
	z   xvector.Rasterizer
}

func (pt *painter) reset(dst *image.RGBA) { pt.dst = dst }

// region returns the surface-space rectangle a mask for p needs: the
// path's bounds grown by grow, plus the blur spread when shadowed, limited
// to what can still affect the surface.
func (pt *painter) region(p *vector.Path, grow float64, sh *shadowStyle) image.Rectangle {
	b := p.Bounds()
	if p.Empty() || !b.Min().Finite() || !b.Max().Finite() {
		return image.Rectangle{}
	}
	g := grow + 1
	r := image.Rect(
		int(math.Floor(b.X-g)), int(math.Floor(b.Y-g)),
		int(math.Ceil(b.X+b.W+g)), int(math.Ceil(b.Y+b.H+g)),
	)
	lim := pt.dst.Bounds()
	if sh != nil {
		m := sh.margin()
		r = r.Inset(-m)
		lim = lim.Inset(-(m + max(abs(sh.DX), abs(sh.DY))))
	}
	return r.Intersect(lim)
}

func (pt *painter) fillCoverage(p *vector.Path, r image.Rectangle) coverage {
	mask := image.NewAlpha(image.Rectangle{Max: r.Size()})
	pt.z.Reset(r.Dx(), r.Dy())
	pt.z.DrawOp = draw.Src
	p.FillInto(&pt.z, vector.Pt{X: float64(r.Min.X), Y: float64(r.Min.Y)})
	pt.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return coverage{at: r.Min, a: mask}
}

func (pt *painter) strokeCoverage(p *vector.Path, width float64, r image.Rectangle) coverage {
	w, h := r.Dx(), r.Dy()
	mask := image.NewAlpha(image.Rectangle{Max: r.Size()})
	scanner := rasterx.NewScannerGV(w, h, mask, mask.Bounds())
	d := rasterx.NewDasher(w, h, scanner)
	d.SetStroke(toFixed(width), toFixed(4), rasterx.RoundCap, nil, nil, rasterx.Round, nil, 0)
	p.TraceInto(d, vector.Pt{X: float64(r.Min.X), Y: float64(r.Min.Y)})
	d.SetColor(color.Opaque)
	d.Draw()
	d.Clear()
	return coverage{at: r.Min, a: mask}
}

// fill paints the interior of p.
func (pt *painter) fill(p *vector.Path, col vector.Color, sh *shadowStyle) {
	if col.A == 0 {
		return
	}
	r := pt.region(p, 0, sh)
	if r.Empty() {
		return
	}
	pt.paint(pt.fillCoverage(p, r), col, sh)
}

// stroke paints p's outline with round joins and caps.
func (pt *painter) stroke(p *vector.Path, width float64, col vector.Color, sh *shadowStyle) {
	if col.A == 0 || width <= 0 {
		return
	}
	r := pt.region(p, width/2, sh)
	if r.Empty() {
		return
	}
	pt.paint(pt.strokeCoverage(p, width, r), col, sh)
}

func (pt *painter) paint(cov coverage, col vector.Color, sh *shadowStyle) {
	if sh != nil {
		blurred := coverage{at: cov.at.Add(image.Pt(sh.DX, sh.DY)), a: blurAlpha(cov.a, sh.Sigma)}
		pt.composite(blurred, sh.Color)
	}
	pt.composite(cov, col)
}

func (pt *painter) composite(cov coverage, col color.Color) {
	draw.DrawMask(pt.dst, cov.rect(), image.NewUniform(col), image.Point{}, cov.a, image.Point{}, draw.Over)
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Replay of recorded paths into the two rasterizers used for drawing:
// x/image/vector for coverage fills and rasterx for strokes.

import (
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"
)

// FillInto feeds p into z, shifted by -origin so that origin maps to the
// rasterizer's (0,0).
func (p *Path) FillInto(z *xvector.Rasterizer, origin Pt) {
	open := false
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case MoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(f32(d[0]-origin.X), f32(d[1]-origin.Y))
			open = true
		case LineTo:
			z.LineTo(f32(d[0]-origin.X), f32(d[1]-origin.Y))
		case QuadTo:
			z.QuadTo(f32(d[0]-origin.X), f32(d[1]-origin.Y), f32(d[2]-origin.X), f32(d[3]-origin.Y))
		case CubicTo:
			z.CubeTo(f32(d[0]-origin.X), f32(d[1]-origin.Y), f32(d[2]-origin.X), f32(d[3]-origin.Y),
				f32(d[4]-origin.X), f32(d[5]-origin.Y))
		case Close:
			if open {
				z.ClosePath()
				open = false
			}
		}
	}
	if open {
		z.ClosePath()
	}
}

// TraceInto feeds p into a rasterx adder (stroker, dasher or filler),
// shifted by -origin. Glyph contours are always closed.
func (p *Path) TraceInto(a rasterx.Adder, origin Pt) {
	open := false
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case MoveTo:
			if open {
				a.Stop(true)
			}
			a.Start(fx(d[0]-origin.X, d[1]-origin.Y))
			open = true
		case LineTo:
			a.Line(fx(d[0]-origin.X, d[1]-origin.Y))
		case QuadTo:
			a.QuadBezier(fx(d[0]-origin.X, d[1]-origin.Y), fx(d[2]-origin.X, d[3]-origin.Y))
		case CubicTo:
			a.CubeBezier(fx(d[0]-origin.X, d[1]-origin.Y), fx(d[2]-origin.X, d[3]-origin.Y),
				fx(d[4]-origin.X, d[5]-origin.Y))
		case Close:
			if open {
				a.Stop(true)
				open = false
			}
		}
	}
	if open {
		a.Stop(true)
	}
}

func f32(v float64) float32 { return float32(v) }

func fx(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

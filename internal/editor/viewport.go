/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

// Viewport maps a displayed copy of the surface back to surface pixels.
// OriginX/OriginY is where the surface's top-left corner is shown and
// DisplayW/DisplayH its on-screen size, in the host's units.
type Viewport struct {
	OriginX, OriginY   float64
	DisplayW, DisplayH float64
}

// ToSurface converts client coordinates for a surface of w×h pixels. A
// viewport without a display size is treated as unscaled.
func (v Viewport) ToSurface(cx, cy float64, w, h int) (x, y float64) {
	sx, sy := 1.0, 1.0
	if v.DisplayW > 0 {
		sx = float64(w) / v.DisplayW
	}
	if v.DisplayH > 0 {
		sy = float64(h) / v.DisplayH
	}
	return (cx - v.OriginX) * sx, (cy - v.OriginY) * sy
}

// ContainViewport centers a w×h surface inside a boxW×boxH area at the
// largest scale that fits, keeping the aspect ratio.
func ContainViewport(boxW, boxH float64, w, h int) Viewport {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return Viewport{DisplayW: float64(w), DisplayH: float64(h)}
	}
	s := min(boxW/float64(w), boxH/float64(h))
	dw, dh := float64(w)*s, float64(h)*s
	return Viewport{OriginX: (boxW - dw) / 2, OriginY: (boxH - dh) / 2, DisplayW: dw, DisplayH: dh}
}

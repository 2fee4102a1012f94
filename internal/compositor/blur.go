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
	"math"
)

// blurAlpha approximates a Gaussian blur of standard deviation sigma with
// three successive box blurs. Coverage outside the mask counts as zero.
func blurAlpha(src *image.Alpha, sigma float64) *image.Alpha {
	if sigma <= 0 {
		return src
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	a := make([]float32, w*h)
	b := make([]float32, w*h)
	for y := 0; y < h; y++ {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			a[y*w+x] = float32(src.Pix[off+x])
		}
	}
	for _, size := range boxSizes(sigma, 3) {
		r := (size - 1) / 2
		boxBlur(a, b, h, w, w, 1, r) // rows
		boxBlur(b, a, w, h, 1, w, r) // columns
	}
	out := image.NewAlpha(src.Rect)
	for y := 0; y < h; y++ {
		off := out.PixOffset(out.Rect.Min.X, out.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			v := a[y*w+x] + 0.5
			switch {
			case v <= 0:
				out.Pix[off+x] = 0
			case v >= 255:
				out.Pix[off+x] = 255
			default:
				out.Pix[off+x] = uint8(v)
			}
		}
	}
	return out
}

// boxSizes returns n odd box widths whose successive application has the
// variance of a Gaussian with the given sigma.
func boxSizes(sigma float64, n int) []int {
	fn := float64(n)
	ideal := math.Sqrt(12*sigma*sigma/fn + 1)
	wl := int(math.Floor(ideal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2
	fl := float64(wl)
	m := int(math.Round((12*sigma*sigma - fn*fl*fl - 4*fn*fl - 3*fn) / (-4*fl - 4)))
	sizes := make([]int, n)
	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}

// boxBlur averages a window of radius r along one axis. The buffer holds
// `lines` runs of `length` samples; step is the distance between samples
// of a run and stride the distance between runs.
func boxBlur(src, dst []float32, lines, length, stride, step, r int) {
	inv := 1 / float32(2*r+1)
	for l := 0; l < lines; l++ {
		base := l * stride
		var acc float32
		for i := 0; i <= r && i < length; i++ {
			acc += src[base+i*step]
		}
		for i := 0; i < length; i++ {
			dst[base+i*step] = acc * inv
			if j := i + r + 1; j < length {
				acc += src[base+j*step]
			}
			if j := i - r; j >= 0 {
				acc -= src[base+j*step]
			}
		}
	}
}

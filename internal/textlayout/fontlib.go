/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"memelab/internal/vector"
)

// FontLibrary stores loaded OpenType fonts mapped by family/weight/italic.
// Family names are matched case-insensitively. A library is safe for
// concurrent use; parsed fonts are shared between providers.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	weight int
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// LoadTTF loads a font file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.Add(family, weight, italic, data); err != nil {
		return fmt.Errorf("font %s: %w", path, err)
	}
	return nil
}

// Add parses TTF/OTF bytes and registers them.
func (fl *FontLibrary) Add(family string, weight int, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[fontKey{family: normFamily(family), weight: normWeight(weight), italic: italic}] = f
	return nil
}

// Families lists registered family names, sorted.
func (fl *FontLibrary) Families() []string {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for k := range fl.fonts {
		if !seen[k.family] {
			seen[k.family] = true
			out = append(out, k.family)
		}
	}
	sort.Strings(out)
	return out
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	if len(fl.fonts) == 0 {
		return nil
	}
	for _, fam := range strings.Split(spec.Family, ",") {
		fam = normFamily(fam)
		if fam == "" {
			continue
		}
		if f, ok := fl.fonts[fontKey{family: fam, weight: normWeight(spec.Weight), italic: spec.Italic}]; ok {
			return f
		}
		// Same family: prefer matching slant, then the closest weight.
		var best *opentype.Font
		bestScore := 1 << 30
		for k, f := range fl.fonts {
			if k.family != fam {
				continue
			}
			score := abs(k.weight - normWeight(spec.Weight))
			if k.italic != spec.Italic {
				score += 1000
			}
			if score < bestScore {
				best, bestScore = f, score
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

func normFamily(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.ToLower(s)
}

func normWeight(w int) int {
	if w <= 0 {
		return 400
	}
	return w
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var (
	builtinOnce  sync.Once
	builtinFonts [4]*opentype.Font
)

// builtin returns one of the embedded Go fonts. They stand in for any
// family the library does not know.
func builtin(bold, italic bool) *opentype.Font {
	builtinOnce.Do(func() {
		for i, ttf := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				panic(fmt.Sprintf("textlayout: embedded font %d: %v", i, err))
			}
			builtinFonts[i] = f
		}
	})
	i := 0
	if bold {
		i |= 1
	}
	if italic {
		i |= 2
	}
	return builtinFonts[i]
}

// LibraryProvider resolves FontSpec using a FontLibrary and falls back to
// the embedded Go fonts. Faces are cached per spec. A provider is safe for
// concurrent use.
type LibraryProvider struct {
	Lib *FontLibrary

	mu    sync.Mutex
	faces map[FontSpec]*Face
}

func NewProvider(lib *FontLibrary) *LibraryProvider {
	return &LibraryProvider{Lib: lib, faces: make(map[FontSpec]*Face)}
}

func (p *LibraryProvider) Resolve(spec FontSpec) *Face {
	if spec.Size <= 0 || !vector.Finite(spec.Size) {
		spec.Size = 12
	}
	spec.Size = math.Min(spec.Size, MaxSize)
	spec.Weight = normWeight(spec.Weight)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.faces == nil {
		p.faces = make(map[FontSpec]*Face)
	}
	if f, ok := p.faces[spec]; ok {
		return f
	}
	var face *Face
	if src := p.Lib.find(spec); src != nil {
		if f, err := newFace(src, spec); err == nil {
			face = f
		}
	}
	if face == nil {
		f, err := newFace(builtin(spec.Weight >= 600, spec.Italic), spec)
		if err != nil {
			panic(fmt.Sprintf("textlayout: builtin face: %v", err))
		}
		face = f
	}
	p.faces[spec] = face
	return face
}

// Face is a sized font able to measure strings and emit glyph outlines.
// Measurement and outlines use the same advances and kerning so drawn
// text occupies exactly the measured width.
type Face struct {
	spec    FontSpec
	src     *opentype.Font
	face    font.Face
	metrics Metrics
	ppem    fixed.Int26_6
	widths  *widthCache

	mu  sync.Mutex
	buf sfnt.Buffer
}

func newFace(src *opentype.Font, spec FontSpec) (*Face, error) {
	ff, err := opentype.NewFace(src, &opentype.FaceOptions{Size: spec.Size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	m := ff.Metrics()
	asc, desc := fx2f(m.Ascent), fx2f(m.Descent)
	return &Face{
		spec: spec,
		src:  src,
		face: ff,
		metrics: Metrics{
			Ascent:  asc,
			Descent: desc,
			LineGap: fx2f(m.Height) - asc - desc,
		},
		ppem:   fixed.Int26_6(math.Round(spec.Size * 64)),
		widths: newWidthCache(4096),
	}, nil
}

func (f *Face) Metrics() Metrics { return f.metrics }

// Measure returns the advance width of s in pixels, kerning included.
func (f *Face) Measure(s string) float64 {
	if s == "" {
		return 0
	}
	if w, ok := f.widths.get(s); ok {
		return w
	}
	f.mu.Lock()
	w := fx2f(font.MeasureString(f.face, s))
	f.mu.Unlock()
	f.widths.put(s, w)
	return w
}

// AppendOutline appends the glyph contours of s to p. The pen starts at
// (x, baseline) in the text's own frame and every point is then mapped
// through m.
func (f *Face) AppendOutline(p *vector.Path, s string, x, baseline float64, m vector.Affine2D) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pen := x
	prev := sfnt.GlyphIndex(0)
	hasPrev := false
	at := func(a fixed.Point26_6) vector.Pt {
		return m.Apply(vector.Pt{X: pen + fx2f(a.X), Y: baseline + fx2f(a.Y)})
	}
	for _, r := range s {
		idx, err := f.src.GlyphIndex(&f.buf, r)
		if err != nil {
			return fmt.Errorf("glyph index %q: %w", r, err)
		}
		if hasPrev {
			if k, err := f.src.Kern(&f.buf, prev, idx, f.ppem, font.HintingNone); err == nil {
				pen += fx2f(k)
			}
		}
		segs, err := f.src.LoadGlyph(&f.buf, idx, f.ppem, nil)
		if err != nil {
			return fmt.Errorf("load glyph %q: %w", r, err)
		}
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				q := at(seg.Args[0])
				p.MoveTo(q.X, q.Y)
			case sfnt.SegmentOpLineTo:
				q := at(seg.Args[0])
				p.LineTo(q.X, q.Y)
			case sfnt.SegmentOpQuadTo:
				c, q := at(seg.Args[0]), at(seg.Args[1])
				p.QuadTo(c.X, c.Y, q.X, q.Y)
			case sfnt.SegmentOpCubeTo:
				c1, c2, q := at(seg.Args[0]), at(seg.Args[1]), at(seg.Args[2])
				p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, q.X, q.Y)
			}
		}
		adv, err := f.src.GlyphAdvance(&f.buf, idx, f.ppem, font.HintingNone)
		if err != nil {
			return fmt.Errorf("advance %q: %w", r, err)
		}
		pen += fx2f(adv)
		prev, hasPrev = idx, true
	}
	return nil
}

func fx2f(v fixed.Int26_6) float64 { return float64(v) / 64 }

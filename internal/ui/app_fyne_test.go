//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"golang.org/x/image/font/gofont/goregular"

	"memelab/internal/editor"
	"memelab/internal/textlayout"
)

func almostEqual(a, b, eps float32) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func newCanvas(t *testing.T) (*MemeCanvas, *editor.Editor) {
	t.Helper()
	ed := editor.New(editor.Options{TextDebounce: -1})
	t.Cleanup(ed.Close)
	return NewMemeCanvas(ed), ed
}

func TestMemeCanvas_Defaults(t *testing.T) {
	mc, _ := newCanvas(t)
	if sz := mc.MinSize(); sz.Width != 320 || sz.Height != 240 {
		t.Fatalf("unexpected MinSize: %v", sz)
	}
	if mc.img.Image == nil {
		t.Fatalf("canvas image should start with the surface")
	}
}

func TestMemeCanvas_LayoutContainsSurface(t *testing.T) {
	mc, _ := newCanvas(t)
	r, ok := mc.CreateRenderer().(*memeCanvasRenderer)
	if !ok {
		t.Fatalf("expected memeCanvasRenderer, got %T", mc.CreateRenderer())
	}
	r.Layout(fyne.NewSize(1000, 500))
	if !almostEqual(mc.img.Size().Width, 500, 0.5) || !almostEqual(mc.img.Size().Height, 500, 0.5) {
		t.Fatalf("image size = %v", mc.img.Size())
	}
	if !almostEqual(mc.img.Position().X, 250, 0.5) || !almostEqual(mc.img.Position().Y, 0, 0.5) {
		t.Fatalf("image position = %v", mc.img.Position())
	}
}

func TestMemeCanvas_DragMapsToSurface(t *testing.T) {
	mc, ed := newCanvas(t)
	mc.Resize(fyne.NewSize(300, 300))
	o := ed.CreateOverlay()
	ed.SetSelection(nil)

	interacted := false
	mc.OnInteract = func() { interacted = true }
	mc.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(150, 150)}, Button: desktop.MouseButtonPrimary})
	if ed.Selection() != o || !ed.Dragging() || !interacted {
		t.Fatalf("mouse down at the center should grab the overlay")
	}
	mc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(160, 140)}})
	if o.X != 320 || o.Y != 280 {
		t.Fatalf("anchor = (%v,%v), want (320,280)", o.X, o.Y)
	}
	mc.DragEnd()
	if ed.Dragging() {
		t.Fatalf("drag end should release")
	}
	mc.MouseOut()
	if ed.Selection() != o {
		t.Fatalf("leaving keeps the selection")
	}
}

func TestFontChoicesIncludeConfiguredFamilies(t *testing.T) {
	lib := textlayout.NewFontLibrary()
	for _, fam := range []string{"My Font", "IMPACT"} {
		if err := lib.Add(fam, 400, false, goregular.TTF); err != nil {
			t.Fatalf("add %s: %v", fam, err)
		}
	}
	got := fontChoices(lib.Families())
	if len(got) != len(builtinFamilies)+1 {
		t.Fatalf("choices = %v", got)
	}
	if got[0] != "Impact" || got[len(got)-1] != "my font" {
		t.Fatalf("choices = %v", got)
	}
}

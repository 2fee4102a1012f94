/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"memelab/internal/domain"
	"memelab/internal/hittest"
	"memelab/internal/surface"
	"memelab/internal/textlayout"
)

func newTestEditor(t *testing.T, opts Options) *Editor {
	t.Helper()
	e := New(opts)
	t.Cleanup(e.Close)
	e.Frame()
	return e
}

func TestCreateOverlayAtSurfaceCenter(t *testing.T) {
	e := newTestEditor(t, Options{})
	if e.Surface().Width() != 600 || e.Surface().Height() != 600 {
		t.Fatalf("surface = %dx%d, want 600x600", e.Surface().Width(), e.Surface().Height())
	}
	a := e.CreateOverlay()
	if got := len(e.Collection()); got != 1 {
		t.Fatalf("collection len = %d", got)
	}
	if e.Selection() != a {
		t.Fatalf("new overlay should be selected")
	}
	if a.X != 300 || a.Y != 300 || a.FontSize != 40 {
		t.Fatalf("unexpected overlay %+v", a)
	}
	if !e.Frame() {
		t.Fatalf("creation should request a frame")
	}
}

func TestRotationChangesHits(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	half := hittest.New(e.opts.Fonts).Layout(a).MaxWidth() / 2
	if half < 60 {
		t.Fatalf("default text unexpectedly narrow: %v", half)
	}
	d := half - 5
	if e.HitTest(a.X+d, a.Y) != a {
		t.Fatalf("point along the text should hit before rotating")
	}
	if e.HitTest(a.X, a.Y+d) != nil {
		t.Fatalf("point below the text should miss before rotating")
	}

	e.SetRotation(a, 90)
	if e.HitTest(a.X+d, a.Y) != nil {
		t.Fatalf("point left outside by the rotation should miss")
	}
	if e.HitTest(a.X, a.Y+d) != a {
		t.Fatalf("point rotated into the box should hit")
	}
	if e.HitTest(a.X, a.Y) != a {
		t.Fatalf("anchor always hits")
	}
}

func TestTopmostThenDelete(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	b := e.CreateOverlay()
	if got := e.HitTest(300, 300); got != b {
		t.Fatalf("hit = %p, want top overlay %p", got, b)
	}
	e.DeleteOverlay(b)
	if got := e.HitTest(300, 300); got != a {
		t.Fatalf("after delete hit = %p, want %p", got, a)
	}
	if e.Selection() != a {
		t.Fatalf("selection should fall back to the remaining overlay")
	}
	e.DeleteOverlay(a)
	if e.Selection() != nil || len(e.Collection()) != 0 {
		t.Fatalf("deleting the last overlay should clear the selection")
	}
}

func TestDeleteSelectionSuccessor(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	b := e.CreateOverlay()
	c := e.CreateOverlay()
	e.SetSelection(b)
	e.DeleteSelection()
	if e.Selection() != c {
		t.Fatalf("selection = %p, want new topmost %p", e.Selection(), c)
	}
	e.SetSelection(a)
	e.DeleteOverlay(c)
	if e.Selection() != a {
		t.Fatalf("deleting an unselected overlay must keep the selection")
	}
}

func TestNoSelectionIsNoop(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.DeleteSelection()
	if err := e.Dispatch(Event{Kind: StyleChanged, Field: domain.FieldFontSize, Value: "abc"}); err != nil {
		t.Fatalf("style change without selection: %v", err)
	}
	if err := e.Dispatch(Event{Kind: OverlayDeleted}); err != nil {
		t.Fatalf("delete without selection: %v", err)
	}
	e.SetFontSize(nil, 20)
	e.SetContent(nil, "x")
	if e.Frame() {
		t.Fatalf("no-ops must not request a frame")
	}
}

func TestForeignOverlayIgnored(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	stranger := domain.NewOverlay(1, 1)
	e.SetSelection(stranger)
	if e.Selection() != a {
		t.Fatalf("foreign overlay must not become the selection")
	}
	e.SetFontSize(stranger, 99)
	if stranger.FontSize != domain.DefaultFontSize {
		t.Fatalf("foreign overlay must not be edited")
	}
	e.DeleteOverlay(stranger)
	if len(e.Collection()) != 1 {
		t.Fatalf("foreign delete changed the collection")
	}
}

func TestMalformedInputKeepsPriorValue(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	e.Frame()

	err := e.SetField(a, domain.FieldFontSize, "huge")
	if !errors.Is(err, domain.ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
	if a.FontSize != 40 {
		t.Fatalf("font size changed to %v", a.FontSize)
	}
	if err := e.SetField(a, domain.FieldTextColor, "#zzz"); err == nil {
		t.Fatalf("bad color accepted")
	}
	e.SetFontSize(a, math.NaN())
	e.SetPosition(a, math.Inf(1), 3)
	e.SetRotation(a, math.NaN())
	if a.FontSize != 40 || a.X != 300 || a.Rotation != 0 {
		t.Fatalf("non-finite input altered overlay: %+v", a)
	}
	if e.Frame() {
		t.Fatalf("rejected input must not request a frame")
	}

	if err := e.SetField(a, domain.FieldFontSize, "72px"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if a.FontSize != 72 {
		t.Fatalf("font size = %v, want 72", a.FontSize)
	}
	e.SetStrokeWidth(a, 500)
	if a.StrokeWidth != domain.MaxStrokeWidth {
		t.Fatalf("stroke width not clamped: %v", a.StrokeWidth)
	}
}

func TestSettersCoalesceIntoOneFrame(t *testing.T) {
	renders := 0
	e := newTestEditor(t, Options{OnRendered: func(*surface.Surface) { renders++ }})
	renders = 0
	a := e.CreateOverlay()
	e.SetBold(a, true)
	e.SetItalic(a, true)
	e.SetShadow(a, true)
	e.SetBackground(a, true)
	e.SetPosition(a, 120, 140)
	if !e.Frame() {
		t.Fatalf("expected a frame")
	}
	if e.Frame() {
		t.Fatalf("second frame without changes should be idle")
	}
	if renders != 1 {
		t.Fatalf("renders = %d, want 1", renders)
	}
	if got := e.Stats().Overlays; got != 1 {
		t.Fatalf("drew %d overlays", got)
	}
}

func TestContentEditsAreDebounced(t *testing.T) {
	e := newTestEditor(t, Options{TextDebounce: 20 * time.Millisecond})
	a := e.CreateOverlay()
	e.Frame()

	e.SetContent(a, "H")
	e.SetContent(a, "HI")
	if e.Frame() {
		t.Fatalf("content edit rendered before the quiet period")
	}
	if a.Text != "HI" {
		t.Fatalf("text = %q", a.Text)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !e.Scheduler().Pending() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !e.Frame() {
		t.Fatalf("content edit never rendered")
	}
}

func TestContentWithoutDebounce(t *testing.T) {
	e := newTestEditor(t, Options{TextDebounce: -1})
	a := e.CreateOverlay()
	e.Frame()
	e.SetContent(a, "LINE ONE\nLINE TWO")
	if !e.Frame() {
		t.Fatalf("undebounced content edit should render on the next frame")
	}
	if got := e.Stats().Lines; got != 2 {
		t.Fatalf("lines drawn = %d, want 2", got)
	}
}

func TestSnapshotFlushesPendingContent(t *testing.T) {
	e := newTestEditor(t, Options{TextDebounce: time.Hour})
	a := e.CreateOverlay()
	e.SetContent(a, "")
	snap := e.Snapshot()
	if snap.Bounds() != e.Surface().Bounds() {
		t.Fatalf("snapshot bounds %v", snap.Bounds())
	}
	if e.text.Pending() {
		t.Fatalf("snapshot should flush the debouncer")
	}
	if e.Stats().Lines != 0 {
		t.Fatalf("empty content should draw no lines")
	}
}

func TestDragMovesAnchor(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	e.SetSelection(nil)

	if err := e.Dispatch(Event{Kind: PointerDown, X: 310, Y: 305}); err != nil {
		t.Fatal(err)
	}
	if !e.Dragging() || e.Selection() != a {
		t.Fatalf("pointer down on text should select and start dragging")
	}
	_ = e.Dispatch(Event{Kind: PointerMove, X: 360, Y: 325})
	if a.X != 350 || a.Y != 320 {
		t.Fatalf("anchor = (%v,%v), want (350,320)", a.X, a.Y)
	}
	_ = e.Dispatch(Event{Kind: PointerUp})
	if e.Dragging() {
		t.Fatalf("pointer up should end the drag")
	}
	_ = e.Dispatch(Event{Kind: PointerMove, X: 0, Y: 0})
	if a.X != 350 || a.Y != 320 {
		t.Fatalf("move after release changed the anchor")
	}
}

func TestPointerDownOnEmptyClearsSelection(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.CreateOverlay()
	_ = e.Dispatch(Event{Kind: PointerDown, X: 5, Y: 5})
	if e.Selection() != nil || e.Dragging() {
		t.Fatalf("empty click should clear selection without dragging")
	}
}

func TestLeaveAndTouchEndRelease(t *testing.T) {
	for _, end := range []EventKind{PointerLeave, TouchEnd} {
		e := newTestEditor(t, Options{})
		a := e.CreateOverlay()
		_ = e.Dispatch(Event{Kind: TouchStart, X: 300, Y: 300})
		_ = e.Dispatch(Event{Kind: TouchMove, X: 280, Y: 310})
		if a.X != 280 || a.Y != 310 {
			t.Fatalf("touch drag: anchor = (%v,%v)", a.X, a.Y)
		}
		_ = e.Dispatch(Event{Kind: end})
		if e.Dragging() {
			t.Fatalf("%v should release the drag", end)
		}
	}
}

func TestDeletingDraggedOverlayEndsDrag(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	_ = e.Dispatch(Event{Kind: PointerDown, X: 300, Y: 300})
	_ = e.Dispatch(Event{Kind: OverlayDeleted, Target: a})
	if e.Dragging() {
		t.Fatalf("drag should end with its overlay")
	}
}

func TestDispatchCreatesAndStyles(t *testing.T) {
	e := newTestEditor(t, Options{})
	if err := e.Dispatch(Event{Kind: OverlayCreated}); err != nil {
		t.Fatal(err)
	}
	a := e.Selection()
	if a == nil {
		t.Fatalf("created overlay not selected")
	}
	if err := e.Dispatch(Event{Kind: StyleChanged, Field: domain.FieldStrokeColor, Value: "#f00"}); err != nil {
		t.Fatal(err)
	}
	if a.StrokeColor.Hex() != "#ff0000" {
		t.Fatalf("stroke color = %s", a.StrokeColor.Hex())
	}
	if err := e.Dispatch(Event{Kind: EventKind(99)}); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("unknown kind err = %v", err)
	}
}

func TestBaseImageRefitsSurface(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.SetBaseImage(image.NewRGBA(image.Rect(0, 0, 1600, 800)))
	if w, h := e.Surface().Width(), e.Surface().Height(); w != 800 || h != 400 {
		t.Fatalf("surface = %dx%d, want 800x400", w, h)
	}
	e.SetContainerWidth(500)
	if w, h := e.Surface().Width(), e.Surface().Height(); w != 460 || h != 230 {
		t.Fatalf("surface = %dx%d, want 460x230", w, h)
	}
	if !e.Frame() || !e.Stats().Base {
		t.Fatalf("base image should be drawn")
	}
	e.SetBaseImage(nil)
	if w, h := e.Surface().Width(), e.Surface().Height(); w != 600 || h != 600 {
		t.Fatalf("surface = %dx%d, want placeholder size", w, h)
	}
}

func TestReorder(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	b := e.CreateOverlay()
	e.BringToFront(a)
	if e.HitTest(300, 300) != a {
		t.Fatalf("a should be on top after BringToFront")
	}
	e.SendToBack(a)
	if e.HitTest(300, 300) != b {
		t.Fatalf("b should be on top after SendToBack")
	}
}

func TestLabels(t *testing.T) {
	e := newTestEditor(t, Options{})
	a := e.CreateOverlay()
	e.SetContent(a, "")
	e.CreateOverlay()
	got := e.Labels()
	if len(got) != 2 || got[0] != domain.EmptyLabel || got[1] != domain.DefaultText {
		t.Fatalf("labels = %q", got)
	}
}

func TestCustomFontsProvider(t *testing.T) {
	p := textlayout.NewProvider(textlayout.NewFontLibrary())
	e := newTestEditor(t, Options{Fonts: p})
	a := e.CreateOverlay()
	if e.HitTest(a.X, a.Y) != a {
		t.Fatalf("anchor should hit")
	}
}

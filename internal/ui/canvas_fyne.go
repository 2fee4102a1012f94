//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"memelab/internal/editor"
	"memelab/internal/surface"
)

// MemeCanvas shows the editor surface scaled to fit and forwards pointer
// input to the editor in surface pixels.
type MemeCanvas struct {
	widget.BaseWidget

	ed  *editor.Editor
	img *canvas.Image

	// OnInteract runs after a pointer event that may have changed the
	// selection.
	OnInteract func()
	// OnResize receives the widget width so the host can refit the
	// surface.
	OnResize func(width float32)
}

func NewMemeCanvas(ed *editor.Editor) *MemeCanvas {
	img := canvas.NewImageFromImage(ed.Surface().Snapshot())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleSmooth
	c := &MemeCanvas{ed: ed, img: img}
	c.ExtendBaseWidget(c)
	return c
}

// Show replaces the displayed frame. Call it on the UI goroutine after a
// render.
func (c *MemeCanvas) Show(s *surface.Surface) {
	c.img.Image = s.Snapshot()
	c.Refresh()
}

func (c *MemeCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	return &memeCanvasRenderer{mc: c, bg: bg, objects: []fyne.CanvasObject{bg, c.img}}
}

func (c *MemeCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func (c *MemeCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	if c.OnResize != nil {
		c.OnResize(size.Width)
	}
}

// viewport is where the surface is drawn inside a widget of the given size.
func (c *MemeCanvas) viewport(size fyne.Size) editor.Viewport {
	s := c.ed.Surface()
	return editor.ContainViewport(float64(size.Width), float64(size.Height), s.Width(), s.Height())
}

func (c *MemeCanvas) toSurface(pos fyne.Position, size fyne.Size) (float64, float64) {
	s := c.ed.Surface()
	return c.viewport(size).ToSurface(float64(pos.X), float64(pos.Y), s.Width(), s.Height())
}

func (c *MemeCanvas) pointer(kind editor.EventKind, pos fyne.Position) {
	x, y := c.toSurface(pos, c.Size())
	_ = c.ed.Dispatch(editor.Event{Kind: kind, X: x, Y: y})
	if kind == editor.PointerDown && c.OnInteract != nil {
		c.OnInteract()
	}
}

func (c *MemeCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.pointer(editor.PointerDown, e.Position)
	}
}

func (c *MemeCanvas) MouseUp(*desktop.MouseEvent) { c.pointer(editor.PointerUp, fyne.Position{}) }

func (c *MemeCanvas) Dragged(e *fyne.DragEvent) { c.pointer(editor.PointerMove, e.Position) }

func (c *MemeCanvas) DragEnd() { c.pointer(editor.PointerUp, fyne.Position{}) }

func (c *MemeCanvas) MouseIn(*desktop.MouseEvent) {}

func (c *MemeCanvas) MouseMoved(e *desktop.MouseEvent) {
	if c.ed.Dragging() {
		c.pointer(editor.PointerMove, e.Position)
	}
}

func (c *MemeCanvas) MouseOut() { c.pointer(editor.PointerLeave, fyne.Position{}) }

// Cursor shows a grab hand over the canvas like the web editor.
func (c *MemeCanvas) Cursor() desktop.Cursor {
	if c.ed.Dragging() {
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

type memeCanvasRenderer struct {
	mc      *MemeCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *memeCanvasRenderer) Destroy()                     {}
func (r *memeCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *memeCanvasRenderer) MinSize() fyne.Size           { return r.mc.MinSize() }
func (r *memeCanvasRenderer) Refresh()                     { r.Layout(r.mc.Size()); canvas.Refresh(r.mc) }

func (r *memeCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	v := r.mc.viewport(size)
	r.mc.img.Resize(fyne.NewSize(float32(v.DisplayW), float32(v.DisplayH)))
	r.mc.img.Move(fyne.NewPos(float32(v.OriginX), float32(v.OriginY)))
}

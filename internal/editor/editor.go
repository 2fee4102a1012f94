/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the single entry point the hosts talk to. It owns the
// overlay session and wires pointer input, style edits and frame pacing to
// the compositor and hit tester. An Editor belongs to one goroutine; only
// its scheduler may be poked from others.
package editor

import (
	"image"
	"log/slog"
	"time"

	"memelab/internal/compositor"
	"memelab/internal/domain"
	"memelab/internal/hittest"
	applog "memelab/internal/log"
	"memelab/internal/scheduler"
	"memelab/internal/session"
	"memelab/internal/surface"
	"memelab/internal/textlayout"
	"memelab/internal/vector"
)

// Options configure an Editor. The zero value is usable.
type Options struct {
	// Fonts measures and outlines text. Nil uses the built-in Go fonts.
	Fonts textlayout.Provider
	// Placeholder is shown while no base image is set. Nil keeps the
	// surface transparent at the default placeholder size.
	Placeholder *surface.Placeholder
	// MaxSize and ContainerWidth bound the surface fitted to a base image.
	MaxSize        int
	ContainerWidth int
	// TextDebounce delays renders after content edits. Zero means
	// scheduler.DefaultDebounce, negative renders on the next frame.
	TextDebounce time.Duration
	Logger       *slog.Logger
	// OnRendered runs after every completed render.
	OnRendered func(*surface.Surface)
}

type Editor struct {
	opts Options
	log  *slog.Logger

	session *session.Session
	surface *surface.Surface
	base    image.Image

	comp  *compositor.Compositor
	hit   *hittest.Tester
	sched *scheduler.Coalescer
	text  *scheduler.Debouncer // nil when content edits are not debounced

	drag drag
}

// drag is the pointer capture of an in-progress move.
type drag struct {
	target *domain.Overlay
	offset vector.Pt
}

func (d drag) active() bool { return d.target != nil }

func New(opts Options) *Editor {
	if opts.Fonts == nil {
		opts.Fonts = textlayout.NewProvider(nil)
	}
	if opts.Logger == nil {
		opts.Logger = applog.WithComponent("editor")
	}
	e := &Editor{
		opts:    opts,
		log:     opts.Logger,
		session: session.New(),
		hit:     hittest.New(opts.Fonts),
		comp:    compositor.New(opts.Fonts, compositor.Options{Placeholder: opts.Placeholder}),
	}
	w, h := e.placeholderSize()
	e.surface = surface.New(w, h)
	e.sched = scheduler.NewCoalescer(e.Render)
	if opts.TextDebounce >= 0 {
		e.text = scheduler.NewDebouncer(opts.TextDebounce, e.sched.RequestRender)
	}
	e.sched.RequestRender()
	return e
}

func (e *Editor) placeholderSize() (int, int) {
	if p := e.opts.Placeholder; p != nil && p.Width > 0 && p.Height > 0 {
		return p.Width, p.Height
	}
	p := surface.DefaultPlaceholder()
	return p.Width, p.Height
}

// Close stops pending timers. The editor must not be used afterwards.
func (e *Editor) Close() {
	if e.text != nil {
		e.text.Stop()
	}
}

// Collection returns the overlays bottom to top. The slice is a copy; the
// overlays are not.
func (e *Editor) Collection() []*domain.Overlay { return e.session.Items() }

func (e *Editor) Selection() *domain.Overlay { return e.session.Selected() }

// SetSelection selects o, or clears the selection when o is nil. Overlays
// that are not part of the collection are ignored.
func (e *Editor) SetSelection(o *domain.Overlay) {
	if e.session.Select(o) {
		e.RequestRender()
	}
}

// Labels returns a list caption per overlay, bottom to top.
func (e *Editor) Labels() []string {
	items := e.session.Items()
	out := make([]string, len(items))
	for i, o := range items {
		out[i] = o.Label()
	}
	return out
}

// CreateOverlay adds a default overlay at the surface center, on top of
// the others, and selects it.
func (e *Editor) CreateOverlay() *domain.Overlay {
	c := e.surface.Center()
	o := domain.NewOverlay(c.X, c.Y)
	e.session.Add(o)
	e.session.Select(o)
	e.log.Debug("overlay created", slog.Int("count", e.session.Len()), slog.Float64("x", o.X), slog.Float64("y", o.Y))
	e.RequestRender()
	return o
}

// DeleteOverlay removes o. When o was selected the new topmost overlay
// becomes the selection.
func (e *Editor) DeleteOverlay(o *domain.Overlay) {
	if !e.session.Remove(o) {
		return
	}
	if e.drag.target == o {
		e.drag = drag{}
	}
	e.log.Debug("overlay deleted", slog.Int("count", e.session.Len()))
	e.RequestRender()
}

// DeleteSelection removes the selected overlay, if any.
func (e *Editor) DeleteSelection() { e.DeleteOverlay(e.session.Selected()) }

func (e *Editor) BringToFront(o *domain.Overlay) {
	if e.session.BringToFront(o) {
		e.RequestRender()
	}
}

func (e *Editor) SendToBack(o *domain.Overlay) {
	if e.session.SendToBack(o) {
		e.RequestRender()
	}
}

// HitTest returns the topmost overlay under (x, y) in surface pixels.
func (e *Editor) HitTest(x, y float64) *domain.Overlay {
	return e.hit.Topmost(e.session.Items(), x, y)
}

// RequestRender marks the surface stale. Safe from any goroutine.
func (e *Editor) RequestRender() { e.sched.RequestRender() }

// Frame is one display refresh: it renders if anything changed since the
// previous frame and reports whether it did.
func (e *Editor) Frame() bool { return e.sched.Flush() }

// Scheduler exposes the frame coalescer so a host can drive it from its
// own ticker.
func (e *Editor) Scheduler() *scheduler.Coalescer { return e.sched }

// Render draws the current state immediately.
func (e *Editor) Render() {
	e.comp.Render(e.surface, e.base, e.session.Items())
	if e.opts.OnRendered != nil {
		e.opts.OnRendered(e.surface)
	}
}

// Stats reports what the last render drew.
func (e *Editor) Stats() compositor.Stats { return e.comp.Stats() }

func (e *Editor) Surface() *surface.Surface { return e.surface }

// SetBaseImage replaces the background and refits the surface to it. A nil
// image returns to the placeholder size. Existing overlays keep their
// surface coordinates.
func (e *Editor) SetBaseImage(img image.Image) {
	if img != nil && img.Bounds().Empty() {
		e.log.Warn("base image is empty, ignoring")
		img = nil
	}
	e.base = img
	e.refit()
	e.RequestRender()
}

// SetContainerWidth records the display width available to the surface
// and refits it.
func (e *Editor) SetContainerWidth(w int) {
	if w == e.opts.ContainerWidth {
		return
	}
	e.opts.ContainerWidth = w
	e.refit()
	e.RequestRender()
}

func (e *Editor) refit() {
	var w, h int
	if e.base == nil {
		w, h = e.placeholderSize()
	} else {
		b := e.base.Bounds()
		w, h = surface.Fit(b.Dx(), b.Dy(), surface.MaxSizeFor(e.opts.MaxSize, e.opts.ContainerWidth))
	}
	if e.surface.Resize(w, h) {
		e.log.Debug("surface resized", slog.Int("w", w), slog.Int("h", h))
	}
}

// Snapshot renders any pending change, including debounced content edits,
// and returns a copy of the surface.
func (e *Editor) Snapshot() *image.RGBA {
	if e.text != nil {
		e.text.Flush()
	}
	e.sched.RequestRender()
	e.sched.Flush()
	return e.surface.Snapshot()
}

// edit applies fn to o when o is part of the collection.
func (e *Editor) edit(o *domain.Overlay, fn func(*domain.Overlay)) bool {
	if o == nil || !e.session.Contains(o) {
		return false
	}
	fn(o)
	e.RequestRender()
	return true
}

// SetContent replaces the text of o. The render waits for the debounce
// quiet period; hit testing sees the new text at once.
func (e *Editor) SetContent(o *domain.Overlay, text string) {
	if o == nil || !e.session.Contains(o) {
		return
	}
	o.Text = text
	e.contentChanged()
}

func (e *Editor) contentChanged() {
	if e.text != nil {
		e.text.Trigger()
		return
	}
	e.RequestRender()
}

// SetFontSize clamps size to the accepted range. Non-finite sizes are
// ignored.
func (e *Editor) SetFontSize(o *domain.Overlay, size float64) {
	if !vector.Finite(size) {
		return
	}
	e.edit(o, func(o *domain.Overlay) { o.FontSize = domain.ClampFontSize(size) })
}

func (e *Editor) SetFontFamily(o *domain.Overlay, family string) {
	if family == "" {
		return
	}
	e.edit(o, func(o *domain.Overlay) { o.FontFamily = family })
}

func (e *Editor) SetTextColor(o *domain.Overlay, c vector.Color) {
	e.edit(o, func(o *domain.Overlay) { o.TextColor = c })
}

func (e *Editor) SetStrokeColor(o *domain.Overlay, c vector.Color) {
	e.edit(o, func(o *domain.Overlay) { o.StrokeColor = c })
}

// SetStrokeWidth clamps w; zero disables the outline.
func (e *Editor) SetStrokeWidth(o *domain.Overlay, w float64) {
	if !vector.Finite(w) {
		return
	}
	e.edit(o, func(o *domain.Overlay) { o.StrokeWidth = domain.ClampStrokeWidth(w) })
}

func (e *Editor) SetBold(o *domain.Overlay, on bool) {
	e.edit(o, func(o *domain.Overlay) { o.Bold = on })
}

func (e *Editor) SetItalic(o *domain.Overlay, on bool) {
	e.edit(o, func(o *domain.Overlay) { o.Italic = on })
}

func (e *Editor) SetShadow(o *domain.Overlay, on bool) {
	e.edit(o, func(o *domain.Overlay) { o.Shadow = on })
}

func (e *Editor) SetBackground(o *domain.Overlay, on bool) {
	e.edit(o, func(o *domain.Overlay) { o.Background = on })
}

func (e *Editor) SetBackgroundColor(o *domain.Overlay, c vector.Color) {
	e.edit(o, func(o *domain.Overlay) { o.BackgroundColor = c })
}

// SetRotation stores deg as given; rendering reduces it modulo 360.
func (e *Editor) SetRotation(o *domain.Overlay, deg float64) {
	if !vector.Finite(deg) {
		return
	}
	e.edit(o, func(o *domain.Overlay) { o.Rotation = deg })
}

// SetPosition moves the anchor of o. Positions are not clamped to the
// surface.
func (e *Editor) SetPosition(o *domain.Overlay, x, y float64) {
	if !vector.Finite(x) || !vector.Finite(y) {
		return
	}
	e.edit(o, func(o *domain.Overlay) { o.X, o.Y = x, y })
}

// SetField sets one field of o from a raw form value. A malformed value
// leaves o unchanged; the error is returned for logging only. A nil or
// foreign overlay is a no-op.
func (e *Editor) SetField(o *domain.Overlay, f domain.Field, raw string) error {
	if o == nil || !e.session.Contains(o) {
		return nil
	}
	if err := o.Apply(f, raw); err != nil {
		e.log.Warn("style value rejected", slog.String("field", string(f)), slog.String("value", raw), slog.Any("err", err))
		return err
	}
	if f == domain.FieldText {
		e.contentChanged()
	} else {
		e.RequestRender()
	}
	return nil
}

// Dragging reports whether a pointer currently holds an overlay.
func (e *Editor) Dragging() bool { return e.drag.active() }

// pointerDown selects what lies under (x, y), which may be nothing, and
// starts a drag when something was hit.
func (e *Editor) pointerDown(x, y float64) {
	o := e.HitTest(x, y)
	if o != e.session.Selected() {
		e.session.Select(o)
		e.RequestRender()
	}
	if o == nil {
		e.drag = drag{}
		return
	}
	e.drag = drag{target: o, offset: vector.Pt{X: x - o.X, Y: y - o.Y}}
}

func (e *Editor) pointerMove(x, y float64) {
	if !e.drag.active() {
		return
	}
	e.SetPosition(e.drag.target, x-e.drag.offset.X, y-e.drag.offset.Y)
}

func (e *Editor) release() { e.drag = drag{} }

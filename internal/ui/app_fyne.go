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
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"memelab/internal/config"
	"memelab/internal/crash"
	"memelab/internal/domain"
	"memelab/internal/editor"
	"memelab/internal/export"
	"memelab/internal/imageload"
	applog "memelab/internal/log"
	"memelab/internal/surface"
	"memelab/internal/version"
)

// Run starts the Fyne desktop editor. image, when set, is loaded as the
// base image (path, URL or data URI).
func Run(cfg config.AppConfig, image string) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.Version))

	lib, err := editor.LoadFonts(cfg.Fonts)
	if err != nil {
		l.Warn("some fonts failed to load", slog.Any("err", err))
	}

	fyneApp := app.NewWithID("memelab")
	w := fyneApp.NewWindow("memelab")
	prefs := fyneApp.Preferences()
	w.Resize(fyne.NewSize(
		float32(max(prefs.IntWithFallback("window.width", 1100), 800)),
		float32(max(prefs.IntWithFallback("window.height", 760), 600)),
	))

	var mc *MemeCanvas
	var ctl *controls
	opts := editor.OptionsFromConfig(cfg, lib)
	opts.OnRendered = func(s *surface.Surface) {
		if mc != nil {
			mc.Show(s)
		}
		if ctl != nil {
			ctl.refreshList()
		}
	}
	ed := editor.New(opts)
	defer ed.Close()

	status := widget.NewLabel("Ready")
	mc = NewMemeCanvas(ed)
	ctl = newControls(ed, w, status, fontChoices(lib.Families()))
	mc.OnInteract = ctl.sync
	mc.OnResize = func(width float32) {
		if cfg.Canvas.ContainerWidth == 0 {
			ed.SetContainerWidth(int(width))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loadImage := func(src string) {
		status.SetText("Loading image…")
		ch := imageload.LoadAsync(ctx, src, imageload.Options{Timeout: cfg.Image.FetchTimeout(), MaxBytes: cfg.Image.MaxBytes, MaxPixels: cfg.Image.MaxPixels})
		go func() {
			defer crash.Recover()
			res := <-ch
			fyne.Do(func() {
				if res.Err != nil {
					l.Warn("base image unavailable", slog.String("src", res.Source), slog.Any("err", res.Err))
					status.SetText("Could not load image; showing placeholder.")
					ed.SetBaseImage(nil)
					return
				}
				ed.SetBaseImage(imageload.Downscale(res.Image, cfg.Canvas.MaxSize))
				status.SetText(fmt.Sprintf("Loaded %s image %v", res.Format, res.Image.Bounds().Size()))
			})
		}()
	}
	if strings.TrimSpace(image) != "" {
		loadImage(image)
	}

	openBtn := widget.NewButton("Open Image…", func() {
		d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			loadImage(path)
		}, w)
		d.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}))
		d.Show()
	})
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://… or data:image/…")
	urlEntry.OnSubmitted = func(s string) { loadImage(s) }

	downloadBtn := widget.NewButton("Download…", func() {
		d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if wc == nil {
				return
			}
			defer func() { _ = wc.Close() }()
			format, ferr := export.FormatFromPath(wc.URI().Path())
			if ferr != nil {
				format = export.PNG
			}
			opt := export.Options{Format: format, JPEGQuality: cfg.Render.JPEGQuality}
			if err := export.Encode(wc, ed.Snapshot(), opt); err != nil {
				l.Error("export failed", slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Saved " + wc.URI().Name())
		}, w)
		d.SetFileName(export.FileName(time.Now()))
		d.Show()
	})

	top := container.NewBorder(nil, nil, openBtn, downloadBtn, urlEntry)
	side := container.NewVScroll(ctl.build())
	split := container.NewHSplit(mc, side)
	split.Offset = 0.68
	w.SetContent(container.NewBorder(top, status, nil, nil, split))

	ticker := time.NewTicker(cfg.Render.FrameInterval())
	defer ticker.Stop()
	go func() {
		defer crash.Recover()
		_ = ed.Scheduler().Run(ctx, ticker.C, fyne.Do)
	}()

	w.SetOnClosed(func() {
		size := w.Canvas().Size()
		prefs.SetInt("window.width", int(size.Width))
		prefs.SetInt("window.height", int(size.Height))
	})
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

// controls is the style panel and overlay list. Widget callbacks are
// muted while sync copies the selection into the widgets.
type controls struct {
	ed     *editor.Editor
	w      fyne.Window
	status *widget.Label
	muted  bool

	list        *widget.List
	text        *widget.Entry
	family      *widget.SelectEntry
	size        *widget.Slider
	sizeLabel   *widget.Label
	fill        *widget.Entry
	stroke      *widget.Entry
	strokeWidth *widget.Slider
	bold        *widget.Check
	italic      *widget.Check
	shadow      *widget.Check
	background  *widget.Check
	bgColor     *widget.Entry
	rotation    *widget.Slider
	rotLabel    *widget.Label
}

// builtinFamilies are offered in the font picker even without configured fonts;
// unknown names fall back to the Go faces.
var builtinFamilies = []string{"Impact", "Arial", "Comic Sans MS", "Times New Roman", "Courier New", "Go", "Go Mono"}

// fontChoices appends configured families not already in builtinFamilies.
func fontChoices(configured []string) []string {
	out := append([]string(nil), builtinFamilies...)
	seen := make(map[string]bool, len(out))
	for _, f := range out {
		seen[strings.ToLower(f)] = true
	}
	for _, f := range configured {
		if k := strings.ToLower(f); f != "" && !seen[k] {
			seen[k] = true
			out = append(out, f)
		}
	}
	return out
}

func newControls(ed *editor.Editor, w fyne.Window, status *widget.Label, families []string) *controls {
	c := &controls{ed: ed, w: w, status: status}

	c.list = widget.NewList(
		func() int { return len(ed.Collection()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			labels := ed.Labels()
			if i >= 0 && int(i) < len(labels) {
				o.(*widget.Label).SetText(labels[i])
			}
		},
	)
	c.list.OnSelected = func(id widget.ListItemID) {
		if c.muted {
			return
		}
		items := ed.Collection()
		if id >= 0 && int(id) < len(items) {
			ed.SetSelection(items[id])
			c.sync()
		}
	}

	c.text = widget.NewMultiLineEntry()
	c.text.SetMinRowsVisible(3)
	c.text.OnChanged = func(s string) {
		if !c.muted {
			ed.SetContent(ed.Selection(), s)
		}
	}
	c.family = widget.NewSelectEntry(families)
	c.family.OnChanged = c.field(domain.FieldFontFamily)

	c.sizeLabel = widget.NewLabel("")
	c.size = widget.NewSlider(10, 120)
	c.size.Step = 1
	c.size.OnChanged = func(v float64) {
		c.sizeLabel.SetText(strconv.Itoa(int(v)) + "px")
		if !c.muted {
			ed.SetFontSize(ed.Selection(), v)
		}
	}
	c.fill = widget.NewEntry()
	c.fill.OnChanged = c.field(domain.FieldTextColor)
	c.stroke = widget.NewEntry()
	c.stroke.OnChanged = c.field(domain.FieldStrokeColor)
	c.strokeWidth = widget.NewSlider(0, 10)
	c.strokeWidth.Step = 1
	c.strokeWidth.OnChanged = func(v float64) {
		if !c.muted {
			ed.SetStrokeWidth(ed.Selection(), v)
		}
	}
	c.bold = widget.NewCheck("Bold", func(on bool) { c.flag(domain.FieldBold, on) })
	c.italic = widget.NewCheck("Italic", func(on bool) { c.flag(domain.FieldItalic, on) })
	c.shadow = widget.NewCheck("Shadow", func(on bool) { c.flag(domain.FieldShadow, on) })
	c.background = widget.NewCheck("Background", func(on bool) { c.flag(domain.FieldBackground, on) })
	c.bgColor = widget.NewEntry()
	c.bgColor.OnChanged = c.field(domain.FieldBackgroundColor)
	c.rotLabel = widget.NewLabel("")
	c.rotation = widget.NewSlider(-180, 180)
	c.rotation.Step = 1
	c.rotation.OnChanged = func(v float64) {
		c.rotLabel.SetText(strconv.Itoa(int(v)) + "°")
		if !c.muted {
			ed.SetRotation(ed.Selection(), v)
		}
	}
	c.sync()
	return c
}

// field returns an entry callback that applies the raw value to the
// selection. Rejected values stay in the entry until corrected.
func (c *controls) field(f domain.Field) func(string) {
	return func(raw string) {
		if c.muted {
			return
		}
		if err := c.ed.SetField(c.ed.Selection(), f, raw); err != nil {
			c.status.SetText(fmt.Sprintf("Ignored %s: %q", f, raw))
		}
	}
}

func (c *controls) flag(f domain.Field, on bool) {
	if !c.muted {
		_ = c.ed.SetField(c.ed.Selection(), f, strconv.FormatBool(on))
	}
}

func (c *controls) build() fyne.CanvasObject {
	add := widget.NewButton("Add Text", func() {
		_ = c.ed.Dispatch(editor.Event{Kind: editor.OverlayCreated})
		c.sync()
	})
	del := widget.NewButton("Delete", func() {
		_ = c.ed.Dispatch(editor.Event{Kind: editor.OverlayDeleted})
		c.sync()
	})
	front := widget.NewButton("Bring to Front", func() { c.ed.BringToFront(c.ed.Selection()); c.sync() })
	back := widget.NewButton("Send to Back", func() { c.ed.SendToBack(c.ed.Selection()); c.sync() })

	form := widget.NewForm(
		widget.NewFormItem("Text", c.text),
		widget.NewFormItem("Font", c.family),
		widget.NewFormItem("Size", container.NewBorder(nil, nil, nil, c.sizeLabel, c.size)),
		widget.NewFormItem("Color", c.fill),
		widget.NewFormItem("Stroke", c.stroke),
		widget.NewFormItem("Stroke width", c.strokeWidth),
		widget.NewFormItem("Background color", c.bgColor),
		widget.NewFormItem("Rotation", container.NewBorder(nil, nil, nil, c.rotLabel, c.rotation)),
	)
	listBox := container.NewGridWrap(fyne.NewSize(280, 160), c.list)
	return container.NewVBox(
		container.NewGridWithColumns(2, add, del, front, back),
		widget.NewLabel("Texts"),
		listBox,
		form,
		container.NewGridWithColumns(2, c.bold, c.italic, c.shadow, c.background),
	)
}

// refreshList redraws list labels after a render.
func (c *controls) refreshList() { c.list.Refresh() }

// sync copies the selection into the widgets, or disables them when
// nothing is selected. Sliders stay enabled; their edits are no-ops
// without a selection.
func (c *controls) sync() {
	c.muted = true
	defer func() { c.muted = false }()

	o := c.ed.Selection()
	c.list.Refresh()
	c.list.UnselectAll()
	if o == nil {
		for _, d := range c.disableable() {
			d.Disable()
		}
		return
	}
	for i, it := range c.ed.Collection() {
		if it == o {
			c.list.Select(widget.ListItemID(i))
			break
		}
	}
	for _, d := range c.disableable() {
		d.Enable()
	}
	c.text.SetText(o.Text)
	c.family.SetText(o.FontFamily)
	c.size.SetValue(o.FontSize)
	c.fill.SetText(o.TextColor.Hex())
	c.stroke.SetText(o.StrokeColor.Hex())
	c.strokeWidth.SetValue(o.StrokeWidth)
	c.bold.SetChecked(o.Bold)
	c.italic.SetChecked(o.Italic)
	c.shadow.SetChecked(o.Shadow)
	c.background.SetChecked(o.Background)
	c.bgColor.SetText(o.BackgroundColor.Hex())
	c.rotation.SetValue(o.Rotation)
}

func (c *controls) disableable() []fyne.Disableable {
	return []fyne.Disableable{c.text, c.family, c.fill, c.stroke,
		c.bold, c.italic, c.shadow, c.background, c.bgColor}
}

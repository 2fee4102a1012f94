/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"memelab/internal/config"
	"memelab/internal/crash"
	"memelab/internal/editor"
	"memelab/internal/export"
	"memelab/internal/imageload"
	applog "memelab/internal/log"
	"memelab/internal/scene"
	"memelab/internal/textlayout"
	"memelab/internal/ui"
	"memelab/internal/version"
)

func usage() {
	fmt.Println("memelab: meme text overlay editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  memelab version|-v|--version               Show version")
	fmt.Println("  memelab render <scene.yaml> [out]           Render a scene to PNG, JPEG or PDF (by extension)")
	fmt.Println("  memelab batch <outdir> <scene.yaml>...      Render several scenes concurrently into <outdir>")
	fmt.Println("  memelab config [init]                       Show config location and overrides, or write defaults")
	fmt.Println("  memelab ui [image]                          Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	defer crash.Recover()
	code := run(os.Args[1:])
	_ = applog.Close()
	os.Exit(code)
}

func run(args []string) int {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}
	l.Debug("start", slog.Int("args", len(args)))

	if len(args) == 0 {
		usage()
		return 0
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch args[0] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
		return 0
	case "render":
		if len(args) < 2 {
			fmt.Println("render requires <scene.yaml>")
			usage()
			return 2
		}
		out := export.FileName(time.Now())
		if len(args) >= 3 {
			out = args[2]
		}
		lib, err := editor.LoadFonts(cfg.Fonts)
		if err != nil {
			l.Warn("some fonts failed to load", slog.Any("err", err))
		}
		if err := renderScene(ctx, cfg, lib, args[1], out); err != nil {
			l.Error("render failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			return 1
		}
		fmt.Println("Wrote", out)
		return 0
	case "batch":
		if len(args) < 3 {
			fmt.Println("batch requires <outdir> and at least one scene")
			usage()
			return 2
		}
		n, err := batch(ctx, cfg, args[1], args[2:])
		if err != nil {
			l.Error("batch failed", slog.Any("err", err), slog.Int("rendered", n))
			fmt.Println("Error:", err)
			return 1
		}
		fmt.Printf("Rendered %d scene(s) into %s\n", n, args[1])
		return 0
	case "config":
		return configCmd(cfg, args[1:])
	case "ui":
		var img string
		if len(args) >= 2 {
			img = args[1]
		}
		if err := ui.Run(cfg, img); err != nil {
			fmt.Println("Error:", err)
			return 1
		}
		return 0
	}
	usage()
	return 2
}

func imageOptions(cfg config.AppConfig) imageload.Options {
	return imageload.Options{Timeout: cfg.Image.FetchTimeout(), MaxBytes: cfg.Image.MaxBytes, MaxPixels: cfg.Image.MaxPixels}
}

// renderScene builds a fresh editor for one scene and saves its snapshot.
func renderScene(ctx context.Context, cfg config.AppConfig, lib *textlayout.FontLibrary, scenePath, out string) error {
	l := applog.WithOperation(applog.WithComponent("cli"), "render")
	s, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	ed := editor.New(editor.OptionsFromConfig(cfg, lib))
	defer ed.Close()
	if s.ContainerWidth == 0 && cfg.Canvas.ContainerWidth > 0 {
		s.ContainerWidth = cfg.Canvas.ContainerWidth
	}
	if err := s.Apply(ctx, ed, imageOptions(cfg)); err != nil {
		l.WarnContext(ctx, "scene values rejected, defaults kept", slog.Any("err", err))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := ed.Snapshot()
	opt := export.Options{
		JPEGQuality: cfg.Render.JPEGQuality,
		Title:       strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath)),
	}
	if err := export.Save(out, snap, opt); err != nil {
		return err
	}
	l.InfoContext(ctx, "scene rendered", slog.String("out", out), slog.Int("overlays", len(ed.Collection())))
	return nil
}

// batch renders scenes concurrently, one editor per scene, sharing the
// font library. Outputs are named after the scene files.
func batch(ctx context.Context, cfg config.AppConfig, outDir string, scenes []string) (int, error) {
	lib, err := editor.LoadFonts(cfg.Fonts)
	if err != nil {
		applog.WithComponent("cli").Warn("some fonts failed to load", slog.Any("err", err))
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	done := make([]bool, len(scenes))
	for i, p := range scenes {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)) + ".png"
		out := filepath.Join(outDir, name)
		g.Go(func() error {
			sctx := applog.ContextWith(ctx, slog.String("scene", p))
			if err := renderScene(sctx, cfg, lib, p, out); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			done[i] = true
			return nil
		})
	}
	err = g.Wait()
	n := 0
	for _, ok := range done {
		if ok {
			n++
		}
	}
	return n, err
}

func configCmd(cfg config.AppConfig, args []string) int {
	path, err := config.ConfigPath()
	if err != nil {
		fmt.Println("Error:", err)
		return 1
	}
	if len(args) > 0 && args[0] == "init" {
		if _, err := os.Stat(path); err == nil {
			fmt.Println("Config already exists:", path)
			return 1
		} else if !errors.Is(err, os.ErrNotExist) {
			fmt.Println("Error:", err)
			return 1
		}
		if err := config.Save(config.Defaults()); err != nil {
			fmt.Println("Error:", err)
			return 1
		}
		fmt.Println("Wrote", path)
		return 0
	}
	fmt.Println("Config file:", path)
	for _, k := range config.Keys() {
		if env, ok := config.EnvOverrideFor(k); ok {
			fmt.Printf("  %s overridden by %s\n", k, env)
		}
	}
	fmt.Printf("  max_size=%d container_width=%d frame_interval=%s text_debounce=%s\n",
		cfg.Canvas.MaxSize, cfg.Canvas.ContainerWidth, cfg.Render.FrameInterval(), cfg.Render.TextDebounce())
	return 0
}

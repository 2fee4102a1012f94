/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export encodes surface snapshots for download or sharing.
package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
)

// DefaultJPEGQuality matches the configuration default.
const DefaultJPEGQuality = 92

var ErrUnknownFormat = errors.New("export: unknown format")

// Options controls Encode. Zero values pick defaults.
type Options struct {
	Format      Format
	JPEGQuality int
	Title       string // PDF document title
}

// FileName is the download name for a snapshot taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("pharos-meme-%d.png", now.UnixMilli())
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Encode writes img to w in opt.Format (PNG when empty).
func Encode(w io.Writer, img image.Image, opt Options) error {
	switch opt.Format {
	case PNG, "":
		return WritePNG(w, img)
	case JPEG:
		return WriteJPEG(w, img, opt.JPEGQuality)
	case PDF:
		return WritePDF(w, img, opt.Title)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(opt.Format))
}

// Save encodes img into path, creating parent directories. When
// opt.Format is empty the extension decides.
func Save(path string, img image.Image, opt Options) error {
	if opt.Format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		opt.Format = f
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", opt.Format, err)
	}
	if err := Encode(f, img, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opt.Format, err)
	}
	return nil
}

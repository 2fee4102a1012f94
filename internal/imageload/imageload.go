/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imageload resolves a base image reference (file path, http(s)
// URL or data URI) to a decoded image.
package imageload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Register decoders for the formats templates come in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 32 << 20
	DefaultMaxPixels = 40_000_000
)

var (
	ErrEmpty         = errors.New("imageload: empty source")
	ErrTooLarge      = errors.New("imageload: image exceeds size limit")
	ErrTooManyPixels = errors.New("imageload: image dimensions exceed pixel limit")
	ErrBadDataURI    = errors.New("imageload: malformed data URI")
	ErrUnsupported   = errors.New("imageload: unsupported scheme")
	ErrBadStatus     = errors.New("imageload: unexpected HTTP status")
	errNotDataImage  = errors.New("not an image data URI")
)

// Options tune Load. The zero value uses http.DefaultClient, DefaultTimeout,
// DefaultMaxBytes and DefaultMaxPixels.
type Options struct {
	Client    *http.Client
	Timeout   time.Duration
	MaxBytes  int64
	MaxPixels int64
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

func (o Options) maxPixels() int64 {
	if o.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return o.MaxPixels
}

// Result is delivered by LoadAsync.
type Result struct {
	Source string
	Image  image.Image
	Format string
	Err    error
}

// Load fetches and decodes src. It returns the decoded image and the
// format name registered by its decoder.
func Load(ctx context.Context, src string, opts Options) (image.Image, string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, "", ErrEmpty
	}
	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(src, "data:"):
		data, err = decodeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err = fetch(ctx, src, opts)
	case strings.HasPrefix(src, "file://"):
		u, perr := url.Parse(src)
		if perr != nil {
			return nil, "", fmt.Errorf("imageload: parse %q: %w", src, perr)
		}
		data, err = readFile(u.Path, opts.maxBytes())
	case strings.Contains(src, "://"):
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupported, src)
	default:
		data, err = readFile(src, opts.maxBytes())
	}
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > opts.maxBytes() {
		return nil, "", ErrTooLarge
	}
	return decodeBytes(data, opts.maxPixels())
}

// LoadAsync runs Load on its own goroutine. The channel receives exactly
// one Result and is then closed.
func LoadAsync(ctx context.Context, src string, opts Options) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		img, format, err := Load(ctx, src, opts)
		ch <- Result{Source: src, Image: img, Format: format, Err: err}
	}()
	return ch
}

// Decode decodes any registered format, refusing images larger than
// DefaultMaxPixels before any pixel buffer is allocated.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageload: read: %w", err)
	}
	return decodeBytes(data, DefaultMaxPixels)
}

func decodeBytes(data []byte, maxPixels int64) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imageload: decode: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("imageload: decode: empty image %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width) > maxPixels/int64(cfg.Height) {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imageload: decode: %w", err)
	}
	return img, format, nil
}

// Downscale returns img scaled so neither side exceeds maxSize, or img
// itself when it already fits.
func Downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		w, h = maxSize, max(h*maxSize/w, 1)
	} else {
		w, h = max(w*maxSize/h, 1), maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageload: open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, limit)
}

func fetch(ctx context.Context, src string, opts Options) ([]byte, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("imageload: request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imageload: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrBadStatus, src, resp.Status)
	}
	if resp.ContentLength > opts.maxBytes() {
		return nil, ErrTooLarge
	}
	return readLimited(resp.Body, opts.maxBytes())
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("imageload: read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

// decodeDataURI extracts the payload of data:image/...[;base64],...
func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, ErrBadDataURI
	}
	mediaType, params, _ := strings.Cut(meta, ";")
	if mediaType != "" && !strings.HasPrefix(strings.ToLower(mediaType), "image/") {
		return nil, fmt.Errorf("%w: %w: %s", ErrBadDataURI, errNotDataImage, mediaType)
	}
	if !strings.Contains(";"+params+";", ";base64;") {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
		}
		return []byte(s), nil
	}
	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return data, nil
}

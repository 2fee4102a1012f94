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
	"os"
	"path/filepath"
	"testing"

	"memelab/internal/config"
)

func writeScene(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBatchRendersEveryScene(t *testing.T) {
	dir := t.TempDir()
	a := writeScene(t, dir, "a.yaml", "overlays:\n  - text: HELLO\n")
	b := writeScene(t, dir, "b.yaml", "overlays:\n  - text: \"TWO\\nLINES\"\n    shadow: true\n")
	out := filepath.Join(dir, "out")

	n, err := batch(context.Background(), config.Defaults(), out, []string{a, b})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if n != 2 {
		t.Fatalf("rendered %d scenes", n)
	}
	for _, name := range []string{"a.png", "b.png"} {
		if st, err := os.Stat(filepath.Join(out, name)); err != nil || st.Size() == 0 {
			t.Fatalf("%s missing: %v", name, err)
		}
	}
}

func TestBatchReportsBrokenScene(t *testing.T) {
	dir := t.TempDir()
	good := writeScene(t, dir, "good.yaml", "overlays: []\n")
	bad := writeScene(t, dir, "bad.yaml", "overlays: [\n")
	_, err := batch(context.Background(), config.Defaults(), filepath.Join(dir, "out"), []string{good, bad})
	if err == nil {
		t.Fatalf("expected error for malformed scene")
	}
}

func TestRenderSceneFormats(t *testing.T) {
	dir := t.TempDir()
	s := writeScene(t, dir, "s.yaml", "overlays:\n  - text: HI\n    background: true\n")
	for _, out := range []string{"x.jpg", "x.pdf"} {
		if err := renderScene(context.Background(), config.Defaults(), nil, s, filepath.Join(dir, out)); err != nil {
			t.Fatalf("%s: %v", out, err)
		}
	}
	if err := renderScene(context.Background(), config.Defaults(), nil, filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "y.png")); err == nil {
		t.Fatalf("missing scene should fail")
	}
}

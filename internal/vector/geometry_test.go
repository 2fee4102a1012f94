/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
	out := r.Inset(-10, -10)
	if !out.Contains(Pt{0, 10}) || out.Contains(Pt{-1, 10}) {
		t.Fatalf("negative inset should grow by exactly 10: %+v", out)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Rotate(Radians(90)))
	p := m.Apply(Pt{1, 1})
	if math.Abs(p.X-9) > 1e-9 || math.Abs(p.Y-6) > 1e-9 { // (-1+10, 1+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestRotateAboutAndInvert(t *testing.T) {
	c := Pt{300, 300}
	m := RotateAbout(Radians(90), c)
	p := m.Apply(Pt{400, 300})
	if math.Abs(p.X-300) > 1e-9 || math.Abs(p.Y-400) > 1e-9 {
		t.Fatalf("90deg about center should map east to south, got %+v", p)
	}
	back := m.Invert().Apply(p)
	if math.Abs(back.X-400) > 1e-9 || math.Abs(back.Y-300) > 1e-9 {
		t.Fatalf("inverse did not restore point: %+v", back)
	}
	if RotateAbout(0, c) != Identity {
		t.Fatalf("zero rotation should be identity")
	}
}

func TestFinite(t *testing.T) {
	if Finite(math.NaN()) || Finite(math.Inf(1)) || !Finite(3) {
		t.Fatalf("finite classification wrong")
	}
	if (Pt{1, math.NaN()}).Finite() {
		t.Fatalf("NaN point reported finite")
	}
}

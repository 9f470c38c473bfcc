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

func TestRectContainsAndUnion(t *testing.T) {
	r := R(10, 10, 100, 50)
	if !r.Contains(Pt{10, 10}) || !r.Contains(Pt{110, 60}) {
		t.Fatalf("rect should contain its corners")
	}
	if r.Contains(Pt{111, 60}) {
		t.Fatalf("rect should not contain points past max")
	}
	u := r.Union(R(200, 0, 10, 10))
	if u.X != 10 || u.Y != 0 || u.W != 200 || u.H != 60 {
		t.Fatalf("unexpected union: %+v", u)
	}
}

func TestAffineTranslateScaleInverse(t *testing.T) {
	m := Translate(5, -3).Mul(Scale(2, 2))
	p := m.Apply(Pt{10, 10})
	if p.X != 25 || p.Y != 17 {
		t.Fatalf("apply: got %+v", p)
	}
	inv := Scale(0.5, 0.5).Mul(Translate(-5, 3))
	back := inv.Apply(p)
	if math.Abs(back.X-10) > 1e-9 || math.Abs(back.Y-10) > 1e-9 {
		t.Fatalf("inverse round trip failed: %+v", back)
	}
}

func TestRectTranslated(t *testing.T) {
	r := R(1, 2, 3, 4).Translated(Pt{10, 20})
	if r.X != 11 || r.Y != 22 || r.W != 3 || r.H != 4 {
		t.Fatalf("unexpected translated rect: %+v", r)
	}
}

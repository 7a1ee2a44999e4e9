// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"testing"
)

var (
	NULL = Vec3{}
)

func TestBasics(t *testing.T) {
	v := Vec3{1, 2, 3}
	if v[0] != 1 || v[1] != 2 || v[2] != 3 {
		t.Errorf("Vector construction is not obvious")
	}
}

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	v := Vec3{2, 2, 1}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
	v = Vec3{2, 1, 2}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
	v = Vec3{1, 2, 2}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
}

func TestAdd(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Add(NULL, v)
	if v != got {
		t.Errorf("Adding a null vector changed the vector")
	}
	got = Add(v, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
}

func TestSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Sub(v, NULL)
	if v != got {
		t.Errorf("Substracting a null vector changed the vector")
	}
	got = Sub(v, v)
	if got != NULL {
		t.Errorf("Sub(%v,%v) = %v want %v", v, v, got, NULL)
	}
}

func TestScale(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Scale(2, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Scale(2,%v) = %v want %v", v, got, want)
	}
}

func TestDot(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}
	got := Dot(a, b)
	if got != 12 {
		t.Errorf("Dot(%v,%v) = %v want 12", a, b, got)
	}
	if got != DoublePrecDot(a, b) {
		t.Errorf("DoublePrecDot disagrees with Dot on exact input")
	}
}

func TestCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := Cross(x, y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Cross(%v,%v) = %v want %v", x, y, got, want)
	}
	got = Cross(y, x)
	want = Vec3{0, 0, -1}
	if got != want {
		t.Errorf("Cross(%v,%v) = %v want %v", y, x, got, want)
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, -10, 4}
	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(a,b,0) = %v want %v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(a,b,1) = %v want %v", got, b)
	}
	want := Vec3{5, -5, 2}
	if got := Lerp(a, b, 0.5); got != want {
		t.Errorf("Lerp(a,b,0.5) = %v want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	if got := NULL.Normalize(); got != NULL {
		t.Errorf("Normalize(%v) = %v", NULL, got)
	}
	v := Vec3{0, 3, 0}
	want := Vec3{0, 1, 0}
	if got := v.Normalize(); got != want {
		t.Errorf("Normalize(%v) = %v want %v", v, got, want)
	}
}

func TestMinMax(t *testing.T) {
	a := Vec3{1, 5, 3}
	b := Vec3{4, 2, 3}
	min, max := MinMax(a, b)
	wantMin := Vec3{1, 2, 3}
	wantMax := Vec3{4, 5, 3}
	if min != wantMin || max != wantMax {
		t.Errorf("MinMax(%v,%v) = %v,%v want %v,%v", a, b, min, max, wantMin, wantMax)
	}
}

// Copyright 2026 The vkview Authors. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func nearV4(v, w V4) bool {
	for i := range v {
		if !near(v[i], w[i]) {
			return false
		}
	}
	return true
}

func nearM4(m, n *M4) bool {
	for i := range m {
		if !nearV4(m[i], n[i]) {
			return false
		}
	}
	return true
}

func TestV3(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6", d)
	}
	if l := (&V3{3, 0, 4}).Len(); l != 5 {
		t.Fatalf("V3.Len\nhave %v\nwant 5", l)
	}
	if u.Norm(&V3{0, 0, 2}); u != (V3{0, 0, 1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 1]", u)
	}
	if u.Norm(&V3{}); u != (V3{}) {
		t.Fatalf("V3.Norm (zero)\nhave %v\nwant [0 0 0]", u)
	}
	if u.Cross(&V3{1}, &V3{0, 1}); u != (V3{0, 0, 1}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [0 0 1]", u)
	}
	u = V3{1, 2, 3}
	if u.Cross(&u, &V3{0, 1}); u != (V3{-3, 0, 1}) {
		t.Fatalf("V3.Cross (aliased)\nhave %v\nwant [-3 0 1]", u)
	}
}

func TestM4(t *testing.T) {
	var i, m, n M4
	i.I()
	m = M4{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}, {13, 14, 15, 16}}
	if n.Mul(&i, &m); n != m {
		t.Fatalf("M4.Mul (I⋅m)\nhave %v\nwant %v", n, m)
	}
	if n.Mul(&m, &i); n != m {
		t.Fatalf("M4.Mul (m⋅I)\nhave %v\nwant %v", n, m)
	}
	n.Transpose(&m)
	if n[0] != (V4{1, 5, 9, 13}) || n[3] != (V4{4, 8, 12, 16}) {
		t.Fatalf("M4.Transpose\nhave %v", n)
	}

	var tr, sc, inv, p M4
	tr.Translate(1, -2, 3)
	sc.Scale(2, 4, 0.5)
	m.Mul(&tr, &sc)
	inv.Invert(&m)
	if p.Mul(&m, &inv); !nearM4(&p, &i) {
		t.Fatalf("M4.Invert\nhave %v\nwant I", p)
	}

	var v V4
	if v.Mul(&tr, &V4{0, 0, 0, 1}); v != (V4{1, -2, 3, 1}) {
		t.Fatalf("V4.Mul\nhave %v\nwant [1 -2 3 1]", v)
	}
}

func TestRotate(t *testing.T) {
	var r M4
	r.Rotate(math.Pi/2, &V3{0, 0, 2})
	var v V4
	if v.Mul(&r, &V4{1, 0, 0, 1}); !nearV4(v, V4{0, 1, 0, 1}) {
		t.Fatalf("M4.Rotate\nhave %v\nwant [0 1 0 1]", v)
	}
	// Row-vector product applies the inverse rotation.
	if v.MulRow(&V4{1, 0, 0, 0}, &r); !nearV4(v, V4{0, -1, 0, 0}) {
		t.Fatalf("V4.MulRow\nhave %v\nwant [0 -1 0 0]", v)
	}
}

func TestLookAtLH(t *testing.T) {
	var m M4
	m.LookAtLH(&V3{0, 0, -5}, &V3{}, &V3{0, 1, 0})
	want := M4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 5, 1}}
	if !nearM4(&m, &want) {
		t.Fatalf("M4.LookAtLH\nhave %v\nwant %v", m, want)
	}
	var v V4
	if v.Mul(&m, &V4{0, 0, 0, 1}); !nearV4(v, V4{0, 0, 5, 1}) {
		t.Fatalf("M4.LookAtLH (origin)\nhave %v\nwant [0 0 5 1]", v)
	}
}

func TestPerspectiveLH(t *testing.T) {
	var m M4
	m.PerspectiveLH(math.Pi/2, 200, 100, 0.1, 100)
	if !near(m[1][1], 1) || !near(m[0][0], 0.5) || m[2][3] != 1 {
		t.Fatalf("M4.PerspectiveLH\nhave %v", m)
	}
	for _, c := range []struct{ z, want float32 }{{0.1, 0}, {100, 1}} {
		var v V4
		v.Mul(&m, &V4{0, 0, c.z, 1})
		if d := v[2] / v[3]; !near(d, c.want) {
			t.Fatalf("M4.PerspectiveLH: depth at z=%v\nhave %v\nwant %v", c.z, d, c.want)
		}
	}
}

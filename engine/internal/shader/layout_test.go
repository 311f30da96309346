// Copyright 2026 The vkview Authors. All rights reserved.

package shader

import (
	"testing"
	"unsafe"

	"github.com/vkview/vkview/linear"
)

func checkSlicesT(x, y []float32, t *testing.T, prefix string) {
	n := min(len(x), len(y))
	for i := range n {
		if x[i] != y[i] {
			t.Fatalf("%s: slices differ at index %d\n%v != %v", prefix, i, x[i], y[i])
		}
	}
}

func TestUniformLayout(t *testing.T) {
	// [0:16]
	col := linear.V4{12, 34, 56, 78}
	m := linear.M4{col, col, col, col}

	// [16:32]
	col = linear.V4{-12, -13, -14, -15}
	v := linear.M4{col, col, col, col}

	// [32:48]
	col = linear.V4{21, -43, 41, -87}
	p := linear.M4{col, col, col, col}

	var l UniformLayout
	l.SetModel(&m)
	l.SetView(&v)
	l.SetProj(&p)

	s := unsafe.Slice((*float32)(unsafe.Pointer(&m)), 16)
	checkSlicesT(l[:16], s, t, "UniformLayout.SetModel")
	s = unsafe.Slice((*float32)(unsafe.Pointer(&v)), 16)
	checkSlicesT(l[16:32], s, t, "UniformLayout.SetView")
	s = unsafe.Slice((*float32)(unsafe.Pointer(&p)), 16)
	checkSlicesT(l[32:48], s, t, "UniformLayout.SetProj")

	if n := len(l.Bytes()); n != 192 {
		t.Fatalf("UniformLayout.Bytes: len\nhave %d\nwant 192", n)
	}
	if x := UniformSize; x != 192 {
		t.Fatalf("UniformSize\nhave %d\nwant 192", x)
	}
}

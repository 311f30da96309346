// Copyright 2026 The vkview Authors. All rights reserved.

package bitvec

import (
	"slices"
	"testing"
	"unsafe"
)

func TestNbit(t *testing.T) {
	for _, x := range [...][2]int{
		{int(unsafe.Sizeof(uint(0))) * 8, (&V[uint]{}).nbit()},
		{int(unsafe.Sizeof(uint8(0))) * 8, (&V[uint8]{}).nbit()},
		{int(unsafe.Sizeof(uint16(0))) * 8, (&V[uint16]{}).nbit()},
		{int(unsafe.Sizeof(uint32(0))) * 8, (&V[uint32]{}).nbit()},
		{int(unsafe.Sizeof(uint64(0))) * 8, (&V[uint64]{}).nbit()},
	} {
		if x[0] != x[1] {
			t.Fatalf("V[T].nbit:\nhave %d\nwant %d", x[0], x[1])
		}
	}
}

func TestZero(t *testing.T) {
	var v V[uint16]
	if n := v.Len(); n != 0 {
		t.Fatalf("v.Len:\nhave %d\nwant 0", n)
	}
	if n := v.Rem(); n != 0 {
		t.Fatalf("v.Rem:\nhave %d\nwant 0", n)
	}
	if v.IsSet(3) {
		t.Fatal("v.IsSet: out of range bit is set")
	}
	if _, ok := v.Search(); ok {
		t.Fatal("v.Search: unexpected success on empty vector")
	}
}

func TestGrowFit(t *testing.T) {
	var v V[uint32]
	for _, x := range [...]struct {
		nplus, wantLen int
	}{
		{1, 32},
		{2, 96},
		{0, 96},
		{-1, 96},
		{16, 608},
	} {
		if n, i := v.Len(), v.Grow(x.nplus); n != i {
			t.Fatalf("v.Grow:\nhave %d\nwant %d", i, n)
		}
		if n := v.Len(); n != x.wantLen {
			t.Fatalf("v.Len:\nhave %d\nwant %d", n, x.wantLen)
		}
		if n := v.Rem(); n != x.wantLen {
			t.Fatalf("v.Rem:\nhave %d\nwant %d", n, x.wantLen)
		}
	}
	v.Fit(608)
	if n := v.Len(); n != 640 {
		t.Fatalf("v.Fit:\nhave %d\nwant 640", n)
	}
	v.Fit(10)
	if n := v.Len(); n != 640 {
		t.Fatalf("v.Fit (in range):\nhave %d\nwant 640", n)
	}
}

func TestSetUnset(t *testing.T) {
	var v V[uint8]
	v.Grow(2)
	if !v.Set(9) {
		t.Fatal("v.Set: want true for unset bit")
	}
	if v.Set(9) {
		t.Fatal("v.Set: want false for set bit")
	}
	if !v.IsSet(9) || v.IsSet(8) {
		t.Fatal("v.IsSet: wrong bits set")
	}
	if n := v.Count(); n != 1 {
		t.Fatalf("v.Count:\nhave %d\nwant 1", n)
	}
	if !v.Unset(9) {
		t.Fatal("v.Unset: want true for set bit")
	}
	if v.Unset(9) {
		t.Fatal("v.Unset: want false for unset bit")
	}
	if n := v.Rem(); n != 16 {
		t.Fatalf("v.Rem:\nhave %d\nwant 16", n)
	}
}

func TestSearch(t *testing.T) {
	var v V[uint8]
	v.Grow(2)
	for i := range 16 {
		idx, ok := v.Search()
		if !ok || idx != i {
			t.Fatalf("v.Search:\nhave %d, %t\nwant %d, true", idx, ok, i)
		}
		v.Set(idx)
	}
	if _, ok := v.Search(); ok {
		t.Fatal("v.Search: unexpected success on full vector")
	}
	v.Unset(11)
	if idx, ok := v.Search(); !ok || idx != 11 {
		t.Fatalf("v.Search:\nhave %d, %t\nwant 11, true", idx, ok)
	}
}

func TestOnes(t *testing.T) {
	var v V[uint64]
	v.Fit(200)
	want := []int{0, 63, 64, 130, 200}
	for _, i := range want {
		v.Set(i)
	}
	if have := slices.Collect(v.Ones()); !slices.Equal(have, want) {
		t.Fatalf("v.Ones:\nhave %v\nwant %v", have, want)
	}
	v.Clear()
	if n := v.Count(); n != 0 {
		t.Fatalf("v.Clear:\nhave %d set\nwant 0", n)
	}
}

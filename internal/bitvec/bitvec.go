// Copyright 2026 The vkview Authors. All rights reserved.

// Package bitvec defines a bit vector type useful for
// tracking the liveness of numbered resources.
package bitvec

import (
	"iter"
	"math/bits"
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a growable bit vector with custom granularity.
type V[T Uint] struct {
	s   []T
	rem int
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return len(v.s) * v.nbit() }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

// Count returns the number of set bits in the vector.
func (v *V[_]) Count() int { return v.Len() - v.rem }

// Grow resizes the vector to contain nplus additional Uints.
// The new extent is appended as a contiguous range of unset
// bits.
// It returns the value of v.Len prior to appending.
func (v *V[T]) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.rem += nplus * v.nbit()
		v.s = append(v.s, make([]T, nplus)...)
	}
	return
}

// Fit grows the vector, if needed, so that index is in
// range.
func (v *V[T]) Fit(index int) {
	if index < v.Len() {
		return
	}
	n := v.nbit()
	v.Grow((index-v.Len())/n + 1)
}

// Set sets a given bit.
// It reports whether the bit was previously unset.
func (v *V[T]) Set(index int) bool {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b != 0 {
		return false
	}
	v.s[i] |= b
	v.rem--
	return true
}

// Unset unsets a given bit.
// It reports whether the bit was previously set.
func (v *V[T]) Unset(index int) bool {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b == 0 {
		return false
	}
	v.s[i] &^= b
	v.rem++
	return true
}

// IsSet checks whether a given bit is set.
// Out of range bits are unset.
func (v *V[T]) IsSet(index int) bool {
	if index < 0 || index >= v.Len() {
		return false
	}
	n := v.nbit()
	b := T(1) << (index & (n - 1))
	return v.s[index/n]&b != 0
}

// Search attempts to locate an unset bit in the vector.
// This method will fail only when v.Rem() == 0.
func (v *V[T]) Search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^T(0) {
			continue
		}
		b := bits.TrailingZeros64(uint64(^x))
		return i*v.nbit() + b, true
	}
	return
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	clear(v.s)
	v.rem = v.Len()
}

// Ones returns an iterator over the indices of set bits,
// in increasing order.
func (v *V[T]) Ones() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := v.nbit()
		for i, x := range v.s {
			for x != 0 {
				b := bits.TrailingZeros64(uint64(x))
				if !yield(i*n + b) {
					return
				}
				x &^= T(1) << b
			}
		}
	}
}

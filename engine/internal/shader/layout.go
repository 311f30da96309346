// Copyright 2026 The vkview Authors. All rights reserved.

// Package shader defines the data layouts shared with
// the shader programs.
package shader

import (
	"unsafe"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/linear"
)

// Binding number of the uniform buffer in set 0.
const UniformNr = 0

// UniformBinding is the descriptor binding of the
// uniform buffer.
var UniformBinding = driver.DescBinding{
	Nr:     UniformNr,
	Type:   driver.DConstant,
	Stages: driver.SVertex,
	Len:    1,
}

// Vertex input locations.
const (
	PositionLoc = 0
	ColorLoc    = 1
)

// UniformLayout is the layout of per-frame uniform data.
// It is defined as follows:
//
//	[0:16]  | model matrix
//	[16:32] | view matrix
//	[32:48] | projection matrix
type UniformLayout [48]float32

// UniformSize is the size of UniformLayout in bytes.
const UniformSize = int64(unsafe.Sizeof(UniformLayout{}))

// SetModel sets the model matrix.
func (l *UniformLayout) SetModel(m *linear.M4) { copyM4(l[:16], m) }

// SetView sets the view matrix.
func (l *UniformLayout) SetView(m *linear.M4) { copyM4(l[16:32], m) }

// SetProj sets the projection matrix.
func (l *UniformLayout) SetProj(m *linear.M4) { copyM4(l[32:48], m) }

// Bytes returns l as a byte slice aliasing l.
func (l *UniformLayout) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(l)), UniformSize)
}

func copyM4(dst []float32, m *linear.M4) {
	copy(dst, unsafe.Slice((*float32)(unsafe.Pointer(m)), 16))
}

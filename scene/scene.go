// Copyright 2026 The vkview Authors. All rights reserved.

// Package scene defines what the engine draws: a set of
// render objects seen through a camera.
package scene

import (
	"unsafe"

	"github.com/vkview/vkview/linear"
)

// Vertex is the layout of vertex data consumed by the
// default pipeline.
type Vertex struct {
	Pos   linear.V3
	Color linear.V3
}

// VertexSize is the stride of Vertex data.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Offsets of Vertex attributes.
const (
	PosOffset   = int(unsafe.Offsetof(Vertex{}.Pos))
	ColorOffset = int(unsafe.Offsetof(Vertex{}.Color))
)

// RenderObject is an indexed triangle list.
type RenderObject struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Transform linear.M4

	// HostVertices causes vertex data to be drawn from
	// host-visible memory directly, skipping the copy
	// to device-local memory.
	HostVertices bool
}

// VertexBytes returns the vertex data as bytes.
// The slice aliases o.Vertices.
func (o *RenderObject) VertexBytes() []byte {
	if len(o.Vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&o.Vertices[0])), len(o.Vertices)*VertexSize)
}

// IndexBytes returns the index data as bytes.
// The slice aliases o.Indices.
func (o *RenderObject) IndexBytes() []byte {
	if len(o.Indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&o.Indices[0])), len(o.Indices)*4)
}

// Scene is a collection of render objects and the camera
// through which they are seen.
type Scene struct {
	Objects []*RenderObject
	Camera  *Camera
}

// New creates a scene containing the demo cube in front
// of the default camera.
func New() *Scene {
	return &Scene{
		Objects: []*RenderObject{Cube()},
		Camera:  NewCamera(),
	}
}

// RenderObjects returns s.Objects.
func (s *Scene) RenderObjects() []*RenderObject { return s.Objects }

// View is what the engine needs from a camera.
type View interface {
	SetViewSize(width, height int)
	UpdateViewMatrix() linear.M4
	UpdateProjMatrix() linear.M4
}

// View returns s.Camera.
func (s *Scene) View() View { return s.Camera }

// Colors of the cube vertices.
var (
	white   = linear.V3{1, 1, 1}
	black   = linear.V3{0, 0, 0}
	red     = linear.V3{1, 0, 0}
	green   = linear.V3{0, 1, 0}
	blue    = linear.V3{0, 0, 1}
	yellow  = linear.V3{1, 1, 0}
	cyan    = linear.V3{0, 1, 1}
	magenta = linear.V3{1, 0, 1}
)

// Cube returns a unit cube centered at the origin with a
// distinct color per corner.
func Cube() *RenderObject {
	o := &RenderObject{
		Name: "cube",
		Vertices: []Vertex{
			{linear.V3{-0.5, -0.5, -0.5}, white},
			{linear.V3{-0.5, +0.5, -0.5}, black},
			{linear.V3{+0.5, +0.5, -0.5}, red},
			{linear.V3{+0.5, -0.5, -0.5}, green},
			{linear.V3{-0.5, -0.5, +0.5}, blue},
			{linear.V3{-0.5, +0.5, +0.5}, yellow},
			{linear.V3{+0.5, +0.5, +0.5}, cyan},
			{linear.V3{+0.5, -0.5, +0.5}, magenta},
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3, // front
			4, 6, 5, 4, 7, 6, // back
			4, 5, 1, 4, 1, 0, // left
			3, 2, 6, 3, 6, 7, // right
			1, 5, 6, 1, 6, 2, // top
			4, 0, 3, 4, 3, 7, // bottom
		},
	}
	o.Transform.I()
	return o
}

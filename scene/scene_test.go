// Copyright 2026 The vkview Authors. All rights reserved.

package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkview/vkview/linear"
	"github.com/vkview/vkview/wsi"
)

func TestCube(t *testing.T) {
	c := Cube()
	assert.Equal(t, "cube", c.Name)
	assert.Len(t, c.Vertices, 8)
	require.Len(t, c.Indices, 36)
	for _, i := range c.Indices {
		assert.Less(t, i, uint32(8))
	}
	assert.Equal(t, 24, VertexSize)
	assert.Equal(t, 12, ColorOffset)
	assert.Len(t, c.VertexBytes(), 8*24)
	assert.Len(t, c.IndexBytes(), 36*4)

	var id linear.M4
	id.I()
	assert.Equal(t, id, c.Transform)
	assert.False(t, c.HostVertices)
	assert.Nil(t, (&RenderObject{}).VertexBytes())
}

func TestScene(t *testing.T) {
	s := New()
	require.Len(t, s.RenderObjects(), 1)
	assert.Same(t, s.Camera, s.View().(*Camera))
}

func transform(m *linear.M4, p linear.V3) linear.V4 {
	var v linear.V4
	v.Mul(m, &linear.V4{p[0], p[1], p[2], 1})
	return v
}

func TestCameraMatrices(t *testing.T) {
	c := NewCamera()
	c.SetViewSize(800, 600)
	view := c.UpdateViewMatrix()
	proj := c.UpdateProjMatrix()

	// The origin is 5 units in front of the eye.
	v := transform(&view, linear.V3{})
	assert.InDeltaSlice(t, []float32{0, 0, 5, 1}, v[:], 1e-5)

	var vp linear.M4
	vp.Mul(&proj, &view)
	v = transform(&vp, linear.V3{})
	assert.InDelta(t, 5, v[3], 1e-5)
	d := v[2] / v[3]
	assert.True(t, d > 0 && d < 1, "depth %v not in (0, 1)", d)

	// 90 degrees vertical field of view.
	v = transform(&vp, linear.V3{0, 5, 0})
	assert.InDelta(t, 1, v[1]/v[3], 1e-5)
	v = transform(&vp, linear.V3{5, 0, 0})
	assert.InDelta(t, 600.0/800, v[0]/v[3], 1e-5)
}

func TestCameraZeroSize(t *testing.T) {
	m := NewCamera().UpdateProjMatrix()
	for _, col := range m {
		for _, x := range col {
			assert.False(t, math.IsNaN(float64(x)) || math.IsInf(float64(x), 0))
		}
	}
}

func TestCameraMove(t *testing.T) {
	c := NewCamera()
	c.Translate(1, 2, 3)
	assert.Equal(t, linear.V3{1, 2, -2}, c.Eye)
	c.Zoom(2)
	assert.Equal(t, linear.V3{1, 2, 0}, c.Eye)
}

func TestCameraRotate(t *testing.T) {
	c := NewCamera()
	c.Rotate(0, math.Pi/2)
	c.UpdateViewMatrix()
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, c.LookAt[:], 1e-5)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, c.Right[:], 1e-5)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, c.Up[:], 1e-5)

	c = NewCamera()
	c.Rotate(0.3, 0)
	c.UpdateViewMatrix()
	assert.InDelta(t, 1, c.LookAt.Len(), 1e-5)
	assert.InDelta(t, 0, c.Right[1], 1e-6)
	assert.InDelta(t, 0, c.LookAt.Dot(&c.Up), 1e-5)
}

func TestController(t *testing.T) {
	c := NewCamera()
	ctl := NewController(c)
	var _ wsi.KeyboardHandler = ctl
	var _ wsi.PointerHandler = ctl

	ctl.KeyboardKey(wsi.KeyD, true, 0)
	ctl.KeyboardKey(wsi.KeyW, true, 0)
	ctl.KeyboardKey(wsi.KeyZ, true, 0)
	ctl.Tick()
	assert.InDeltaSlice(t, []float32{0.02, 0, -5.02}, c.Eye[:], 1e-6)

	ctl.KeyboardKey(wsi.KeyS, true, 0)
	ctl.Tick()
	assert.InDeltaSlice(t, []float32{0.04, 0, -5.02}, c.Eye[:], 1e-6)

	ctl.KeyboardOut(nil)
	ctl.Tick()
	assert.InDeltaSlice(t, []float32{0.04, 0, -5.02}, c.Eye[:], 1e-6)

	// Motion without a button held does not rotate.
	ctl.PointerIn(nil, 10, 10)
	ctl.PointerMotion(50, 50)
	assert.Equal(t, linear.V3{0, 0, 1}, c.LookAt)

	// Dragging down pitches the view down.
	ctl.PointerButton(wsi.BtnLeft, true, 50, 50)
	ctl.PointerMotion(50, 150)
	c.UpdateViewMatrix()
	assert.InDelta(t, -math.Sin(0.5), c.LookAt[1], 1e-5)
	ctl.PointerButton(wsi.BtnLeft, false, 50, 150)

	eye := c.Eye
	ctl.PointerScroll(0, 1)
	var d linear.V3
	d.Sub(&c.Eye, &eye)
	assert.InDelta(t, 0.24, d.Len(), 1e-5)
}

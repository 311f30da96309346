// Copyright 2026 The vkview Authors. All rights reserved.

package scene

import (
	"github.com/chewxy/math32"

	"github.com/vkview/vkview/linear"
)

// Camera is a free-flying perspective camera in a
// left-handed coordinate system.
type Camera struct {
	Width, Height int
	// Vertical field of view, in degrees.
	FOV       float32
	Near, Far float32

	Eye    linear.V3
	Right  linear.V3
	Up     linear.V3
	LookAt linear.V3
}

// NewCamera creates a camera at (0, 0, -5) looking
// towards +z.
func NewCamera() *Camera {
	return &Camera{
		FOV:    90,
		Near:   0.1,
		Far:    100,
		Eye:    linear.V3{0, 0, -5},
		Right:  linear.V3{1, 0, 0},
		Up:     linear.V3{0, 1, 0},
		LookAt: linear.V3{0, 0, 1},
	}
}

// SetViewSize sets the size of the view in pixels.
func (c *Camera) SetViewSize(width, height int) {
	c.Width, c.Height = width, height
}

// UpdateViewMatrix reorthogonalizes the camera basis and
// returns the view matrix.
// Right is kept parallel to the ground, so the camera
// never rolls.
func (c *Camera) UpdateViewMatrix() (m linear.M4) {
	c.Right[1] = 0
	c.Right.Norm(&c.Right)
	c.LookAt.Norm(&c.LookAt)
	c.Up.Cross(&c.LookAt, &c.Right)
	var center linear.V3
	center.Add(&c.Eye, &c.LookAt)
	m.LookAtLH(&c.Eye, &center, &c.Up)
	return
}

// UpdateProjMatrix returns the projection matrix for the
// current view size.
func (c *Camera) UpdateProjMatrix() (m linear.M4) {
	w, h := float32(c.Width), float32(c.Height)
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	m.PerspectiveLH(c.FOV*math32.Pi/180, w, h, c.Near, c.Far)
	return
}

// Translate moves the eye by (dx, dy, dz) in world space.
func (c *Camera) Translate(dx, dy, dz float32) {
	c.Eye.Add(&c.Eye, &linear.V3{dx, dy, dz})
}

// Rotate pitches the camera around its right axis and
// then yaws it around its up axis, both in radians.
func (c *Camera) Rotate(pitch, yaw float32) {
	var p, r linear.M4
	p.Rotate(pitch, &c.Right)
	r.Rotate(yaw, &c.Up)
	r.Mul(&p, &r)
	for _, v := range []*linear.V3{&c.Right, &c.Up, &c.LookAt} {
		var u linear.V4
		u.MulRow(&linear.V4{v[0], v[1], v[2], 0}, &r)
		*v = u.V3()
	}
}

// Zoom moves the eye by delta along the view direction.
func (c *Camera) Zoom(delta float32) {
	var d linear.V3
	d.Scale(delta, &c.LookAt)
	c.Translate(d[0], d[1], d[2])
}

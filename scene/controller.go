// Copyright 2026 The vkview Authors. All rights reserved.

package scene

import (
	"github.com/vkview/vkview/wsi"
)

// Input speeds.
const (
	MoveSpeed   = 0.02  // units per tick
	RotateSpeed = 0.005 // radians per pixel
	ZoomSpeed   = 0.002 // units per angle delta
)

// Angle delta of one scroll notch.
const notchDelta = 120

// Controller moves a camera in response to input events.
// It implements wsi.KeyboardHandler and wsi.PointerHandler.
type Controller struct {
	Camera *Camera

	keys    map[wsi.Key]bool
	buttons int
	x, y    int
}

// NewController creates a controller for cam.
func NewController(cam *Camera) *Controller {
	return &Controller{
		Camera: cam,
		keys: map[wsi.Key]bool{
			wsi.KeyA: false, wsi.KeyD: false,
			wsi.KeyQ: false, wsi.KeyE: false,
			wsi.KeyW: false, wsi.KeyS: false,
		},
	}
}

// axis returns the movement along an axis given the keys
// for the negative and positive directions.
func (c *Controller) axis(neg, pos wsi.Key) (v float32) {
	if c.keys[neg] {
		v--
	}
	if c.keys[pos] {
		v++
	}
	return v * MoveSpeed
}

// Tick applies the movement of held keys. It is meant to
// be called once per rendered frame.
func (c *Controller) Tick() {
	c.Camera.Translate(c.axis(wsi.KeyA, wsi.KeyD), c.axis(wsi.KeyQ, wsi.KeyE), c.axis(wsi.KeyW, wsi.KeyS))
}

func (c *Controller) KeyboardIn(wsi.Window) {}

// KeyboardOut releases every key, since release events
// will not arrive while the window is unfocused.
func (c *Controller) KeyboardOut(wsi.Window) {
	for k := range c.keys {
		c.keys[k] = false
	}
}

func (c *Controller) KeyboardKey(key wsi.Key, pressed bool, _ wsi.Modifier) {
	if _, ok := c.keys[key]; ok {
		c.keys[key] = pressed
	}
}

func (c *Controller) PointerIn(_ wsi.Window, x, y int) { c.x, c.y = x, y }

func (c *Controller) PointerOut(wsi.Window) { c.buttons = 0 }

func (c *Controller) PointerMotion(x, y int) {
	if c.buttons > 0 {
		dx := float32(c.x-x) * RotateSpeed
		dy := float32(c.y-y) * RotateSpeed
		c.Camera.Rotate(dy, dx)
	}
	c.x, c.y = x, y
}

func (c *Controller) PointerButton(_ wsi.Button, pressed bool, x, y int) {
	if pressed {
		c.buttons++
	} else if c.buttons > 0 {
		c.buttons--
	}
	c.x, c.y = x, y
}

func (c *Controller) PointerScroll(dx, dy float64) {
	c.Camera.Zoom(ZoomSpeed * notchDelta * float32(dx+dy))
}

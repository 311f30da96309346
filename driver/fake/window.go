// Copyright 2026 The vkview Authors. All rights reserved.

package fake

import (
	"errors"
)

// Window implements wsi.Window without a window system.
type Window struct {
	W, H   int
	Scale  float64
	Name   string
	Closed bool
}

// NewWindow creates a new fake window.
func NewWindow(width, height int, scale float64) *Window {
	return &Window{W: width, H: height, Scale: scale, Name: "fake"}
}

func (w *Window) Map() error { return nil }
func (w *Window) Unmap() error { return nil }

func (w *Window) Resize(width, height int) error {
	w.W, w.H = width, height
	return nil
}

func (w *Window) SetTitle(title string) error {
	w.Name = title
	return nil
}

func (w *Window) Close() { w.Closed = true }
func (w *Window) Width() int { return w.W }
func (w *Window) Height() int { return w.H }
func (w *Window) Title() string { return w.Name }
func (w *Window) ContentScale() float64 { return w.Scale }
func (w *Window) ShouldClose() bool { return w.Closed }

func (w *Window) InstanceExtensions() []string {
	return []string{"VK_KHR_surface"}
}

func (w *Window) NewSurface(any) (uintptr, error) {
	return 0, errors.New("fake: window has no native surface")
}

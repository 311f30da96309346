// Copyright 2026 The vkview Authors. All rights reserved.

//go:build cgo && !nowsi

package wsi

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// initGLFW initializes the GLFW platform.
func initGLFW() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return errNoVulkan
	}
	newWindow = newWindowGLFW
	dispatch = dispatchGLFW
	setAppName = setAppNameGLFW
	platform = GLFW
	return nil
}

// windowGLFW implements Window.
type windowGLFW struct {
	win    *glfw.Window
	width  int
	height int
	title  string
}

// newWindowGLFW creates a new window.
// The window is created hidden and has no client API.
func newWindowGLFW(width, height int, title string) (Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	w := &windowGLFW{
		win:    win,
		width:  width,
		height: height,
		title:  title,
	}
	w.setCallbacks()
	return w, nil
}

// setCallbacks forwards GLFW events to the global
// handlers.
func (w *windowGLFW) setCallbacks() {
	w.win.SetCloseCallback(func(*glfw.Window) {
		if windowHandler != nil {
			windowHandler.WindowClose(w)
		}
	})
	w.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if windowHandler != nil {
			windowHandler.WindowResize(w, width, height)
		}
	})
	w.win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if keyboardHandler == nil {
			return
		}
		if focused {
			keyboardHandler.KeyboardIn(w)
		} else {
			keyboardHandler.KeyboardOut(w)
		}
	})
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if keyboardHandler == nil || action == glfw.Repeat {
			return
		}
		keyboardHandler.KeyboardKey(keyFrom(key), action == glfw.Press, modFrom(mods))
	})
	w.win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if pointerHandler == nil {
			return
		}
		if entered {
			x, y := w.win.GetCursorPos()
			pointerHandler.PointerIn(w, int(x), int(y))
		} else {
			pointerHandler.PointerOut(w)
		}
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if pointerHandler != nil {
			pointerHandler.PointerMotion(int(x), int(y))
		}
	})
	w.win.SetMouseButtonCallback(func(_ *glfw.Window, btn glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if pointerHandler == nil {
			return
		}
		x, y := w.win.GetCursorPos()
		pointerHandler.PointerButton(buttonFrom(btn), action == glfw.Press, int(x), int(y))
	})
	w.win.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		if pointerHandler != nil {
			pointerHandler.PointerScroll(dx, dy)
		}
	})
}

// Map makes the window visible.
func (w *windowGLFW) Map() error {
	w.win.Show()
	return nil
}

// Unmap hides the window.
func (w *windowGLFW) Unmap() error {
	w.win.Hide()
	return nil
}

// Resize resizes the window.
func (w *windowGLFW) Resize(width, height int) error {
	w.win.SetSize(width, height)
	w.width = width
	w.height = height
	return nil
}

// SetTitle sets the window's title.
func (w *windowGLFW) SetTitle(title string) error {
	w.win.SetTitle(title)
	w.title = title
	return nil
}

// Close closes the window.
func (w *windowGLFW) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	closeWindow(w)
}

// Width returns the window's width.
func (w *windowGLFW) Width() int { return w.width }

// Height returns the window's height.
func (w *windowGLFW) Height() int { return w.height }

// Title returns the window's title.
func (w *windowGLFW) Title() string { return w.title }

// ContentScale returns the horizontal content scale.
func (w *windowGLFW) ContentScale() float64 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// ShouldClose reports whether closing was requested.
func (w *windowGLFW) ShouldClose() bool { return w.win.ShouldClose() }

// InstanceExtensions returns the instance extensions
// that GLFW requires.
func (w *windowGLFW) InstanceExtensions() []string {
	return w.win.GetRequiredInstanceExtensions()
}

// NewSurface creates a Vulkan surface.
func (w *windowGLFW) NewSurface(instance any) (uintptr, error) {
	return w.win.CreateWindowSurface(instance, nil)
}

// dispatchGLFW polls pending events.
func dispatchGLFW() { glfw.PollEvents() }

// setAppNameGLFW is a no-op; GLFW uses window titles.
func setAppNameGLFW(string) {}

// modFrom converts GLFW modifier bits.
func modFrom(mods glfw.ModifierKey) (m Modifier) {
	if mods&glfw.ModCapsLock != 0 {
		m |= ModCapsLock
	}
	if mods&glfw.ModShift != 0 {
		m |= ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= ModCtrl
	}
	if mods&glfw.ModAlt != 0 {
		m |= ModAlt
	}
	return
}

// buttonFrom converts a GLFW mouse button.
func buttonFrom(btn glfw.MouseButton) Button {
	switch btn {
	case glfw.MouseButtonLeft:
		return BtnLeft
	case glfw.MouseButtonRight:
		return BtnRight
	case glfw.MouseButtonMiddle:
		return BtnMiddle
	case glfw.MouseButton4:
		return BtnSide
	case glfw.MouseButton5:
		return BtnForward
	}
	return BtnUnknown
}

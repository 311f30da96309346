// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	"errors"
	"log/slog"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/wsi"
)

// instance implements driver.Instance.
type instance struct {
	inst       vk.Instance
	validation bool
}

// Destroy destroys the instance.
func (i *instance) Destroy() {
	if i.inst == nil {
		return
	}
	vk.DestroyInstance(i.inst, nil)
	i.inst = nil
}

// debugHook implements driver.Destroyer.
type debugHook struct {
	inst vk.Instance
	cb   vk.DebugReportCallback
}

// NewDebugHook installs fn as a debug report callback.
func (i *instance) NewDebugHook(fn func(driver.Severity, string)) (driver.Destroyer, error) {
	if !i.validation {
		return nil, nil
	}
	var cb vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.inst, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit),
		PfnCallback: func(flags vk.DebugReportFlags, _ vk.DebugReportObjectType, _ uint64, _ uint,
			_ int32, _ string, msg string, _ unsafe.Pointer) vk.Bool32 {
			fn(convSeverity(flags), msg)
			return vk.False
		},
	}, nil, &cb)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &debugHook{inst: i.inst, cb: cb}, nil
}

// Destroy removes the callback.
func (h *debugHook) Destroy() {
	vk.DestroyDebugReportCallback(h.inst, h.cb, nil)
}

// convSeverity converts debug report flags.
func convSeverity(flags vk.DebugReportFlags) driver.Severity {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return driver.SevError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return driver.SevWarning
	}
	return driver.SevInfo
}

// surface implements driver.Surface.
type surface struct {
	inst vk.Instance
	surf vk.Surface
}

// NewSurface creates a surface through the window system.
func (i *instance) NewSurface(win wsi.Window) (driver.Surface, error) {
	if win == nil {
		return nil, driver.ErrWindow
	}
	ptr, err := win.NewSurface(i.inst)
	if err != nil {
		return nil, errors.Join(driver.ErrWindow, err)
	}
	return &surface{inst: i.inst, surf: vk.SurfaceFromPointer(ptr)}, nil
}

// Destroy destroys the surface.
func (s *surface) Destroy() {
	vk.DestroySurface(s.inst, s.surf, nil)
}

// Adapters enumerates the physical devices.
func (i *instance) Adapters() ([]driver.Adapter, error) {
	var n uint32
	if err := checkResult(vk.EnumeratePhysicalDevices(i.inst, &n, nil)); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	gpus := make([]vk.PhysicalDevice, n)
	if err := checkResult(vk.EnumeratePhysicalDevices(i.inst, &n, gpus)); err != nil {
		return nil, err
	}
	ads := make([]driver.Adapter, 0, n)
	for _, gpu := range gpus[:n] {
		a := newAdapter(gpu)
		slog.Debug("vk: adapter found", "name", a.name, "families", len(a.families))
		ads = append(ads, a)
	}
	return ads, nil
}

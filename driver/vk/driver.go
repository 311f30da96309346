// Copyright 2026 The vkview Authors. All rights reserved.

// Package vk implements driver interfaces using the Vulkan API.
// It registers itself as "vulkan".
package vk

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

const driverName = "vulkan"

const (
	validationLayer = "VK_LAYER_KHRONOS_validation"
	debugReportExt  = "VK_EXT_debug_report"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver.
type Driver struct {
	open bool
}

// Open loads the Vulkan library and its global commands.
func (d *Driver) Open() error {
	if d.open {
		return nil
	}
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Join(driver.ErrNotInstalled, err)
	}
	if err := vk.Init(); err != nil {
		return errors.Join(driver.ErrNotInstalled, err)
	}
	d.open = true
	return nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// Close deinitializes the driver.
// Instance-level objects must have been destroyed.
func (d *Driver) Close() { d.open = false }

// NewInstance creates a new Vulkan instance.
// If validation is requested but the Khronos layer is not
// installed, the instance is created without it.
func (d *Driver) NewInstance(param *driver.InstanceParam) (driver.Instance, error) {
	if !d.open {
		return nil, driver.ErrNotOpen
	}
	exts := slices.Clone(param.Extensions)
	var layers []string
	validation := false
	if param.Validation {
		avail, err := instanceLayers()
		if err != nil {
			return nil, err
		}
		if slices.Contains(avail, validationLayer) {
			layers = append(layers, validationLayer)
			exts = append(exts, debugReportExt)
			validation = true
		} else {
			slog.Warn("vk: validation layer not installed", "layer", validationLayer)
		}
	}
	exts = cstrs(exts)
	layers = cstrs(layers)
	var inst vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:            vk.StructureTypeApplicationInfo,
			ApiVersion:       vk.MakeVersion(1, 3, 0),
			PApplicationName: cstr(param.AppName),
			PEngineName:      cstr(param.EngineName),
		},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &inst)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(inst); err != nil {
		vk.DestroyInstance(inst, nil)
		return nil, errors.Join(driver.ErrNotInstalled, err)
	}
	slog.Debug("vk: instance created", "extensions", len(exts), "validation", validation)
	return &instance{inst: inst, validation: validation}, nil
}

// instanceLayers returns the names of the installed
// instance layers.
func instanceLayers() ([]string, error) {
	var n uint32
	if err := checkResult(vk.EnumerateInstanceLayerProperties(&n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, n)
	if err := checkResult(vk.EnumerateInstanceLayerProperties(&n, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for _, p := range props[:n] {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names, nil
}

// checkResult converts a vk.Result into an error.
// Results with a driver-level meaning map to the driver's
// error values.
func checkResult(ret vk.Result) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.Suboptimal:
		return driver.ErrSuboptimal
	case vk.ErrorOutOfDate:
		return driver.ErrOutOfDate
	case vk.ErrorOutOfHostMemory:
		return driver.ErrNoHostMemory
	case vk.ErrorOutOfDeviceMemory:
		return driver.ErrNoDeviceMemory
	case vk.ErrorDeviceLost:
		return driver.ErrDeviceLost
	case vk.ErrorSurfaceLost, vk.ErrorNativeWindowInUse:
		return driver.ErrWindow
	case vk.ErrorIncompatibleDriver, vk.ErrorInitializationFailed:
		return driver.ErrNotInstalled
	}
	return fmt.Errorf("%w: %w", driver.ErrFatal, vk.Error(ret))
}

// cstr returns s terminated by a NUL byte.
func cstr(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// cstrs applies cstr to every element of ss.
func cstrs(ss []string) []string {
	cs := make([]string, len(ss))
	for i, s := range ss {
		cs[i] = cstr(s)
	}
	return cs
}

// b32 converts a Go bool.
func b32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

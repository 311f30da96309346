// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// adapter implements driver.Adapter.
type adapter struct {
	gpu      vk.PhysicalDevice
	name     string
	families []driver.QueueFamily
	feats    driver.Features
	lim      driver.Limits
	mprop    vk.PhysicalDeviceMemoryProperties
}

// newAdapter queries the properties of gpu.
func newAdapter(gpu vk.PhysicalDevice) *adapter {
	a := &adapter{gpu: gpu}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	props.Limits.Deref()
	a.name = vk.ToString(props.DeviceName[:])
	a.lim = driver.Limits{
		ColorSamples:  int(props.Limits.FramebufferColorSampleCounts),
		DepthSamples:  int(props.Limits.FramebufferDepthSampleCounts),
		MaxAnisotropy: props.Limits.MaxSamplerAnisotropy,
	}

	var feats vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(gpu, &feats)
	feats.Deref()
	a.feats = driver.Features{
		SamplerAnisotropy: feats.SamplerAnisotropy == vk.True,
		SampleRateShading: feats.SampleRateShading == vk.True,
	}

	var n uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &n, nil)
	qprops := make([]vk.QueueFamilyProperties, n)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &n, qprops)
	a.families = make([]driver.QueueFamily, n)
	for i := range qprops[:n] {
		qprops[i].Deref()
		a.families[i] = driver.QueueFamily{
			Graphics: qprops[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0,
			Count:    int(qprops[i].QueueCount),
		}
	}

	vk.GetPhysicalDeviceMemoryProperties(gpu, &a.mprop)
	a.mprop.Deref()
	return a
}

// Name returns the device name.
func (a *adapter) Name() string { return a.name }

// QueueFamilies returns the queue families.
func (a *adapter) QueueFamilies() []driver.QueueFamily {
	fams := make([]driver.QueueFamily, len(a.families))
	copy(fams, a.families)
	return fams
}

// SupportsPresent checks whether family can present to s.
func (a *adapter) SupportsPresent(family int, s driver.Surface) (bool, error) {
	var ok vk.Bool32
	ret := vk.GetPhysicalDeviceSurfaceSupport(a.gpu, uint32(family), s.(*surface).surf, &ok)
	if err := checkResult(ret); err != nil {
		return false, err
	}
	return ok == vk.True, nil
}

// Extensions returns the supported device extensions.
func (a *adapter) Extensions() ([]string, error) {
	var n uint32
	if err := checkResult(vk.EnumerateDeviceExtensionProperties(a.gpu, "", &n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, n)
	if err := checkResult(vk.EnumerateDeviceExtensionProperties(a.gpu, "", &n, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for _, p := range props[:n] {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// Features returns the supported features.
func (a *adapter) Features() driver.Features { return a.feats }

// Limits returns the device limits.
func (a *adapter) Limits() driver.Limits { return a.lim }

// SurfaceInfo queries surface support.
func (a *adapter) SurfaceInfo(s driver.Surface) (*driver.SurfaceInfo, error) {
	surf := s.(*surface).surf
	caps, err := a.surfaceCaps(surf)
	if err != nil {
		return nil, err
	}
	info := &driver.SurfaceInfo{Caps: convCaps(caps)}

	var n uint32
	if err := checkResult(vk.GetPhysicalDeviceSurfaceFormats(a.gpu, surf, &n, nil)); err != nil {
		return nil, err
	}
	fmts := make([]vk.SurfaceFormat, n)
	if err := checkResult(vk.GetPhysicalDeviceSurfaceFormats(a.gpu, surf, &n, fmts)); err != nil {
		return nil, err
	}
	for i := range fmts[:n] {
		fmts[i].Deref()
		pf := pixelFmtFrom(fmts[i].Format)
		cs, ok := colorSpaceFrom(fmts[i].ColorSpace)
		if pf == driver.FInvalid || !ok {
			continue
		}
		info.Formats = append(info.Formats, driver.SurfaceFormat{
			Format:     pf,
			ColorSpace: cs,
		})
	}

	if err := checkResult(vk.GetPhysicalDeviceSurfacePresentModes(a.gpu, surf, &n, nil)); err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, n)
	if err := checkResult(vk.GetPhysicalDeviceSurfacePresentModes(a.gpu, surf, &n, modes)); err != nil {
		return nil, err
	}
	for _, m := range modes[:n] {
		if pm, ok := presentModeFrom(m); ok {
			info.PresentModes = append(info.PresentModes, pm)
		}
	}
	return info, nil
}

// surfaceCaps queries the capabilities of surf.
func (a *adapter) surfaceCaps(surf vk.Surface) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := checkResult(vk.GetPhysicalDeviceSurfaceCapabilities(a.gpu, surf, &caps)); err != nil {
		return caps, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

// DepthTarget checks optimal-tiling support for depth
// attachments.
func (a *adapter) DepthTarget(pf driver.PixelFmt) bool {
	if !pf.IsDepth() {
		return false
	}
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(a.gpu, convPixelFmt(pf), &props)
	props.Deref()
	want := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	return props.OptimalTilingFeatures&want == want
}

// NewDevice creates a logical device with one queue for
// each distinct family in param.
func (a *adapter) NewDevice(param *driver.DeviceParam) (driver.Device, error) {
	fams := []int{param.Graphics}
	if param.Present != param.Graphics {
		fams = append(fams, param.Present)
	}
	qinfos := make([]vk.DeviceQueueCreateInfo, len(fams))
	for i, f := range fams {
		qinfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(f),
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		}
	}
	exts := cstrs(param.Extensions)
	var dev vk.Device
	ret := vk.CreateDevice(a.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(qinfos)),
		PQueueCreateInfos:       qinfos,
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: exts,
		PEnabledFeatures: []vk.PhysicalDeviceFeatures{{
			SamplerAnisotropy: b32(param.Features.SamplerAnisotropy),
			SampleRateShading: b32(param.Features.SampleRateShading),
		}},
	}, nil, &dev)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	d := &device{a: a, dev: dev, queues: make(map[int]*queue, len(fams)), feats: param.Features}
	for _, f := range fams {
		var q vk.Queue
		vk.GetDeviceQueue(dev, uint32(f), 0, &q)
		d.queues[f] = &queue{d: d, q: q}
	}
	return d, nil
}

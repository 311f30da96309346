// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	"errors"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// errColorSpace means that a swapchain was requested with
// a color space that has no Vulkan mapping.
var errColorSpace = errors.New("vk: color space cannot be requested")

// swapchain implements driver.Swapchain.
type swapchain struct {
	d    *device
	sc   vk.Swapchain
	imgs []driver.Image
}

// NewSwapchain creates a swapchain for param.Surface.
// Images are shared concurrently when the graphics and
// present families differ.
func (d *device) NewSwapchain(param *driver.SwapchainParam) (driver.Swapchain, error) {
	cs, ok := convColorSpace(param.Format.ColorSpace)
	if !ok {
		return nil, errColorSpace
	}
	surf := param.Surface.(*surface).surf
	caps, err := d.a.surfaceCaps(surf)
	if err != nil {
		return nil, err
	}
	info := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         surf,
		MinImageCount:   uint32(param.Images),
		ImageFormat:     convPixelFmt(param.Format.Format),
		ImageColorSpace: cs,
		ImageExtent: vk.Extent2D{
			Width:  uint32(param.Extent.Width),
			Height: uint32(param.Extent.Height),
		},
		ImageArrayLayers: 1,
		ImageUsage:       convImgUsage(param.Usage),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   compositeAlpha(vk.CompositeAlphaFlagBits(caps.SupportedCompositeAlpha)),
		PresentMode:      convPresentMode(param.PresentMode),
		Clipped:          vk.True,
	}
	if param.Graphics != param.Present {
		info.ImageSharingMode = vk.SharingModeConcurrent
		info.QueueFamilyIndexCount = 2
		info.PQueueFamilyIndices = []uint32{uint32(param.Graphics), uint32(param.Present)}
	}
	var sc vk.Swapchain
	if err := checkResult(vk.CreateSwapchain(d.dev, &info, nil, &sc)); err != nil {
		return nil, err
	}

	var n uint32
	if err := checkResult(vk.GetSwapchainImages(d.dev, sc, &n, nil)); err != nil {
		vk.DestroySwapchain(d.dev, sc, nil)
		return nil, err
	}
	handles := make([]vk.Image, n)
	if err := checkResult(vk.GetSwapchainImages(d.dev, sc, &n, handles)); err != nil {
		vk.DestroySwapchain(d.dev, sc, nil)
		return nil, err
	}
	s := &swapchain{d: d, sc: sc, imgs: make([]driver.Image, n)}
	for i, h := range handles[:n] {
		s.imgs[i] = &image{d: d, img: h, fmt: info.ImageFormat}
	}
	return s, nil
}

// compositeAlpha selects the first supported mode,
// preferring opaque.
func compositeAlpha(supported vk.CompositeAlphaFlagBits) vk.CompositeAlphaFlagBits {
	for _, a := range [...]vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if supported&a != 0 {
			return a
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// Images returns the swapchain images.
func (s *swapchain) Images() []driver.Image {
	imgs := make([]driver.Image, len(s.imgs))
	copy(imgs, s.imgs)
	return imgs
}

// Next acquires the next image.
func (s *swapchain) Next(sem driver.Semaphore) (int, error) {
	var idx uint32
	var fence vk.Fence
	ret := vk.AcquireNextImage(s.d.dev, s.sc, vk.MaxUint64, sem.(*semaphore).sem, fence, &idx)
	switch err := checkResult(ret); err {
	case nil, driver.ErrSuboptimal:
		return int(idx), err
	default:
		return -1, err
	}
}

// Destroy destroys the swapchain.
func (s *swapchain) Destroy() {
	if s.sc == nil {
		return
	}
	vk.DestroySwapchain(s.d.dev, s.sc, nil)
	s.sc = nil
	s.imgs = nil
}

// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// image implements driver.Image.
// Swapchain images have no memory of their own.
type image struct {
	d     *device
	img   vk.Image
	mem   vk.DeviceMemory
	fmt   vk.Format
	depth bool
	owned bool
}

// NewImage creates a 2D image with one level and layer.
// Transient images prefer lazily allocated memory.
func (d *device) NewImage(param *driver.ImageParam) (driver.Image, error) {
	f := convPixelFmt(param.Format)
	var img vk.Image
	ret := vk.CreateImage(d.dev, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    f,
		Extent: vk.Extent3D{
			Width:  uint32(param.Width),
			Height: uint32(param.Height),
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       convSamples(param.Samples),
		Tiling:        vk.ImageTilingOptimal,
		Usage:         convImgUsage(param.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &img)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.dev, img, &req)
	req.Deref()
	props := []vk.MemoryPropertyFlags{convMemProp(param.Mem)}
	if param.Usage&driver.UTransient != 0 {
		lazy := props[0] | vk.MemoryPropertyFlags(vk.MemoryPropertyLazilyAllocatedBit)
		props = append([]vk.MemoryPropertyFlags{lazy}, props...)
	}
	mem, err := d.alloc(req, props...)
	if err != nil {
		vk.DestroyImage(d.dev, img, nil)
		return nil, err
	}
	if err := checkResult(vk.BindImageMemory(d.dev, img, mem, 0)); err != nil {
		vk.FreeMemory(d.dev, mem, nil)
		vk.DestroyImage(d.dev, img, nil)
		return nil, err
	}
	return &image{d: d, img: img, mem: mem, fmt: f, depth: param.Format.IsDepth(), owned: true}, nil
}

// Destroy destroys the image and frees its memory.
// It has no effect on swapchain images.
func (i *image) Destroy() {
	if !i.owned || i.img == nil {
		return
	}
	vk.DestroyImage(i.d.dev, i.img, nil)
	vk.FreeMemory(i.d.dev, i.mem, nil)
	i.img = nil
}

// imageView implements driver.ImageView.
type imageView struct {
	d    *device
	view vk.ImageView
}

// NewView creates a 2D view of the whole image.
func (i *image) NewView() (driver.ImageView, error) {
	aspect := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	if i.depth {
		aspect = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
		if i.fmt != vk.FormatD32Sfloat {
			aspect |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
		}
	}
	var view vk.ImageView
	ret := vk.CreateImageView(i.d.dev, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.img,
		ViewType: vk.ImageViewType2d,
		Format:   i.fmt,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &imageView{d: i.d, view: view}, nil
}

// Destroy destroys the view.
func (v *imageView) Destroy() {
	vk.DestroyImageView(v.d.dev, v.view, nil)
}

// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	"errors"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// renderPass implements driver.RenderPass.
type renderPass struct {
	d    *device
	pass vk.RenderPass
	// Whether each attachment is depth/stencil, to select
	// clear values.
	depth []bool
}

// NewRenderPass creates a render pass with one subpass.
func (d *device) NewRenderPass(param *driver.PassParam) (driver.RenderPass, error) {
	n := len(param.Attachments)
	if param.Color < 0 || param.Color >= n || param.DS >= n || param.MSR >= n {
		return nil, errors.New("vk: attachment index out of range")
	}
	atts := make([]vk.AttachmentDescription, n)
	depth := make([]bool, n)
	for i, a := range param.Attachments {
		atts[i] = vk.AttachmentDescription{
			Format:         convPixelFmt(a.Format),
			Samples:        convSamples(a.Samples),
			LoadOp:         convLoadOp(a.Load),
			StoreOp:        convStoreOp(a.Store),
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    convLayout(a.Final),
		}
		depth[i] = a.Format.IsDepth()
	}
	sub := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: uint32(param.Color),
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
	}
	if param.DS >= 0 {
		sub.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: uint32(param.DS),
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}
	if param.MSR >= 0 {
		sub.PResolveAttachments = []vk.AttachmentReference{{
			Attachment: uint32(param.MSR),
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}}
	}
	stages := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit)
	var pass vk.RenderPass
	ret := vk.CreateRenderPass(d.dev, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(n),
		PAttachments:    atts,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{sub},
		DependencyCount: 1,
		PDependencies: []vk.SubpassDependency{{
			SrcSubpass:    vk.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  stages,
			DstStageMask:  stages,
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
		}},
	}, nil, &pass)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &renderPass{d: d, pass: pass, depth: depth}, nil
}

// Destroy destroys the render pass.
func (p *renderPass) Destroy() {
	vk.DestroyRenderPass(p.d.dev, p.pass, nil)
}

// framebuf implements driver.Framebuf.
type framebuf struct {
	d  *device
	fb vk.Framebuffer
}

// NewFB creates a framebuffer.
func (p *renderPass) NewFB(iv []driver.ImageView, width, height int) (driver.Framebuf, error) {
	if len(iv) != len(p.depth) {
		return nil, errors.New("vk: framebuffer/render pass attachment mismatch")
	}
	views := make([]vk.ImageView, len(iv))
	for i := range iv {
		views[i] = iv[i].(*imageView).view
	}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(p.d.dev, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      p.pass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           uint32(width),
		Height:          uint32(height),
		Layers:          1,
	}, nil, &fb)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &framebuf{d: p.d, fb: fb}, nil
}

// Destroy destroys the framebuffer.
func (f *framebuf) Destroy() {
	vk.DestroyFramebuffer(f.d.dev, f.fb, nil)
}

// clearValues converts cv, one entry per attachment.
func (p *renderPass) clearValues(cv []driver.ClearValue) []vk.ClearValue {
	vals := make([]vk.ClearValue, len(p.depth))
	for i := range vals {
		if i >= len(cv) {
			break
		}
		if p.depth[i] {
			vals[i] = vk.NewClearDepthStencil(cv[i].Depth, cv[i].Stencil)
		} else {
			vals[i] = vk.NewClearValue(cv[i].Color[:])
		}
	}
	return vals
}

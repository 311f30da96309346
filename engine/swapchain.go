// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/engine/internal/shader"
)

// ChainState is the state of a SwapchainManager.
type ChainState int

// Swapchain states.
const (
	ChainUninitialized ChainState = iota
	ChainReady
	ChainStale
	ChainDestroyed
)

func (s ChainState) String() string {
	switch s {
	case ChainUninitialized:
		return "uninitialized"
	case ChainReady:
		return "ready"
	case ChainStale:
		return "stale"
	case ChainDestroyed:
		return "destroyed"
	}
	return "invalid"
}

// SwapchainManager owns the swapchain and everything
// sized to it: image views, color and depth attachments,
// framebuffers, per-image uniform buffers and the
// descriptor sets referring to them.
// Each group is built and destroyed separately so that
// it can be interleaved with the rest of startup.
type SwapchainManager struct {
	ctx *DeviceContext
	cfg *Config

	// Set before BuildFramebuffers/BuildUniforms.
	// PoolSets is the number of sets DescPool can hold.
	Pass       driver.RenderPass
	DescLayout driver.DescLayout
	DescPool   driver.DescPool
	PoolSets   int
	Uploader   *Uploader

	state  ChainState
	sc     driver.Swapchain
	format driver.SurfaceFormat
	mode   driver.PresentMode
	extent driver.Extent
	views  []driver.ImageView

	color, depth         driver.Image
	colorView, depthView driver.ImageView

	fbs      []driver.Framebuf
	uniforms []*BufferPair
	sets     []driver.DescSet
}

// State returns the current state.
func (m *SwapchainManager) State() ChainState { return m.state }

// Extent returns the size of the swapchain images.
func (m *SwapchainManager) Extent() driver.Extent { return m.extent }

// Format returns the surface format of the swapchain.
func (m *SwapchainManager) Format() driver.SurfaceFormat { return m.format }

// Len returns the number of images, image views,
// framebuffers and uniform buffers, in this order.
func (m *SwapchainManager) Len() (imgs, views, fbs, unifs int) {
	if m.sc != nil {
		imgs = len(m.sc.Images())
	}
	return imgs, len(m.views), len(m.fbs), len(m.uniforms)
}

// MarkStale records that the swapchain no longer matches
// the surface.
func (m *SwapchainManager) MarkStale() {
	if m.state == ChainReady {
		m.state = ChainStale
	}
}

// ChooseFormat returns the preferred surface format:
// RGBA8SRGB with a nonlinear sRGB color space, or else
// the first one.
func ChooseFormat(fmts []driver.SurfaceFormat) driver.SurfaceFormat {
	for _, f := range fmts {
		if f.Format == driver.RGBA8SRGB && f.ColorSpace == driver.CSRGBNonlinear {
			return f
		}
	}
	return fmts[0]
}

// ChoosePresentMode returns mailbox if available, or else
// FIFO, which is always supported.
func ChoosePresentMode(modes []driver.PresentMode) driver.PresentMode {
	for _, m := range modes {
		if m == driver.PresentMailbox {
			return m
		}
	}
	return driver.PresentFIFO
}

// ChooseExtent returns the current surface extent if the
// surface defines one, or else want clamped to the
// surface limits.
func ChooseExtent(caps *driver.SurfaceCaps, want driver.Extent) driver.Extent {
	if caps.Current.Width != -1 {
		return caps.Current
	}
	return driver.Extent{
		Width:  min(max(want.Width, caps.MinExtent.Width), caps.MaxExtent.Width),
		Height: min(max(want.Height, caps.MinExtent.Height), caps.MaxExtent.Height),
	}
}

// ChooseImageCount returns one more than the minimum
// image count, bounded by the surface maximum (if any)
// and by limit. It never goes below the surface minimum.
func ChooseImageCount(caps *driver.SurfaceCaps, limit int) int {
	n := caps.MinImages + 1
	if caps.MaxImages > 0 {
		n = min(n, caps.MaxImages)
	}
	return max(1, caps.MinImages, min(n, limit))
}

// BuildChain creates the swapchain and its image views.
func (m *SwapchainManager) BuildChain(want driver.Extent) error {
	info, err := m.ctx.surfaceInfo()
	if err != nil {
		return stageErr(ErrSwapchain, err)
	}
	if len(info.Formats) == 0 || len(info.PresentModes) == 0 {
		return &Error{ErrSwapchain, errors.New("surface has no formats or present modes")}
	}
	m.format = ChooseFormat(info.Formats)
	m.mode = ChoosePresentMode(info.PresentModes)
	m.extent = ChooseExtent(&info.Caps, want)
	n := ChooseImageCount(&info.Caps, m.cfg.MaxSwapchainImages)

	m.sc, err = m.ctx.dev.NewSwapchain(&driver.SwapchainParam{
		Surface:     m.ctx.surf,
		Images:      n,
		Format:      m.format,
		Extent:      m.extent,
		PresentMode: m.mode,
		Usage:       driver.UColorTarget,
		Graphics:    m.ctx.graphics,
		Present:     m.ctx.present,
	})
	if err != nil {
		m.sc = nil
		return stageErr(ErrSwapchain, err)
	}
	imgs := m.sc.Images()
	if len(imgs) == 0 {
		m.DestroyChain()
		return &Error{ErrSwapchain, errors.New("swapchain has no images")}
	}
	m.views = make([]driver.ImageView, 0, len(imgs))
	for _, img := range imgs {
		iv, err := img.NewView()
		if err != nil {
			m.DestroyChain()
			return stageErr(ErrSwapchain, err)
		}
		m.views = append(m.views, iv)
	}
	m.state = ChainReady
	slog.Info("swapchain built", "images", len(imgs), "width", m.extent.Width, "height", m.extent.Height,
		"format", m.format.Format, "mode", m.mode)
	return nil
}

// DestroyChain destroys the image views and the
// swapchain.
func (m *SwapchainManager) DestroyChain() {
	for i := len(m.views) - 1; i >= 0; i-- {
		m.views[i].Destroy()
	}
	m.views = nil
	if m.sc != nil {
		m.sc.Destroy()
		m.sc = nil
	}
	m.state = ChainDestroyed
}

// BuildAttachments creates the multisampled color and
// depth attachments.
func (m *SwapchainManager) BuildAttachments() (err error) {
	defer func() {
		if err != nil {
			m.DestroyAttachments()
			err = stageErr(ErrAttachment, err)
		}
	}()
	samples := m.ctx.samples
	w, h := m.extent.Width, m.extent.Height
	if m.color, err = m.ctx.dev.NewImage(&driver.ImageParam{
		Format:  m.format.Format,
		Width:   w,
		Height:  h,
		Samples: samples,
		Usage:   driver.UTransient | driver.UColorTarget,
		Mem:     driver.MemDeviceLocal,
	}); err != nil {
		m.color = nil
		return
	}
	if m.colorView, err = m.color.NewView(); err != nil {
		m.colorView = nil
		return
	}
	if m.depth, err = m.ctx.dev.NewImage(&driver.ImageParam{
		Format:  m.ctx.depthFmt,
		Width:   w,
		Height:  h,
		Samples: samples,
		Usage:   driver.UDepthTarget,
		Mem:     driver.MemDeviceLocal,
	}); err != nil {
		m.depth = nil
		return
	}
	if m.depthView, err = m.depth.NewView(); err != nil {
		m.depthView = nil
	}
	return
}

// DestroyAttachments destroys the color and depth
// attachments.
func (m *SwapchainManager) DestroyAttachments() {
	for _, d := range []driver.Destroyer{m.depthView, m.depth, m.colorView, m.color} {
		if d != nil {
			d.Destroy()
		}
	}
	m.color, m.colorView, m.depth, m.depthView = nil, nil, nil, nil
}

// BuildFramebuffers creates one framebuffer per swapchain
// image.
func (m *SwapchainManager) BuildFramebuffers() error {
	m.fbs = make([]driver.Framebuf, 0, len(m.views))
	for _, iv := range m.views {
		views := make([]driver.ImageView, attCount)
		views[attColor] = m.colorView
		views[attDepth] = m.depthView
		views[attResolve] = iv
		fb, err := m.Pass.NewFB(views, m.extent.Width, m.extent.Height)
		if err != nil {
			m.DestroyFramebuffers()
			return stageErr(ErrAttachment, err)
		}
		m.fbs = append(m.fbs, fb)
	}
	return nil
}

// DestroyFramebuffers destroys the framebuffers.
func (m *SwapchainManager) DestroyFramebuffers() {
	for i := len(m.fbs) - 1; i >= 0; i-- {
		m.fbs[i].Destroy()
	}
	m.fbs = nil
}

// BuildUniforms creates one uniform buffer pair and one
// descriptor set per swapchain image.
func (m *SwapchainManager) BuildUniforms() error {
	n := len(m.views)
	if n > m.PoolSets {
		return &Error{ErrDescriptor, fmt.Errorf("swapchain has %d images, descriptor pool holds %d sets", n, m.PoolSets)}
	}
	m.uniforms = make([]*BufferPair, 0, n)
	m.sets = make([]driver.DescSet, 0, n)
	for range n {
		u, err := m.Uploader.NewPair(shader.UniformSize, driver.UUniform, true)
		if err != nil {
			m.DestroyUniforms()
			return err
		}
		m.uniforms = append(m.uniforms, u)
		set, err := m.DescPool.Alloc(m.DescLayout)
		if err != nil {
			m.DestroyUniforms()
			return stageErr(ErrDescriptor, err)
		}
		set.SetBuffer(shader.UniformNr, u.Server, 0, shader.UniformSize)
		m.sets = append(m.sets, set)
	}
	return nil
}

// DestroyUniforms frees the descriptor sets and destroys
// the uniform buffers.
func (m *SwapchainManager) DestroyUniforms() {
	for i := len(m.uniforms) - 1; i >= 0; i-- {
		if i < len(m.sets) {
			if err := m.DescPool.Free(m.sets[i]); err != nil {
				slog.Warn("descriptor set not freed", "err", err)
			}
		}
		m.uniforms[i].Destroy()
	}
	m.uniforms, m.sets = nil, nil
}

// Recreate rebuilds every swapchain-sized resource for a
// new extent. The device is waited idle first, so no
// pending work refers to destroyed resources.
func (m *SwapchainManager) Recreate(want driver.Extent) error {
	if err := m.ctx.dev.WaitIdle(); err != nil {
		return stageErr(ErrSwapchain, err)
	}
	m.DestroyUniforms()
	m.DestroyFramebuffers()
	m.DestroyAttachments()
	m.DestroyChain()
	if err := m.BuildChain(want); err != nil {
		return err
	}
	if err := m.BuildAttachments(); err != nil {
		return err
	}
	if err := m.BuildFramebuffers(); err != nil {
		return err
	}
	return m.BuildUniforms()
}

// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"log/slog"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/engine/internal/scope"
	"github.com/vkview/vkview/engine/internal/shader"
	"github.com/vkview/vkview/linear"
	"github.com/vkview/vkview/scene"
	"github.com/vkview/vkview/wsi"
)

// Scene is what the engine draws.
// It is borrowed: it must outlive every call to Render.
// The render objects are uploaded once, during Startup.
type Scene interface {
	RenderObjects() []*scene.RenderObject
	View() scene.View
}

// drawObject is a render object uploaded to the GPU.
type drawObject struct {
	name   string
	vertex *BufferPair
	index  *BufferPair
	nindex int
}

// Engine renders a scene into a window.
// Its methods must be called from a single goroutine.
type Engine struct {
	cfg   Config
	win   wsi.Window
	view  ViewportInfo
	scene Scene

	ctx    DeviceContext
	chain  SwapchainManager
	frames FrameScheduler
	up     *Uploader

	pass       driver.RenderPass
	descLayout driver.DescLayout
	descPool   driver.DescPool
	plLayout   driver.PipelineLayout
	pipeline   driver.Pipeline
	cmdPool    driver.CmdPool
	sampler    driver.Sampler
	objects    []drawObject

	stk       scope.Stack
	started   bool
	failed    error
	recreates int
}

// New creates an engine. If config is nil, the
// configuration set by Configure is used.
func New(config *Config) *Engine {
	e := &Engine{cfg: cfg}
	if config != nil {
		e.cfg = *config
	}
	if e.cfg.MaxSwapchainImages < 1 {
		e.cfg.MaxSwapchainImages = dflMaxSwapchainImages
	}
	e.view.DPR = 1
	e.chain.ctx = &e.ctx
	e.chain.cfg = &e.cfg
	return e
}

// SetScene sets the scene to draw.
// It must be called before Startup.
func (e *Engine) SetScene(s Scene) { e.scene = s }

// Resize records new logical dimensions of the window.
// A dpr of zero keeps the current device pixel ratio.
// The size is applied by the next call to Render and the
// swapchain is recreated at the end of that frame.
func (e *Engine) Resize(width, height int, dpr float64) {
	e.view.resize(width, height, dpr)
	e.frames.NotifyResize()
}

// Viewport returns the current viewport information.
func (e *Engine) Viewport() ViewportInfo { return e.view }

// Slot returns the current frame slot.
func (e *Engine) Slot() int { return e.frames.Slot() }

// Recreates returns how many times the swapchain was
// recreated.
func (e *Engine) Recreates() int { return e.recreates }

// Swapchain returns the swapchain manager.
func (e *Engine) Swapchain() *SwapchainManager { return &e.chain }

// Context returns the device context.
func (e *Engine) Context() *DeviceContext { return &e.ctx }

// pixelExtent returns the pixel size of the viewport.
func (e *Engine) pixelExtent() driver.Extent {
	return driver.Extent{Width: e.view.PixelWidth, Height: e.view.PixelHeight}
}

// Startup creates every GPU object needed to render the
// scene into win. If it fails, everything created so far
// is destroyed and the engine can be started again.
func (e *Engine) Startup(win wsi.Window) (err error) {
	switch {
	case e.started:
		return errStarted
	case win == nil:
		return errNoWindow
	case e.scene == nil:
		return errNoScene
	}
	defer e.stk.Guard(&err)
	e.win = win
	if e.view.UpdateCount == 0 {
		e.view.resize(win.Width(), win.Height(), win.ContentScale())
	}
	e.view.computePixels()
	// The first swapchain already has the current size.
	e.frames.resized = false

	c := &e.ctx
	if err = c.open(&e.cfg, win, &e.stk); err != nil {
		return
	}
	if err = c.createDevice(&e.cfg, &e.stk); err != nil {
		return
	}
	dev := c.dev

	if err = e.chain.BuildChain(e.pixelExtent()); err != nil {
		return
	}
	e.stk.Push("swapchain", e.chain.DestroyChain)

	if err = c.selectDepth(); err != nil {
		return
	}

	if e.pass, err = NewRenderPass(dev, e.chain.format.Format, c.depthFmt, c.samples); err != nil {
		return
	}
	e.stk.Push("render pass", e.pass.Destroy)

	b := &PipelineBuilder{
		Device:        dev,
		Pass:          e.pass,
		Samples:       c.samples,
		Config:        &e.cfg,
		SampleShading: c.features.SampleRateShading,
	}
	if e.descLayout, err = b.DescLayout(); err != nil {
		return
	}
	e.stk.Push("descriptor layout", e.descLayout.Destroy)
	// The surface minimum can exceed MaxSwapchainImages and
	// drivers may return more images than requested.
	sets := max(e.cfg.MaxSwapchainImages, len(e.chain.views))
	if e.descPool, err = b.DescPool(sets); err != nil {
		return
	}
	e.stk.Push("descriptor pool", e.descPool.Destroy)
	if e.plLayout, err = b.Layout(e.descLayout); err != nil {
		return
	}
	e.stk.Push("pipeline layout", e.plLayout.Destroy)
	if e.pipeline, err = b.Pipeline(e.plLayout); err != nil {
		return
	}
	e.stk.Push("pipeline", e.pipeline.Destroy)

	if err = e.chain.BuildAttachments(); err != nil {
		return
	}
	e.stk.Push("attachments", e.chain.DestroyAttachments)
	e.chain.Pass = e.pass
	if err = e.chain.BuildFramebuffers(); err != nil {
		return
	}
	e.stk.Push("framebuffers", e.chain.DestroyFramebuffers)

	if e.cmdPool, err = dev.NewCmdPool(c.graphics); err != nil {
		err = stageErr(ErrCommand, err)
		return
	}
	e.stk.Push("command pool", e.cmdPool.Destroy)

	size := max(e.view.PixelWidth, e.view.PixelHeight, 1)
	if e.sampler, err = b.Sampler(c.limits.MaxAnisotropy, size); err != nil {
		return
	}
	e.stk.Push("sampler", e.sampler.Destroy)

	e.frames.dev = dev
	e.frames.queue = c.GraphicsQueue()
	e.frames.presQ = c.PresentQueue()
	if err = e.frames.allocCmds(e.cmdPool); err != nil {
		return
	}
	e.stk.Push("command buffers", e.frames.freeCmds)
	if err = e.frames.createSync(); err != nil {
		return
	}
	e.stk.Push("sync objects", e.frames.destroySync)
	e.frames.SetImages(len(e.chain.views))

	e.up = NewUploader(dev, e.frames.queue, e.cmdPool)
	e.stk.Push("render objects", e.destroyObjects)
	if err = e.uploadObjects(); err != nil {
		return
	}

	e.chain.DescLayout = e.descLayout
	e.chain.DescPool = e.descPool
	e.chain.PoolSets = sets
	e.chain.Uploader = e.up
	if err = e.chain.BuildUniforms(); err != nil {
		return
	}
	e.stk.Push("uniforms", e.chain.DestroyUniforms)

	e.started = true
	slog.Info("engine started", "objects", len(e.objects), "samples", c.samples,
		"width", e.view.PixelWidth, "height", e.view.PixelHeight)
	return nil
}

// uploadObjects uploads the geometry of every render
// object in the scene.
func (e *Engine) uploadObjects() error {
	for _, o := range e.scene.RenderObjects() {
		if len(o.Vertices) == 0 || len(o.Indices) == 0 {
			slog.Warn("render object has no geometry", "name", o.Name)
			continue
		}
		vb, err := e.up.Upload(o.VertexBytes(), driver.UVertexData, !o.HostVertices)
		if err != nil {
			return err
		}
		ib, err := e.up.Upload(o.IndexBytes(), driver.UIndexData, true)
		if err != nil {
			vb.Destroy()
			return err
		}
		e.objects = append(e.objects, drawObject{o.Name, vb, ib, len(o.Indices)})
	}
	return nil
}

// destroyObjects destroys the buffers of render objects.
func (e *Engine) destroyObjects() {
	for i := len(e.objects) - 1; i >= 0; i-- {
		e.objects[i].index.Destroy()
		e.objects[i].vertex.Destroy()
	}
	e.objects = nil
}

// Destroy waits for the GPU to finish pending work and
// destroys everything created by Startup, in reverse
// order.
func (e *Engine) Destroy() {
	if e.ctx.dev != nil && e.started {
		if err := e.ctx.dev.WaitIdle(); err != nil {
			slog.Error("wait idle on destroy", "err", err)
		}
	}
	e.stk.Unwind()
	e.started = false
	e.failed = nil
	e.chain.state = ChainDestroyed
	e.ctx = DeviceContext{}
}

// Render draws one frame.
// Out-of-date and suboptimal swapchains are recreated and
// are not reported as errors. Any other error is fatal:
// it is returned again by every later call until Destroy.
func (e *Engine) Render() error {
	if !e.started {
		return errNotStarted
	}
	if e.failed != nil {
		return e.failed
	}
	if err := e.render(); err != nil {
		slog.Error("render failed", "err", err)
		e.failed = err
		return err
	}
	return nil
}

// render is the body of Render.
func (e *Engine) render() error {
	if e.view.pending() {
		e.view.computePixels()
		e.scene.View().SetViewSize(e.view.PixelWidth, e.view.PixelHeight)
		e.view.RenderCount = e.view.UpdateCount
	}

	img, ok, err := e.frames.Acquire(e.chain.sc)
	if err != nil {
		return &Error{ErrFrame, err}
	}
	if !ok {
		e.chain.MarkStale()
		return e.recreate()
	}

	if err := e.record(img); err != nil {
		return &Error{ErrFrame, err}
	}
	if err := e.frames.Submit(); err != nil {
		return &Error{ErrFrame, err}
	}
	stale, err := e.frames.Present(e.chain.sc, img)
	if err != nil {
		return &Error{ErrFrame, err}
	}
	if stale {
		e.chain.MarkStale()
		return e.recreate()
	}
	return nil
}

// recreate rebuilds the swapchain for the current pixel
// size.
func (e *Engine) recreate() error {
	e.recreates++
	if err := e.chain.Recreate(e.pixelExtent()); err != nil {
		return err
	}
	e.frames.SetImages(len(e.chain.views))
	return nil
}

// record records the commands of a frame that renders to
// swapchain image img.
func (e *Engine) record(img int) error {
	cb := e.frames.Cmd()
	if err := cb.Reset(); err != nil {
		return err
	}
	if err := cb.Begin(false); err != nil {
		return err
	}

	// Uniform copies must precede the render pass.
	cam := e.scene.View()
	var model linear.M4
	model.I()
	view := cam.UpdateViewMatrix()
	proj := cam.UpdateProjMatrix()
	var l shader.UniformLayout
	l.SetModel(&model)
	l.SetView(&view)
	l.SetProj(&proj)
	unif := e.chain.uniforms[img]
	if err := unif.Write(0, l.Bytes()); err != nil {
		return err
	}
	unif.RecordCopy(cb, driver.SVertexShading, driver.AUniformRead)

	ext := e.chain.extent
	cb.BeginPass(e.pass, e.chain.fbs[img], ext.Width, ext.Height, []driver.ClearValue{
		attColor:   {Color: e.cfg.ClearColor},
		attDepth:   {Depth: 1},
		attResolve: {},
	})
	cb.SetPipeline(e.pipeline)
	cb.SetViewport(driver.Viewport{
		Width:  float32(ext.Width),
		Height: float32(ext.Height),
		Zfar:   1,
	})
	cb.SetScissor(driver.Scissor{Width: ext.Width, Height: ext.Height})
	for _, o := range e.objects {
		cb.SetVertexBuf(o.vertex.Draw(), 0)
		cb.SetIndexBuf(o.index.Draw(), 0)
		cb.SetDescSet(e.plLayout, e.chain.sets[img])
		cb.DrawIndexed(o.nindex, 1, 0, 0, 0)
	}
	cb.EndPass()
	return cb.End()
}

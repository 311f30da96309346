// Copyright 2026 The vkview Authors. All rights reserved.

package fake

import (
	"errors"
	"slices"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/wsi"
)

// object is an opaque object with a tracked lifetime.
type object struct {
	d  *Driver
	id int
}

// Destroy destroys the object.
func (o *object) Destroy() { o.d.destroy(o.id) }

// newObject creates an object of a given kind.
func (d *Driver) newObject(kind string) (*object, error) {
	id, err := d.create(kind)
	if err != nil {
		return nil, err
	}
	return &object{d, id}, nil
}

// instance implements driver.Instance.
type instance struct {
	d          *Driver
	id         int
	validation bool
}

func (i *instance) Destroy() { i.d.destroy(i.id) }

func (i *instance) NewDebugHook(fn func(driver.Severity, string)) (driver.Destroyer, error) {
	if !i.validation {
		return nil, nil
	}
	o, err := i.d.newObject("debug")
	if err != nil {
		return nil, err
	}
	fn(driver.SevInfo, "fake: validation enabled")
	return o, nil
}

func (i *instance) NewSurface(win wsi.Window) (driver.Surface, error) {
	if win == nil {
		return nil, driver.ErrWindow
	}
	return i.d.newObject("surface")
}

func (i *instance) Adapters() ([]driver.Adapter, error) {
	ads := make([]driver.Adapter, len(i.d.cfg.Adapters))
	for j := range ads {
		ads[j] = &adapter{i.d, i.d.cfg.Adapters[j]}
	}
	return ads, nil
}

// adapter implements driver.Adapter.
type adapter struct {
	d   *Driver
	cfg AdapterConfig
}

func (a *adapter) Name() string { return a.cfg.Name }

func (a *adapter) QueueFamilies() []driver.QueueFamily { return slices.Clone(a.cfg.Families) }

func (a *adapter) SupportsPresent(family int, _ driver.Surface) (bool, error) {
	if family < 0 || family >= len(a.cfg.Present) {
		return false, nil
	}
	return a.cfg.Present[family], nil
}

func (a *adapter) Extensions() ([]string, error) { return slices.Clone(a.cfg.Extensions), nil }

func (a *adapter) Features() driver.Features { return a.cfg.Features }

func (a *adapter) Limits() driver.Limits { return a.cfg.Limits }

func (a *adapter) SurfaceInfo(driver.Surface) (*driver.SurfaceInfo, error) {
	return &driver.SurfaceInfo{
		Caps:         a.d.cfg.Caps,
		Formats:      slices.Clone(a.d.cfg.Formats),
		PresentModes: slices.Clone(a.d.cfg.PresentModes),
	}, nil
}

func (a *adapter) DepthTarget(pf driver.PixelFmt) bool {
	return slices.Contains(a.cfg.DepthFormats, pf)
}

func (a *adapter) NewDevice(param *driver.DeviceParam) (driver.Device, error) {
	for _, e := range param.Extensions {
		if !slices.Contains(a.cfg.Extensions, e) {
			return nil, errors.New("fake: extension not present: " + e)
		}
	}
	o, err := a.d.newObject("device")
	if err != nil {
		return nil, err
	}
	a.d.devParam = *param
	return &device{object: o, queues: make(map[int]*queue)}, nil
}

// device implements driver.Device.
type device struct {
	*object
	queues map[int]*queue
}

func (v *device) Queue(family int) driver.Queue {
	q, ok := v.queues[family]
	if !ok {
		q = &queue{d: v.d, family: family}
		v.queues[family] = q
	}
	return q
}

func (v *device) WaitIdle() error {
	v.d.completeAll()
	return nil
}

func (v *device) NewSwapchain(param *driver.SwapchainParam) (driver.Swapchain, error) {
	if param.Images < 1 {
		return nil, errors.New("fake: swapchain needs at least one image")
	}
	o, err := v.d.newObject("swapchain")
	if err != nil {
		return nil, err
	}
	v.d.scParams = append(v.d.scParams, *param)
	sc := &swapchain{object: o, imgs: make([]driver.Image, param.Images+v.d.extraImages)}
	for i := range sc.imgs {
		sc.imgs[i] = &swapImage{v.d}
	}
	return sc, nil
}

func (v *device) NewImage(param *driver.ImageParam) (driver.Image, error) {
	if param.Width <= 0 || param.Height <= 0 || param.Samples <= 0 {
		return nil, errors.New("fake: invalid image parameters")
	}
	o, err := v.d.newObject("image")
	if err != nil {
		return nil, err
	}
	return &image{o}, nil
}

func (v *device) NewRenderPass(param *driver.PassParam) (driver.RenderPass, error) {
	n := len(param.Attachments)
	if param.Color < 0 || param.Color >= n || param.DS >= n || param.MSR >= n {
		return nil, errors.New("fake: attachment index out of range")
	}
	o, err := v.d.newObject("renderpass")
	if err != nil {
		return nil, err
	}
	return &renderPass{o, n}, nil
}

func (v *device) NewShaderCode(data []byte) (driver.ShaderCode, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.New("fake: shader code is not a sequence of words")
	}
	return v.d.newObject("shader")
}

func (v *device) NewDescLayout(binds []driver.DescBinding) (driver.DescLayout, error) {
	return v.d.newObject("desclayout")
}

func (v *device) NewDescPool(maxSets int, sizes []driver.DescPoolSize) (driver.DescPool, error) {
	o, err := v.d.newObject("descpool")
	if err != nil {
		return nil, err
	}
	return &descPool{object: o, max: maxSets}, nil
}

func (v *device) NewPipelineLayout(sets []driver.DescLayout) (driver.PipelineLayout, error) {
	return v.d.newObject("pipelinelayout")
}

func (v *device) NewPipeline(state *driver.GraphState) (driver.Pipeline, error) {
	if state.VertFunc.Code == nil || state.FragFunc.Code == nil || state.Layout == nil || state.Pass == nil {
		return nil, errors.New("fake: incomplete graphics state")
	}
	o, err := v.d.newObject("pipeline")
	if err != nil {
		return nil, err
	}
	v.d.graphState = *state
	return o, nil
}

func (v *device) NewCmdPool(family int) (driver.CmdPool, error) {
	o, err := v.d.newObject("cmdpool")
	if err != nil {
		return nil, err
	}
	return &cmdPool{o}, nil
}

func (v *device) NewSampler(param *driver.Sampling) (driver.Sampler, error) {
	return v.d.newObject("sampler")
}

func (v *device) NewSemaphore() (driver.Semaphore, error) {
	o, err := v.d.newObject("semaphore")
	if err != nil {
		return nil, err
	}
	return &semaphore{object: o}, nil
}

func (v *device) NewFence(signaled bool) (driver.Fence, error) {
	o, err := v.d.newObject("fence")
	if err != nil {
		return nil, err
	}
	return &fence{object: o, signaled: signaled}, nil
}

func (v *device) NewBuffer(size int64, usg driver.Usage, mem driver.MemProp) (driver.Buffer, error) {
	if size <= 0 {
		return nil, errors.New("fake: invalid buffer size")
	}
	o, err := v.d.newObject("buffer")
	if err != nil {
		return nil, err
	}
	return &buffer{object: o, data: make([]byte, size), usg: usg, mem: mem}, nil
}

// swapchain implements driver.Swapchain.
type swapchain struct {
	*object
	imgs []driver.Image
	next int
}

func (s *swapchain) Images() []driver.Image { return slices.Clone(s.imgs) }

func (s *swapchain) Next(sem driver.Semaphore) (int, error) {
	d := s.d
	d.stats.Acquires++
	var err error
	if len(d.acqErr) > 0 {
		err = d.acqErr[0]
		d.acqErr = d.acqErr[1:]
		if err != driver.ErrSuboptimal {
			return -1, err
		}
	}
	sm := sem.(*semaphore)
	if sm.signaled {
		return -1, d.violate("acquire with a signaled semaphore")
	}
	sm.signaled = true
	idx := s.next
	s.next = (s.next + 1) % len(s.imgs)
	return idx, err
}

// swapImage is an image owned by a swapchain.
type swapImage struct{ d *Driver }

func (*swapImage) Destroy() {}

func (i *swapImage) NewView() (driver.ImageView, error) { return i.d.newObject("view") }

// image implements driver.Image.
type image struct{ *object }

func (i *image) NewView() (driver.ImageView, error) { return i.d.newObject("view") }

// renderPass implements driver.RenderPass.
type renderPass struct {
	*object
	natt int
}

func (p *renderPass) NewFB(iv []driver.ImageView, width, height int) (driver.Framebuf, error) {
	if len(iv) != p.natt {
		return nil, errors.New("fake: framebuffer views do not match attachments")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("fake: invalid framebuffer size")
	}
	return p.d.newObject("framebuf")
}

// descPool implements driver.DescPool.
type descPool struct {
	*object
	max, n int
}

func (p *descPool) Alloc(driver.DescLayout) (driver.DescSet, error) {
	if p.n >= p.max {
		return nil, errors.New("fake: descriptor pool exhausted")
	}
	o, err := p.d.newObject("descset")
	if err != nil {
		return nil, err
	}
	p.n++
	return &descSet{object: o}, nil
}

func (p *descPool) Free(set driver.DescSet) error {
	p.n--
	set.(*descSet).Destroy()
	return nil
}

// descSet implements driver.DescSet.
type descSet struct {
	*object
	buf driver.Buffer
}

func (s *descSet) SetBuffer(nr int, buf driver.Buffer, off, size int64) {
	if buf.(*buffer).usg&driver.UUniform == 0 {
		s.d.violate("descriptor set refers to a buffer without UUniform")
	}
	s.buf = buf
}

// Bound returns the buffer that set refers to.
func Bound(set driver.DescSet) driver.Buffer { return set.(*descSet).buf }

// buffer implements driver.Buffer.
type buffer struct {
	*object
	data   []byte
	usg    driver.Usage
	mem    driver.MemProp
	mapped bool
}

func (b *buffer) Map() ([]byte, error) {
	if b.mem&driver.MemHostVisible == 0 {
		return nil, b.d.violate("map of buffer #%d that is not host visible", b.id)
	}
	b.mapped = true
	return b.data, nil
}

func (b *buffer) Unmap() { b.mapped = false }

func (b *buffer) Size() int64 { return int64(len(b.data)) }

func (b *buffer) Requirements() driver.MemReq {
	const align = 256
	return driver.MemReq{Size: (int64(len(b.data)) + align - 1) &^ (align - 1), Align: align}
}

// Contents returns a copy of the bytes stored in buf,
// regardless of its memory properties.
func Contents(buf driver.Buffer) []byte { return slices.Clone(buf.(*buffer).data) }

// MemoryOf returns the memory properties of buf.
func MemoryOf(buf driver.Buffer) driver.MemProp { return buf.(*buffer).mem }

// UsageOf returns the usage of buf.
func UsageOf(buf driver.Buffer) driver.Usage { return buf.(*buffer).usg }

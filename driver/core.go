// Copyright 2026 The vkview Authors. All rights reserved.

package driver

import (
	"github.com/vkview/vkview/wsi"
)

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// Instance is the interface that defines an API instance.
// It is the root of every other object.
type Instance interface {
	Destroyer

	// NewDebugHook installs fn as the receiver of
	// validation messages.
	// It returns a nil Destroyer and a nil error if
	// validation was not enabled.
	NewDebugHook(fn func(Severity, string)) (Destroyer, error)

	// NewSurface creates a presentation surface for
	// the given window.
	NewSurface(win wsi.Window) (Surface, error)

	// Adapters returns the physical devices, in the
	// order the implementation enumerates them.
	Adapters() ([]Adapter, error)
}

// QueueFamily describes a family of device queues.
type QueueFamily struct {
	Graphics bool
	Count    int
}

// Features is the set of optional device features
// relevant to rendering.
type Features struct {
	SamplerAnisotropy bool
	SampleRateShading bool
}

// Limits describes implementation limits of an Adapter.
type Limits struct {
	// Supported sample counts as bit masks (bit n set
	// means that 1<<n samples are supported).
	ColorSamples int
	DepthSamples int

	MaxAnisotropy float32
}

// Adapter is the interface that defines a physical device.
type Adapter interface {
	// Name returns the device name.
	Name() string

	// QueueFamilies returns the queue families of the
	// device. Family indices are positions in this
	// slice.
	QueueFamilies() []QueueFamily

	// SupportsPresent checks whether a given queue family
	// can present to s.
	SupportsPresent(family int, s Surface) (bool, error)

	// Extensions returns the names of the supported
	// device extensions.
	Extensions() ([]string, error)

	// Features returns the supported features.
	Features() Features

	// Limits returns the device limits.
	Limits() Limits

	// SurfaceInfo queries the capabilities, formats and
	// present modes that the device supports for s.
	SurfaceInfo(s Surface) (*SurfaceInfo, error)

	// DepthTarget checks whether pf can be used as a
	// depth/stencil attachment with optimal tiling.
	DepthTarget(pf PixelFmt) bool

	// NewDevice creates a logical device.
	NewDevice(param *DeviceParam) (Device, error)
}

// DeviceParam describes how to create a Device.
type DeviceParam struct {
	// Queue family indices. One queue is created for
	// each distinct family.
	Graphics int
	Present  int

	Extensions []string
	Features   Features
}

// Device is the interface that defines a logical device.
// It is used to create every device-level object.
type Device interface {
	Destroyer

	// Queue returns the queue of a given family.
	// The family must have been requested in
	// DeviceParam.
	Queue(family int) Queue

	// WaitIdle blocks until all work submitted to
	// the device completes.
	WaitIdle() error

	// NewSwapchain creates a new swapchain.
	NewSwapchain(param *SwapchainParam) (Swapchain, error)

	// NewImage creates a new image with its own backing
	// memory.
	NewImage(param *ImageParam) (Image, error)

	// NewRenderPass creates a new single-subpass render
	// pass.
	NewRenderPass(param *PassParam) (RenderPass, error)

	// NewShaderCode creates a new shader code from
	// SPIR-V words.
	NewShaderCode(data []byte) (ShaderCode, error)

	// NewDescLayout creates a new descriptor set layout.
	NewDescLayout(binds []DescBinding) (DescLayout, error)

	// NewDescPool creates a new descriptor pool whose
	// sets can be freed individually.
	NewDescPool(maxSets int, sizes []DescPoolSize) (DescPool, error)

	// NewPipelineLayout creates a new pipeline layout.
	NewPipelineLayout(sets []DescLayout) (PipelineLayout, error)

	// NewPipeline creates a new graphics pipeline.
	NewPipeline(state *GraphState) (Pipeline, error)

	// NewCmdPool creates a new command pool for a given
	// queue family. Its command buffers can be reset
	// individually.
	NewCmdPool(family int) (CmdPool, error)

	// NewSampler creates a new sampler.
	NewSampler(param *Sampling) (Sampler, error)

	// NewSemaphore creates a new binary semaphore.
	NewSemaphore() (Semaphore, error)

	// NewFence creates a new fence.
	NewFence(signaled bool) (Fence, error)

	// NewBuffer creates a new buffer with its own
	// backing memory.
	NewBuffer(size int64, usg Usage, mem MemProp) (Buffer, error)
}

// Queue is the interface that defines a device queue.
type Queue interface {
	// Submit submits batches of command buffers.
	// f, if not nil, is signaled when all batches
	// complete. It must be unsignaled.
	Submit(sub []Submission, f Fence) error

	// Present queues a swapchain image for presentation.
	// It may return ErrOutOfDate or ErrSuboptimal, in
	// which case the image was consumed nonetheless.
	Present(p *Presentation) error

	// WaitIdle blocks until all work submitted to the
	// queue completes.
	WaitIdle() error
}

// Submission is a batch of command buffers submitted
// to a queue.
type Submission struct {
	// Semaphores to wait on, and the stage at which
	// each wait occurs.
	Wait      []Semaphore
	WaitStage []Sync

	Cmds []CmdBuffer

	// Semaphores signaled when the batch completes.
	Signal []Semaphore
}

// Semaphore is the interface that defines a GPU-GPU
// synchronization primitive.
type Semaphore interface {
	Destroyer
}

// Fence is the interface that defines a GPU-CPU
// synchronization primitive.
type Fence interface {
	Destroyer

	// Wait blocks until the fence is signaled.
	Wait() error

	// Reset makes the fence unsignaled.
	Reset() error
}

// Usage is a mask of valid uses for a buffer or image.
type Usage int

// Usage flags.
const (
	UCopySrc Usage = 1 << iota
	UCopyDst
	UVertexData
	UIndexData
	UUniform
	UColorTarget
	UDepthTarget
	UTransient
)

// MemProp is the type of memory backing a resource.
type MemProp int

// Memory properties.
const (
	// Host visible and host coherent.
	MemHostVisible MemProp = 1 << iota
	// Device local.
	MemDeviceLocal
)

// MemReq describes the memory requirements of a resource.
type MemReq struct {
	Size  int64
	Align int64
}

// Buffer is the interface that defines a buffer and its
// bound memory.
type Buffer interface {
	Destroyer

	// Map maps the buffer's memory for host access.
	// The buffer must have been created with
	// MemHostVisible.
	Map() ([]byte, error)

	// Unmap unmaps the buffer's memory.
	Unmap()

	// Size returns the requested size in bytes.
	Size() int64

	// Requirements returns the memory requirements
	// reported by the implementation.
	Requirements() MemReq
}

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	FInvalid PixelFmt = iota
	RGBA8Unorm
	RGBA8SRGB
	BGRA8Unorm
	BGRA8SRGB
	D32Float
	D32FloatS8
	D24UnormS8
)

// IsDepth returns whether pf is a depth format.
func (pf PixelFmt) IsDepth() bool { return pf >= D32Float }

// HasStencil returns whether pf has a stencil aspect.
func (pf PixelFmt) HasStencil() bool { return pf == D32FloatS8 || pf == D24UnormS8 }

// ImageParam describes how to create an Image.
type ImageParam struct {
	Format  PixelFmt
	Width   int
	Height  int
	Samples int
	Usage   Usage
	Mem     MemProp
}

// Image is the interface that defines a 2D image.
type Image interface {
	Destroyer

	// NewView creates a new image view covering the
	// whole image.
	NewView() (ImageView, error)
}

// ImageView is the interface that defines a view of an
// Image.
type ImageView interface {
	Destroyer
}

// Sync is a mask of pipeline stages for synchronization.
type Sync int

// Synchronization scopes.
const (
	STopOfPipe Sync = 1 << iota
	SVertexInput
	SVertexShading
	SEarlyFragTests
	SColorOutput
	SCopy
	SNone Sync = 0
)

// Access is the type of a memory access scope.
type Access int

// Memory access scopes.
const (
	AVertexBufRead Access = 1 << iota
	AIndexBufRead
	AUniformRead
	AColorWrite
	ADSWrite
	ACopyRead
	ACopyWrite
	ANone Access = 0
)

// Layout is the type of an image layout.
type Layout int

// Image layouts.
const (
	LUndefined Layout = iota
	LColorTarget
	LDSTarget
	LPresent
)

// Barrier represents a buffer memory barrier.
type Barrier struct {
	SyncBefore   Sync
	SyncAfter    Sync
	AccessBefore Access
	AccessAfter  Access
	Buf          Buffer
}

// LoadOp is the type of an attachment's load operation.
type LoadOp int

// Load operations.
const (
	LDontCare LoadOp = iota
	LClear
	LLoad
)

// StoreOp is the type of an attachment's store operation.
type StoreOp int

// Store operations.
const (
	SDontCare StoreOp = iota
	SStore
)

// Attachment describes the configuration of a single
// render target for use in a render pass.
type Attachment struct {
	Format  PixelFmt
	Samples int
	Load    LoadOp
	Store   StoreOp
	Final   Layout
}

// PassParam describes a render pass with one subpass.
// Color, DS (depth/stencil) and MSR (multisample resolve)
// are indices in Attachments. DS and MSR may be -1.
// The subpass waits on color output and early fragment
// tests of prior work.
type PassParam struct {
	Attachments []Attachment
	Color       int
	DS          int
	MSR         int
}

// RenderPass is the interface that defines a render pass
// into which draw commands operate.
type RenderPass interface {
	Destroyer

	// NewFB creates a new framebuffer.
	// Each image view in iv correspond to the render pass'
	// attachment of same index.
	// All framebuffers created from a given render pass
	// must be destroyed before the render pass itself
	// is destroyed.
	NewFB(iv []ImageView, width, height int) (Framebuf, error)
}

// Framebuf is the interface that defines the render targets
// of a render pass.
type Framebuf interface {
	Destroyer
}

// ClearValue defines clear values for color or depth/stencil
// aspects of a render target.
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

// ShaderCode is the interface that defines a shader binary
// for execution in a programmable pipeline stage.
type ShaderCode interface {
	Destroyer
}

// ShaderFunc specifies a function within a shader binary.
type ShaderFunc struct {
	Code ShaderCode
	Name string
}

// Stage is a mask of programmable stages.
type Stage int

// Stages.
const (
	SVertex Stage = 1 << iota
	SFragment
)

// DescType is the type of a descriptor.
type DescType int

// Descriptor types.
const (
	// Uniform buffer.
	DConstant DescType = iota
	// Combined image/sampler.
	DTexture
)

// DescBinding describes one binding of a descriptor set
// layout.
type DescBinding struct {
	Nr     int
	Type   DescType
	Stages Stage
	Len    int
}

// DescPoolSize is the number of descriptors of a given
// type that a DescPool can provide.
type DescPoolSize struct {
	Type  DescType
	Count int
}

// DescLayout is the interface that defines the layout of
// a descriptor set.
type DescLayout interface {
	Destroyer
}

// DescPool is the interface that defines a pool from which
// descriptor sets are allocated.
type DescPool interface {
	Destroyer

	// Alloc allocates a new descriptor set.
	Alloc(layout DescLayout) (DescSet, error)

	// Free returns set to the pool.
	Free(set DescSet) error
}

// DescSet is the interface that defines a descriptor set.
type DescSet interface {
	// SetBuffer updates the buffer range referred by
	// the given binding. The binding must be of type
	// DConstant.
	SetBuffer(nr int, buf Buffer, off, size int64)
}

// PipelineLayout is the interface that defines the
// descriptor set layouts visible to a pipeline.
type PipelineLayout interface {
	Destroyer
}

// VertexFmt describes the format of a vertex input.
type VertexFmt int

// Vertex formats.
const (
	Float32 VertexFmt = iota
	Float32x2
	Float32x3
	Float32x4
)

// Size returns the size of the format in bytes.
func (f VertexFmt) Size() int { return 4 * (int(f) + 1) }

// VertexAttr describes one attribute of a vertex binding.
type VertexAttr struct {
	Nr     int
	Format VertexFmt
	Off    int
}

// VertexIn describes an interleaved vertex binding.
type VertexIn struct {
	Stride int
	Attrs  []VertexAttr
}

// Topology is the type of primitive topologies.
type Topology int

// Primitive topologies.
const (
	TTriangle Topology = iota
	TTriStrip
	TLine
	TPoint
)

// CullMode is the type of cull modes.
type CullMode int

// Cull modes.
const (
	CNone CullMode = iota
	CFront
	CBack
)

// RasterState defines the rasterization state.
type RasterState struct {
	Cull      CullMode
	Clockwise bool
}

// SampleState defines the multisample state.
// MinShading of zero disables sample-rate shading.
type SampleState struct {
	Samples    int
	MinShading float32
}

// CmpFunc is the type of comparison functions.
type CmpFunc int

// Comparison functions.
const (
	CNever CmpFunc = iota
	CLess
	CEqual
	CLessEqual
	CGreater
	CAlways
)

// DSState defines the depth/stencil state.
type DSState struct {
	DepthTest  bool
	DepthWrite bool
	DepthCmp   CmpFunc
}

// BlendFac is the type of blend factors.
type BlendFac int

// Blend factors.
const (
	BZero BlendFac = iota
	BOne
	BSrcAlpha
	BInvSrcAlpha
)

// BlendOp is the type of blend operations.
type BlendOp int

// Blend operations.
const (
	BAdd BlendOp = iota
	BSubtract
)

// BlendState defines the color blend state of the single
// color attachment.
type BlendState struct {
	Enable    bool
	SrcFacRGB BlendFac
	DstFacRGB BlendFac
	OpRGB     BlendOp
	SrcFacA   BlendFac
	DstFacA   BlendFac
	OpA       BlendOp
}

// GraphState defines the state of a graphics pipeline.
// Viewport and scissor are always dynamic.
type GraphState struct {
	VertFunc ShaderFunc
	FragFunc ShaderFunc
	Layout   PipelineLayout
	Pass     RenderPass
	Input    []VertexIn
	Topology Topology
	Raster   RasterState
	Samples  SampleState
	DS       DSState
	Blend    BlendState
}

// Pipeline is the interface that defines a graphics
// pipeline.
type Pipeline interface {
	Destroyer
}

// Filter is the type of texture filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
)

// AddrMode is the type of texture addressing modes.
type AddrMode int

// Addressing modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// Sampling describes a texture sampler.
type Sampling struct {
	Min      Filter
	Mag      Filter
	Mipmap   Filter
	AddrU    AddrMode
	AddrV    AddrMode
	AddrW    AddrMode
	MaxAniso float32
	MinLOD   float32
	MaxLOD   float32
}

// Sampler is the interface that defines a texture sampler.
type Sampler interface {
	Destroyer
}

// CmdPool is the interface that defines a pool of command
// buffers tied to a queue family.
type CmdPool interface {
	Destroyer

	// Alloc allocates n primary command buffers.
	Alloc(n int) ([]CmdBuffer, error)

	// Free frees command buffers allocated from the
	// pool. They must not be pending execution.
	Free(cb []CmdBuffer)
}

// Viewport defines the bounds of a viewport.
type Viewport struct {
	X, Y, Width, Height, Znear, Zfar float32
}

// Scissor defines a scissor rectangle.
type Scissor struct {
	X, Y, Width, Height int
}

// BufferCopy describes a buffer-to-buffer copy.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// submitted to a Queue for execution. The usage is as
// follows:
//
//  1. call Begin
//  2. call CopyBuffer/Barrier as needed
//  3. call BeginPass
//  4. call Set* methods to configure rendering state
//  5. call DrawIndexed
//  6. repeat 4-5 as needed
//  7. call EndPass
//  8. call End and, if it succeeds, Queue.Submit
//
// A command buffer that is pending execution must not be
// reset or recorded into.
type CmdBuffer interface {
	// Begin prepares the command buffer for recording.
	// oneTime indicates that it will be submitted once
	// before being reset.
	Begin(oneTime bool) error

	// End ends recording.
	End() error

	// Reset discards all recorded commands.
	Reset() error

	// BeginPass begins a render pass instance.
	BeginPass(pass RenderPass, fb Framebuf, width, height int, clear []ClearValue)

	// EndPass ends the current render pass.
	EndPass()

	// SetPipeline binds a graphics pipeline.
	SetPipeline(pl Pipeline)

	// SetViewport sets the dynamic viewport.
	SetViewport(vp Viewport)

	// SetScissor sets the dynamic scissor.
	SetScissor(sciss Scissor)

	// SetVertexBuf binds a vertex buffer at binding 0.
	SetVertexBuf(buf Buffer, off int64)

	// SetIndexBuf binds a buffer of uint32 indices.
	SetIndexBuf(buf Buffer, off int64)

	// SetDescSet binds a descriptor set at set 0.
	SetDescSet(layout PipelineLayout, set DescSet)

	// DrawIndexed draws indexed primitives.
	DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int)

	// CopyBuffer copies data between buffers.
	CopyBuffer(param *BufferCopy)

	// Barrier inserts buffer memory barriers.
	Barrier(b []Barrier)
}

// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// Pixel formats indexed by driver.PixelFmt.
var pixelFmts = [...]vk.Format{
	driver.FInvalid:   vk.FormatUndefined,
	driver.RGBA8Unorm: vk.FormatR8g8b8a8Unorm,
	driver.RGBA8SRGB:  vk.FormatR8g8b8a8Srgb,
	driver.BGRA8Unorm: vk.FormatB8g8r8a8Unorm,
	driver.BGRA8SRGB:  vk.FormatB8g8r8a8Srgb,
	driver.D32Float:   vk.FormatD32Sfloat,
	driver.D32FloatS8: vk.FormatD32SfloatS8Uint,
	driver.D24UnormS8: vk.FormatD24UnormS8Uint,
}

// convPixelFmt converts a driver.PixelFmt.
func convPixelFmt(pf driver.PixelFmt) vk.Format {
	if pf < 0 || int(pf) >= len(pixelFmts) {
		return vk.FormatUndefined
	}
	return pixelFmts[pf]
}

// pixelFmtFrom converts a vk.Format.
// It returns driver.FInvalid for unsupported formats.
func pixelFmtFrom(f vk.Format) driver.PixelFmt {
	if f == vk.FormatUndefined {
		return driver.FInvalid
	}
	for i, x := range pixelFmts {
		if x == f {
			return driver.PixelFmt(i)
		}
	}
	return driver.FInvalid
}

// colorSpaces maps driver color spaces to the values of
// VK_KHR_surface and VK_EXT_swapchain_colorspace.
var colorSpaces = map[driver.ColorSpace]vk.ColorSpace{
	driver.CSRGBNonlinear:       vk.ColorSpaceSrgbNonlinear,
	driver.CSDisplayP3Nonlinear: vk.ColorSpace(1000104001),
	driver.CSExtSRGBLinear:      vk.ColorSpace(1000104002),
	driver.CSHDR10ST2084:        vk.ColorSpace(1000104008),
	driver.CSPassThrough:        vk.ColorSpace(1000104013),
	driver.CSExtSRGBNonlinear:   vk.ColorSpace(1000104014),
}

// convColorSpace converts a driver.ColorSpace.
// It returns false for CSOther and unknown values.
func convColorSpace(cs driver.ColorSpace) (vk.ColorSpace, bool) {
	x, ok := colorSpaces[cs]
	return x, ok
}

// colorSpaceFrom converts a vk.ColorSpace.
// It returns CSOther, false if cs has no mapping.
func colorSpaceFrom(cs vk.ColorSpace) (driver.ColorSpace, bool) {
	for k, v := range colorSpaces {
		if v == cs {
			return k, true
		}
	}
	return driver.CSOther, false
}

// convPresentMode converts a driver.PresentMode.
func convPresentMode(pm driver.PresentMode) vk.PresentMode {
	switch pm {
	case driver.PresentFIFORelaxed:
		return vk.PresentModeFifoRelaxed
	case driver.PresentMailbox:
		return vk.PresentModeMailbox
	case driver.PresentImmediate:
		return vk.PresentModeImmediate
	}
	return vk.PresentModeFifo
}

// presentModeFrom converts a vk.PresentMode.
func presentModeFrom(pm vk.PresentMode) (driver.PresentMode, bool) {
	switch pm {
	case vk.PresentModeFifo:
		return driver.PresentFIFO, true
	case vk.PresentModeFifoRelaxed:
		return driver.PresentFIFORelaxed, true
	case vk.PresentModeMailbox:
		return driver.PresentMailbox, true
	case vk.PresentModeImmediate:
		return driver.PresentImmediate, true
	}
	return 0, false
}

// convCaps converts surface capabilities.
// An undefined current extent becomes -1.
func convCaps(caps vk.SurfaceCapabilities) driver.SurfaceCaps {
	ext := func(e vk.Extent2D) driver.Extent {
		return driver.Extent{Width: int(e.Width), Height: int(e.Height)}
	}
	c := driver.SurfaceCaps{
		MinImages: int(caps.MinImageCount),
		MaxImages: int(caps.MaxImageCount),
		Current:   ext(caps.CurrentExtent),
		MinExtent: ext(caps.MinImageExtent),
		MaxExtent: ext(caps.MaxImageExtent),
	}
	if caps.CurrentExtent.Width == vk.MaxUint32 {
		c.Current = driver.Extent{Width: -1, Height: -1}
	}
	return c
}

// convSamples converts a sample count.
// Invalid counts yield a single sample.
func convSamples(n int) vk.SampleCountFlagBits {
	switch n {
	case 2, 4, 8, 16, 32, 64:
		return vk.SampleCountFlagBits(n)
	}
	return vk.SampleCount1Bit
}

// convBufUsage converts buffer usage.
func convBufUsage(usg driver.Usage) vk.BufferUsageFlags {
	var f vk.BufferUsageFlagBits
	if usg&driver.UCopySrc != 0 {
		f |= vk.BufferUsageTransferSrcBit
	}
	if usg&driver.UCopyDst != 0 {
		f |= vk.BufferUsageTransferDstBit
	}
	if usg&driver.UVertexData != 0 {
		f |= vk.BufferUsageVertexBufferBit
	}
	if usg&driver.UIndexData != 0 {
		f |= vk.BufferUsageIndexBufferBit
	}
	if usg&driver.UUniform != 0 {
		f |= vk.BufferUsageUniformBufferBit
	}
	return vk.BufferUsageFlags(f)
}

// convImgUsage converts image usage.
func convImgUsage(usg driver.Usage) vk.ImageUsageFlags {
	var f vk.ImageUsageFlagBits
	if usg&driver.UCopySrc != 0 {
		f |= vk.ImageUsageTransferSrcBit
	}
	if usg&driver.UCopyDst != 0 {
		f |= vk.ImageUsageTransferDstBit
	}
	if usg&driver.UColorTarget != 0 {
		f |= vk.ImageUsageColorAttachmentBit
	}
	if usg&driver.UDepthTarget != 0 {
		f |= vk.ImageUsageDepthStencilAttachmentBit
	}
	if usg&driver.UTransient != 0 {
		f |= vk.ImageUsageTransientAttachmentBit
	}
	return vk.ImageUsageFlags(f)
}

// convMemProp converts memory properties.
func convMemProp(mem driver.MemProp) vk.MemoryPropertyFlags {
	var f vk.MemoryPropertyFlagBits
	if mem&driver.MemHostVisible != 0 {
		f |= vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	}
	if mem&driver.MemDeviceLocal != 0 {
		f |= vk.MemoryPropertyDeviceLocalBit
	}
	return vk.MemoryPropertyFlags(f)
}

// convSync converts a synchronization scope.
// An empty scope becomes top of pipe when it comes first
// and bottom of pipe otherwise.
func convSync(s driver.Sync, first bool) vk.PipelineStageFlags {
	var f vk.PipelineStageFlagBits
	if s&driver.STopOfPipe != 0 {
		f |= vk.PipelineStageTopOfPipeBit
	}
	if s&driver.SVertexInput != 0 {
		f |= vk.PipelineStageVertexInputBit
	}
	if s&driver.SVertexShading != 0 {
		f |= vk.PipelineStageVertexShaderBit
	}
	if s&driver.SEarlyFragTests != 0 {
		f |= vk.PipelineStageEarlyFragmentTestsBit
	}
	if s&driver.SColorOutput != 0 {
		f |= vk.PipelineStageColorAttachmentOutputBit
	}
	if s&driver.SCopy != 0 {
		f |= vk.PipelineStageTransferBit
	}
	if f == 0 {
		if first {
			f = vk.PipelineStageTopOfPipeBit
		} else {
			f = vk.PipelineStageBottomOfPipeBit
		}
	}
	return vk.PipelineStageFlags(f)
}

// convAccess converts a memory access scope.
func convAccess(a driver.Access) vk.AccessFlags {
	var f vk.AccessFlagBits
	if a&driver.AVertexBufRead != 0 {
		f |= vk.AccessVertexAttributeReadBit
	}
	if a&driver.AIndexBufRead != 0 {
		f |= vk.AccessIndexReadBit
	}
	if a&driver.AUniformRead != 0 {
		f |= vk.AccessUniformReadBit
	}
	if a&driver.AColorWrite != 0 {
		f |= vk.AccessColorAttachmentWriteBit
	}
	if a&driver.ADSWrite != 0 {
		f |= vk.AccessDepthStencilAttachmentWriteBit
	}
	if a&driver.ACopyRead != 0 {
		f |= vk.AccessTransferReadBit
	}
	if a&driver.ACopyWrite != 0 {
		f |= vk.AccessTransferWriteBit
	}
	return vk.AccessFlags(f)
}

// convLayout converts an image layout.
func convLayout(l driver.Layout) vk.ImageLayout {
	switch l {
	case driver.LColorTarget:
		return vk.ImageLayoutColorAttachmentOptimal
	case driver.LDSTarget:
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	case driver.LPresent:
		return vk.ImageLayoutPresentSrc
	}
	return vk.ImageLayoutUndefined
}

// convLoadOp converts a load operation.
func convLoadOp(op driver.LoadOp) vk.AttachmentLoadOp {
	switch op {
	case driver.LClear:
		return vk.AttachmentLoadOpClear
	case driver.LLoad:
		return vk.AttachmentLoadOpLoad
	}
	return vk.AttachmentLoadOpDontCare
}

// convStoreOp converts a store operation.
func convStoreOp(op driver.StoreOp) vk.AttachmentStoreOp {
	if op == driver.SStore {
		return vk.AttachmentStoreOpStore
	}
	return vk.AttachmentStoreOpDontCare
}

// convStage converts programmable stages.
func convStage(s driver.Stage) vk.ShaderStageFlags {
	var f vk.ShaderStageFlagBits
	if s&driver.SVertex != 0 {
		f |= vk.ShaderStageVertexBit
	}
	if s&driver.SFragment != 0 {
		f |= vk.ShaderStageFragmentBit
	}
	return vk.ShaderStageFlags(f)
}

// convDescType converts a descriptor type.
func convDescType(t driver.DescType) vk.DescriptorType {
	if t == driver.DTexture {
		return vk.DescriptorTypeCombinedImageSampler
	}
	return vk.DescriptorTypeUniformBuffer
}

// convVertexFmt converts a vertex format.
func convVertexFmt(f driver.VertexFmt) vk.Format {
	switch f {
	case driver.Float32:
		return vk.FormatR32Sfloat
	case driver.Float32x2:
		return vk.FormatR32g32Sfloat
	case driver.Float32x3:
		return vk.FormatR32g32b32Sfloat
	case driver.Float32x4:
		return vk.FormatR32g32b32a32Sfloat
	}
	return vk.FormatUndefined
}

// convTopology converts a primitive topology.
func convTopology(t driver.Topology) vk.PrimitiveTopology {
	switch t {
	case driver.TTriStrip:
		return vk.PrimitiveTopologyTriangleStrip
	case driver.TLine:
		return vk.PrimitiveTopologyLineList
	case driver.TPoint:
		return vk.PrimitiveTopologyPointList
	}
	return vk.PrimitiveTopologyTriangleList
}

// convCullMode converts a cull mode.
func convCullMode(c driver.CullMode) vk.CullModeFlags {
	switch c {
	case driver.CFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case driver.CBack:
		return vk.CullModeFlags(vk.CullModeBackBit)
	}
	return vk.CullModeFlags(vk.CullModeNone)
}

// convCmpFunc converts a comparison function.
func convCmpFunc(c driver.CmpFunc) vk.CompareOp {
	switch c {
	case driver.CLess:
		return vk.CompareOpLess
	case driver.CEqual:
		return vk.CompareOpEqual
	case driver.CLessEqual:
		return vk.CompareOpLessOrEqual
	case driver.CGreater:
		return vk.CompareOpGreater
	case driver.CAlways:
		return vk.CompareOpAlways
	}
	return vk.CompareOpNever
}

// convBlendFac converts a blend factor.
func convBlendFac(b driver.BlendFac) vk.BlendFactor {
	switch b {
	case driver.BOne:
		return vk.BlendFactorOne
	case driver.BSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case driver.BInvSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	}
	return vk.BlendFactorZero
}

// convBlendOp converts a blend operation.
func convBlendOp(b driver.BlendOp) vk.BlendOp {
	if b == driver.BSubtract {
		return vk.BlendOpSubtract
	}
	return vk.BlendOpAdd
}

// convFilter converts a texture filter.
func convFilter(f driver.Filter) vk.Filter {
	if f == driver.FLinear {
		return vk.FilterLinear
	}
	return vk.FilterNearest
}

// convMipmap converts a mipmap filter.
func convMipmap(f driver.Filter) vk.SamplerMipmapMode {
	if f == driver.FLinear {
		return vk.SamplerMipmapModeLinear
	}
	return vk.SamplerMipmapModeNearest
}

// convAddrMode converts an addressing mode.
func convAddrMode(a driver.AddrMode) vk.SamplerAddressMode {
	switch a {
	case driver.AMirror:
		return vk.SamplerAddressModeMirroredRepeat
	case driver.AClamp:
		return vk.SamplerAddressModeClampToEdge
	}
	return vk.SamplerAddressModeRepeat
}

// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	"errors"
	"slices"
	"testing"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

func TestPixelFmt(t *testing.T) {
	pfs := [...]driver.PixelFmt{
		driver.RGBA8Unorm,
		driver.RGBA8SRGB,
		driver.BGRA8Unorm,
		driver.BGRA8SRGB,
		driver.D32Float,
		driver.D32FloatS8,
		driver.D24UnormS8,
	}
	for _, pf := range pfs {
		f := convPixelFmt(pf)
		if f == vk.FormatUndefined {
			t.Fatalf("convPixelFmt(%v):\nhave FormatUndefined\nwant a defined format", pf)
		}
		if x := pixelFmtFrom(f); x != pf {
			t.Fatalf("pixelFmtFrom(convPixelFmt(%v)):\nhave %v\nwant %v", pf, x, pf)
		}
	}
	if x := convPixelFmt(-1); x != vk.FormatUndefined {
		t.Fatalf("convPixelFmt(-1):\nhave %v\nwant FormatUndefined", x)
	}
	if x := pixelFmtFrom(vk.FormatR16g16b16a16Sfloat); x != driver.FInvalid {
		t.Fatalf("pixelFmtFrom(R16G16B16A16):\nhave %v\nwant FInvalid", x)
	}
}

func TestPresentMode(t *testing.T) {
	for _, pm := range [...]driver.PresentMode{
		driver.PresentFIFO,
		driver.PresentFIFORelaxed,
		driver.PresentMailbox,
		driver.PresentImmediate,
	} {
		x, ok := presentModeFrom(convPresentMode(pm))
		if !ok || x != pm {
			t.Fatalf("presentModeFrom(convPresentMode(%v)):\nhave %v, %t\nwant %v, true", pm, x, ok, pm)
		}
	}
	if _, ok := presentModeFrom(vk.PresentMode(1000111000)); ok {
		t.Fatal("presentModeFrom(1000111000):\nhave true\nwant false")
	}
}

func TestColorSpace(t *testing.T) {
	for _, cs := range [...]driver.ColorSpace{
		driver.CSRGBNonlinear,
		driver.CSExtSRGBLinear,
		driver.CSExtSRGBNonlinear,
		driver.CSDisplayP3Nonlinear,
		driver.CSHDR10ST2084,
		driver.CSPassThrough,
	} {
		x, ok := convColorSpace(cs)
		if !ok {
			t.Fatalf("convColorSpace(%v):\nhave false\nwant true", cs)
		}
		if y, ok := colorSpaceFrom(x); !ok || y != cs {
			t.Fatalf("colorSpaceFrom(convColorSpace(%v)):\nhave %v, %t\nwant %v, true", cs, y, ok, cs)
		}
	}
	if x, _ := convColorSpace(driver.CSHDR10ST2084); x == vk.ColorSpaceSrgbNonlinear {
		t.Fatal("convColorSpace(CSHDR10ST2084):\nhave SrgbNonlinear\nwant HDR10")
	}
	if _, ok := convColorSpace(driver.CSOther); ok {
		t.Fatal("convColorSpace(CSOther):\nhave true\nwant false")
	}
	if x, ok := colorSpaceFrom(vk.ColorSpace(1000213000)); ok || x != driver.CSOther {
		t.Fatalf("colorSpaceFrom(1000213000):\nhave %v, %t\nwant CSOther, false", x, ok)
	}
}

func TestCaps(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  0,
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 2048},
	}
	have := convCaps(caps)
	want := driver.SurfaceCaps{
		MinImages: 2,
		Current:   driver.Extent{Width: -1, Height: -1},
		MinExtent: driver.Extent{Width: 1, Height: 1},
		MaxExtent: driver.Extent{Width: 4096, Height: 2048},
	}
	if have != want {
		t.Fatalf("convCaps:\nhave %+v\nwant %+v", have, want)
	}
	caps.CurrentExtent = vk.Extent2D{Width: 800, Height: 600}
	if have := convCaps(caps).Current; have != (driver.Extent{Width: 800, Height: 600}) {
		t.Fatalf("convCaps(...).Current:\nhave %+v\nwant {800 600}", have)
	}
}

func TestSamples(t *testing.T) {
	for _, c := range [...]struct {
		n    int
		want vk.SampleCountFlagBits
	}{
		{0, vk.SampleCount1Bit},
		{1, vk.SampleCount1Bit},
		{2, vk.SampleCount2Bit},
		{3, vk.SampleCount1Bit},
		{4, vk.SampleCount4Bit},
		{8, vk.SampleCount8Bit},
		{64, vk.SampleCount64Bit},
		{128, vk.SampleCount1Bit},
	} {
		if have := convSamples(c.n); have != c.want {
			t.Fatalf("convSamples(%d):\nhave %v\nwant %v", c.n, have, c.want)
		}
	}
}

func TestUsage(t *testing.T) {
	have := convBufUsage(driver.UCopySrc | driver.UUniform)
	want := vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit | vk.BufferUsageUniformBufferBit)
	if have != want {
		t.Fatalf("convBufUsage:\nhave %#x\nwant %#x", have, want)
	}
	// Image-only bits do not leak into buffer usage.
	if x := convBufUsage(driver.UColorTarget | driver.UTransient); x != 0 {
		t.Fatalf("convBufUsage(UColorTarget|UTransient):\nhave %#x\nwant 0", x)
	}
	himg := convImgUsage(driver.UColorTarget | driver.UTransient)
	wimg := vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransientAttachmentBit)
	if himg != wimg {
		t.Fatalf("convImgUsage:\nhave %#x\nwant %#x", himg, wimg)
	}
	hmem := convMemProp(driver.MemHostVisible)
	wmem := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	if hmem != wmem {
		t.Fatalf("convMemProp(MemHostVisible):\nhave %#x\nwant %#x", hmem, wmem)
	}
}

func TestSync(t *testing.T) {
	if x := convSync(driver.SNone, true); x != vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit) {
		t.Fatalf("convSync(SNone, true):\nhave %#x\nwant TopOfPipe", x)
	}
	if x := convSync(driver.SNone, false); x != vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit) {
		t.Fatalf("convSync(SNone, false):\nhave %#x\nwant BottomOfPipe", x)
	}
	have := convSync(driver.SCopy|driver.SVertexShading, false)
	want := vk.PipelineStageFlags(vk.PipelineStageTransferBit | vk.PipelineStageVertexShaderBit)
	if have != want {
		t.Fatalf("convSync(SCopy|SVertexShading):\nhave %#x\nwant %#x", have, want)
	}
	hacc := convAccess(driver.ACopyWrite | driver.AUniformRead)
	wacc := vk.AccessFlags(vk.AccessTransferWriteBit | vk.AccessUniformReadBit)
	if hacc != wacc {
		t.Fatalf("convAccess:\nhave %#x\nwant %#x", hacc, wacc)
	}
	if x := convAccess(driver.ANone); x != 0 {
		t.Fatalf("convAccess(ANone):\nhave %#x\nwant 0", x)
	}
}

func TestPassConv(t *testing.T) {
	layouts := map[driver.Layout]vk.ImageLayout{
		driver.LUndefined:   vk.ImageLayoutUndefined,
		driver.LColorTarget: vk.ImageLayoutColorAttachmentOptimal,
		driver.LDSTarget:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		driver.LPresent:     vk.ImageLayoutPresentSrc,
	}
	for l, want := range layouts {
		if have := convLayout(l); have != want {
			t.Fatalf("convLayout(%v):\nhave %v\nwant %v", l, have, want)
		}
	}
	if x := convLoadOp(driver.LClear); x != vk.AttachmentLoadOpClear {
		t.Fatalf("convLoadOp(LClear):\nhave %v\nwant Clear", x)
	}
	if x := convStoreOp(driver.SDontCare); x != vk.AttachmentStoreOpDontCare {
		t.Fatalf("convStoreOp(SDontCare):\nhave %v\nwant DontCare", x)
	}
}

func TestPipelineConv(t *testing.T) {
	fmts := []vk.Format{
		convVertexFmt(driver.Float32),
		convVertexFmt(driver.Float32x2),
		convVertexFmt(driver.Float32x3),
		convVertexFmt(driver.Float32x4),
	}
	want := []vk.Format{
		vk.FormatR32Sfloat,
		vk.FormatR32g32Sfloat,
		vk.FormatR32g32b32Sfloat,
		vk.FormatR32g32b32a32Sfloat,
	}
	if !slices.Equal(fmts, want) {
		t.Fatalf("convVertexFmt:\nhave %v\nwant %v", fmts, want)
	}
	if x := convCullMode(driver.CBack); x != vk.CullModeFlags(vk.CullModeBackBit) {
		t.Fatalf("convCullMode(CBack):\nhave %v\nwant Back", x)
	}
	if x := convCmpFunc(driver.CLess); x != vk.CompareOpLess {
		t.Fatalf("convCmpFunc(CLess):\nhave %v\nwant Less", x)
	}
	if x := convBlendFac(driver.BInvSrcAlpha); x != vk.BlendFactorOneMinusSrcAlpha {
		t.Fatalf("convBlendFac(BInvSrcAlpha):\nhave %v\nwant OneMinusSrcAlpha", x)
	}
	if x := convStage(driver.SVertex | driver.SFragment); x != vk.ShaderStageFlags(vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit) {
		t.Fatalf("convStage(SVertex|SFragment):\nhave %#x\nwant vertex|fragment", x)
	}
}

func TestSampleShading(t *testing.T) {
	on := driver.Features{SampleRateShading: true}
	for _, c := range [...]struct {
		s     driver.SampleState
		feats driver.Features
		want  bool
	}{
		{driver.SampleState{Samples: 4, MinShading: 0.2}, on, true},
		{driver.SampleState{Samples: 4, MinShading: 0.2}, driver.Features{}, false},
		{driver.SampleState{Samples: 1, MinShading: 0.2}, on, false},
		{driver.SampleState{Samples: 4}, on, false},
	} {
		if have := sampleShading(&c.s, c.feats); have != c.want {
			t.Fatalf("sampleShading(%+v, %+v):\nhave %t\nwant %t", c.s, c.feats, have, c.want)
		}
	}
}

func TestCheckResult(t *testing.T) {
	for _, c := range [...]struct {
		ret  vk.Result
		want error
	}{
		{vk.Success, nil},
		{vk.Suboptimal, driver.ErrSuboptimal},
		{vk.ErrorOutOfDate, driver.ErrOutOfDate},
		{vk.ErrorOutOfHostMemory, driver.ErrNoHostMemory},
		{vk.ErrorOutOfDeviceMemory, driver.ErrNoDeviceMemory},
		{vk.ErrorDeviceLost, driver.ErrDeviceLost},
		{vk.ErrorSurfaceLost, driver.ErrWindow},
		{vk.ErrorTooManyObjects, driver.ErrFatal},
	} {
		if err := checkResult(c.ret); !errors.Is(err, c.want) || (c.want == nil) != (err == nil) {
			t.Fatalf("checkResult(%d):\nhave %v\nwant %v", c.ret, err, c.want)
		}
	}
}

func TestSpirvWords(t *testing.T) {
	words, err := spirvWords([]byte{0x03, 0x02, 0x23, 0x07, 1, 0, 0, 0})
	if err != nil {
		t.Fatalf("spirvWords: unexpected error: %v", err)
	}
	if want := []uint32{0x07230203, 1}; !slices.Equal(words, want) {
		t.Fatalf("spirvWords:\nhave %#x\nwant %#x", words, want)
	}
	for _, b := range [][]byte{nil, {1, 2, 3}} {
		if _, err := spirvWords(b); err != errShaderSize {
			t.Fatalf("spirvWords(%v):\nhave %v\nwant %v", b, err, errShaderSize)
		}
	}
}

func TestCstr(t *testing.T) {
	if s := cstr("main"); s != "main\x00" {
		t.Fatalf("cstr(\"main\"):\nhave %q\nwant %q", s, "main\x00")
	}
	if s := cstr("main\x00"); s != "main\x00" {
		t.Fatalf("cstr(\"main\\x00\"):\nhave %q\nwant %q", s, "main\x00")
	}
	if ss := cstrs([]string{"a", "b"}); !slices.Equal(ss, []string{"a\x00", "b\x00"}) {
		t.Fatalf("cstrs:\nhave %q\nwant [a\\x00 b\\x00]", ss)
	}
}

func TestRegistered(t *testing.T) {
	for _, d := range driver.Drivers() {
		if d.Name() == driverName {
			if _, ok := d.(*Driver); !ok {
				t.Fatalf("driver %q: have %T\nwant *Driver", driverName, d)
			}
			return
		}
	}
	t.Fatalf("driver %q not registered", driverName)
}

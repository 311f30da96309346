// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"errors"
	"math"
	"os"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/engine/internal/shader"
	"github.com/vkview/vkview/scene"
)

// Attachment indices of the render pass.
const (
	attColor = iota
	attDepth
	attResolve
	attCount
)

// NewRenderPass creates the render pass used to draw the
// scene: a multisampled color target, a depth target and
// a single-sampled resolve target that is presented.
func NewRenderPass(dev driver.Device, color, depth driver.PixelFmt, samples int) (driver.RenderPass, error) {
	pass, err := dev.NewRenderPass(&driver.PassParam{
		Attachments: []driver.Attachment{
			attColor: {
				Format:  color,
				Samples: samples,
				Load:    driver.LClear,
				Store:   driver.SStore,
				Final:   driver.LColorTarget,
			},
			attDepth: {
				Format:  depth,
				Samples: samples,
				Load:    driver.LClear,
				Store:   driver.SDontCare,
				Final:   driver.LDSTarget,
			},
			attResolve: {
				Format:  color,
				Samples: 1,
				Load:    driver.LDontCare,
				Store:   driver.SStore,
				Final:   driver.LPresent,
			},
		},
		Color: attColor,
		DS:    attDepth,
		MSR:   attResolve,
	})
	return pass, stageErr(ErrRenderPass, err)
}

// PipelineBuilder creates the descriptor and pipeline
// objects of the fixed graphics pipeline.
type PipelineBuilder struct {
	Device  driver.Device
	Pass    driver.RenderPass
	Samples int
	Config  *Config

	// Whether the device was created with sample rate
	// shading. If not, Config.MinSampleShading is ignored.
	SampleShading bool
}

// DescLayout creates the layout of the single uniform
// buffer binding, visible to the vertex stage.
func (b *PipelineBuilder) DescLayout() (driver.DescLayout, error) {
	dl, err := b.Device.NewDescLayout([]driver.DescBinding{shader.UniformBinding})
	return dl, stageErr(ErrDescriptor, err)
}

// DescPool creates a pool with n uniform descriptor sets.
func (b *PipelineBuilder) DescPool(n int) (driver.DescPool, error) {
	dp, err := b.Device.NewDescPool(n, []driver.DescPoolSize{{Type: driver.DConstant, Count: n}})
	return dp, stageErr(ErrDescriptor, err)
}

// Layout creates the pipeline layout.
func (b *PipelineBuilder) Layout(dl driver.DescLayout) (driver.PipelineLayout, error) {
	pl, err := b.Device.NewPipelineLayout([]driver.DescLayout{dl})
	return pl, stageErr(ErrDescriptor, err)
}

// loadShader reads SPIR-V code from path.
func (b *PipelineBuilder) loadShader(path string) (driver.ShaderCode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{ErrShaderLoad, err}
	}
	code, err := b.Device.NewShaderCode(data)
	if err != nil {
		return nil, &Error{ErrShaderLoad, err}
	}
	return code, nil
}

// GraphState returns the fixed pipeline state, with
// shader code and layout left for the caller to set.
func (b *PipelineBuilder) GraphState() driver.GraphState {
	var minShading float32
	if b.SampleShading {
		minShading = b.Config.MinSampleShading
	}
	return driver.GraphState{
		Pass: b.Pass,
		Input: []driver.VertexIn{{
			Stride: scene.VertexSize,
			Attrs: []driver.VertexAttr{
				{Nr: shader.PositionLoc, Format: driver.Float32x3, Off: scene.PosOffset},
				{Nr: shader.ColorLoc, Format: driver.Float32x3, Off: scene.ColorOffset},
			},
		}},
		Topology: driver.TTriangle,
		Raster:   driver.RasterState{Cull: driver.CBack, Clockwise: false},
		Samples:  driver.SampleState{Samples: b.Samples, MinShading: minShading},
		DS:       driver.DSState{DepthTest: true, DepthWrite: true, DepthCmp: driver.CLess},
		Blend: driver.BlendState{
			Enable:    true,
			SrcFacRGB: driver.BSrcAlpha,
			DstFacRGB: driver.BInvSrcAlpha,
			OpRGB:     driver.BAdd,
			SrcFacA:   driver.BOne,
			DstFacA:   driver.BZero,
			OpA:       driver.BAdd,
		},
	}
}

// Pipeline loads the shaders and creates the pipeline.
// Shader modules are destroyed once the pipeline exists.
func (b *PipelineBuilder) Pipeline(layout driver.PipelineLayout) (driver.Pipeline, error) {
	vert, err := b.loadShader(b.Config.VertShader)
	if err != nil {
		return nil, err
	}
	defer vert.Destroy()
	frag, err := b.loadShader(b.Config.FragShader)
	if err != nil {
		return nil, err
	}
	defer frag.Destroy()

	gs := b.GraphState()
	gs.VertFunc = driver.ShaderFunc{Code: vert, Name: "main"}
	gs.FragFunc = driver.ShaderFunc{Code: frag, Name: "main"}
	gs.Layout = layout
	pl, err := b.Device.NewPipeline(&gs)
	return pl, stageErr(ErrPipelineCreation, err)
}

// Sampler creates a trilinear, repeating sampler with the
// given anisotropy for textures of up to size texels.
func (b *PipelineBuilder) Sampler(maxAniso float32, size int) (driver.Sampler, error) {
	if size < 1 {
		return nil, &Error{ErrSampler, errors.New("invalid texture size")}
	}
	s, err := b.Device.NewSampler(&driver.Sampling{
		Min:      driver.FLinear,
		Mag:      driver.FLinear,
		Mipmap:   driver.FLinear,
		AddrU:    driver.AWrap,
		AddrV:    driver.AWrap,
		AddrW:    driver.AWrap,
		MaxAniso: maxAniso,
		MinLOD:   0,
		MaxLOD:   float32(math.Floor(math.Log2(float64(size)))) + 1,
	})
	return s, stageErr(ErrSampler, err)
}

// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// pipeline implements driver.Pipeline.
type pipeline struct {
	d  *device
	pl vk.Pipeline
}

// NewPipeline creates a graphics pipeline with dynamic
// viewport and scissor.
func (d *device) NewPipeline(state *driver.GraphState) (driver.Pipeline, error) {
	stages := []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: state.VertFunc.Code.(*shaderCode).mod,
			PName:  cstr(state.VertFunc.Name),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: state.FragFunc.Code.(*shaderCode).mod,
			PName:  cstr(state.FragFunc.Name),
		},
	}

	var binds []vk.VertexInputBindingDescription
	var attrs []vk.VertexInputAttributeDescription
	for i, in := range state.Input {
		binds = append(binds, vk.VertexInputBindingDescription{
			Binding:   uint32(i),
			Stride:    uint32(in.Stride),
			InputRate: vk.VertexInputRateVertex,
		})
		for _, a := range in.Attrs {
			attrs = append(attrs, vk.VertexInputAttributeDescription{
				Location: uint32(a.Nr),
				Binding:  uint32(i),
				Format:   convVertexFmt(a.Format),
				Offset:   uint32(a.Off),
			})
		}
	}

	front := vk.FrontFaceCounterClockwise
	if state.Raster.Clockwise {
		front = vk.FrontFaceClockwise
	}
	shading := sampleShading(&state.Samples, d.feats)

	blend := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         b32(state.Blend.Enable),
		SrcColorBlendFactor: convBlendFac(state.Blend.SrcFacRGB),
		DstColorBlendFactor: convBlendFac(state.Blend.DstFacRGB),
		ColorBlendOp:        convBlendOp(state.Blend.OpRGB),
		SrcAlphaBlendFactor: convBlendFac(state.Blend.SrcFacA),
		DstAlphaBlendFactor: convBlendFac(state.Blend.DstFacA),
		AlphaBlendOp:        convBlendOp(state.Blend.OpA),
		ColorWriteMask:      0xF,
	}

	info := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(binds)),
			PVertexBindingDescriptions:      binds,
			VertexAttributeDescriptionCount: uint32(len(attrs)),
			PVertexAttributeDescriptions:    attrs,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: convTopology(state.Topology),
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    convCullMode(state.Raster.Cull),
			FrontFace:   front,
			LineWidth:   1,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: convSamples(state.Samples.Samples),
			SampleShadingEnable:  b32(shading),
			MinSampleShading:     state.Samples.MinShading,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  b32(state.DS.DepthTest),
			DepthWriteEnable: b32(state.DS.DepthWrite),
			DepthCompareOp:   convCmpFunc(state.DS.DepthCmp),
			Front: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
			Back: vk.StencilOpState{
				FailOp:    vk.StencilOpKeep,
				PassOp:    vk.StencilOpKeep,
				CompareOp: vk.CompareOpAlways,
			},
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vk.False,
			AttachmentCount: 1,
			PAttachments:    []vk.PipelineColorBlendAttachmentState{blend},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates:    []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor},
		},
		Layout:     state.Layout.(*pipelineLayout).layout,
		RenderPass: state.Pass.(*renderPass).pass,
		Subpass:    0,
	}

	var cache vk.PipelineCache
	pls := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(d.dev, cache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pls)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &pipeline{d: d, pl: pls[0]}, nil
}

// sampleShading reports whether s requires sample rate
// shading and the device was created with it.
func sampleShading(s *driver.SampleState, feats driver.Features) bool {
	return feats.SampleRateShading && s.MinShading > 0 && s.Samples > 1
}

// Destroy destroys the pipeline.
func (p *pipeline) Destroy() {
	vk.DestroyPipeline(p.d.dev, p.pl, nil)
}

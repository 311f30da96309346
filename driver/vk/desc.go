// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// descLayout implements driver.DescLayout.
type descLayout struct {
	d      *device
	layout vk.DescriptorSetLayout
}

// NewDescLayout creates a descriptor set layout.
func (d *device) NewDescLayout(binds []driver.DescBinding) (driver.DescLayout, error) {
	vbinds := make([]vk.DescriptorSetLayoutBinding, len(binds))
	for i, b := range binds {
		vbinds[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(b.Nr),
			DescriptorType:  convDescType(b.Type),
			DescriptorCount: uint32(max(b.Len, 1)),
			StageFlags:      convStage(b.Stages),
		}
	}
	var layout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(d.dev, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(vbinds)),
		PBindings:    vbinds,
	}, nil, &layout)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &descLayout{d: d, layout: layout}, nil
}

// Destroy destroys the layout.
func (l *descLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.d.dev, l.layout, nil)
}

// descPool implements driver.DescPool.
type descPool struct {
	d    *device
	pool vk.DescriptorPool
}

// NewDescPool creates a descriptor pool whose sets can be
// freed individually.
func (d *device) NewDescPool(maxSets int, sizes []driver.DescPoolSize) (driver.DescPool, error) {
	vsizes := make([]vk.DescriptorPoolSize, len(sizes))
	for i, s := range sizes {
		vsizes[i] = vk.DescriptorPoolSize{
			Type:            convDescType(s.Type),
			DescriptorCount: uint32(s.Count),
		}
	}
	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(d.dev, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       uint32(maxSets),
		PoolSizeCount: uint32(len(vsizes)),
		PPoolSizes:    vsizes,
	}, nil, &pool)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &descPool{d: d, pool: pool}, nil
}

// Destroy destroys the pool and every set allocated
// from it.
func (p *descPool) Destroy() {
	vk.DestroyDescriptorPool(p.d.dev, p.pool, nil)
}

// descSet implements driver.DescSet.
type descSet struct {
	d   *device
	set vk.DescriptorSet
}

// Alloc allocates one descriptor set.
func (p *descPool) Alloc(layout driver.DescLayout) (driver.DescSet, error) {
	sets := make([]vk.DescriptorSet, 1)
	ret := vk.AllocateDescriptorSets(p.d.dev, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.(*descLayout).layout},
	}, &sets[0])
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &descSet{d: p.d, set: sets[0]}, nil
}

// Free returns set to the pool.
func (p *descPool) Free(set driver.DescSet) error {
	return checkResult(vk.FreeDescriptorSets(p.d.dev, p.pool, 1, []vk.DescriptorSet{set.(*descSet).set}))
}

// SetBuffer writes a uniform buffer descriptor.
func (s *descSet) SetBuffer(nr int, buf driver.Buffer, off, size int64) {
	vk.UpdateDescriptorSets(s.d.dev, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.set,
		DstBinding:      uint32(nr),
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: buf.(*buffer).buf,
			Offset: vk.DeviceSize(off),
			Range:  vk.DeviceSize(size),
		}},
	}}, 0, nil)
}

// pipelineLayout implements driver.PipelineLayout.
type pipelineLayout struct {
	d      *device
	layout vk.PipelineLayout
}

// NewPipelineLayout creates a pipeline layout.
func (d *device) NewPipelineLayout(sets []driver.DescLayout) (driver.PipelineLayout, error) {
	layouts := make([]vk.DescriptorSetLayout, len(sets))
	for i := range sets {
		layouts[i] = sets[i].(*descLayout).layout
	}
	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(d.dev, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(layouts)),
		PSetLayouts:    layouts,
	}, nil, &layout)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &pipelineLayout{d: d, layout: layout}, nil
}

// Destroy destroys the layout.
func (l *pipelineLayout) Destroy() {
	vk.DestroyPipelineLayout(l.d.dev, l.layout, nil)
}

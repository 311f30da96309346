// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	"encoding/binary"
	"errors"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// device implements driver.Device.
type device struct {
	a      *adapter
	dev    vk.Device
	queues map[int]*queue
	feats  driver.Features
}

// Destroy destroys the logical device.
func (d *device) Destroy() {
	if d.dev == nil {
		return
	}
	vk.DeviceWaitIdle(d.dev)
	vk.DestroyDevice(d.dev, nil)
	d.dev = nil
}

// Queue returns the queue of a given family.
func (d *device) Queue(family int) driver.Queue {
	q, ok := d.queues[family]
	if !ok {
		panic("vk: queue family not requested at device creation")
	}
	return q
}

// WaitIdle waits for the device to become idle.
func (d *device) WaitIdle() error {
	return checkResult(vk.DeviceWaitIdle(d.dev))
}

// memType selects a memory type allowed by typeBits that
// has every property in want.
func (d *device) memType(typeBits uint32, want vk.MemoryPropertyFlags) (uint32, bool) {
	mp := &d.a.mprop
	for i := uint32(0); i < mp.MemoryTypeCount; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		mp.MemoryTypes[i].Deref()
		if mp.MemoryTypes[i].PropertyFlags&want == want {
			return i, true
		}
	}
	return 0, false
}

// alloc allocates memory satisfying req.
// Each entry in props is tried in order.
func (d *device) alloc(req vk.MemoryRequirements, props ...vk.MemoryPropertyFlags) (vk.DeviceMemory, error) {
	var mem vk.DeviceMemory
	for _, p := range props {
		idx, ok := d.memType(req.MemoryTypeBits, p)
		if !ok {
			continue
		}
		ret := vk.AllocateMemory(d.dev, &vk.MemoryAllocateInfo{
			SType:           vk.StructureTypeMemoryAllocateInfo,
			AllocationSize:  req.Size,
			MemoryTypeIndex: idx,
		}, nil, &mem)
		return mem, checkResult(ret)
	}
	return mem, driver.ErrNoDeviceMemory
}

// errShaderSize means that SPIR-V code was not a whole
// number of words.
var errShaderSize = errors.New("vk: SPIR-V size is not a multiple of 4")

// shaderCode implements driver.ShaderCode.
type shaderCode struct {
	d   *device
	mod vk.ShaderModule
}

// NewShaderCode creates a shader module.
func (d *device) NewShaderCode(data []byte) (driver.ShaderCode, error) {
	words, err := spirvWords(data)
	if err != nil {
		return nil, err
	}
	var mod vk.ShaderModule
	ret := vk.CreateShaderModule(d.dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(data)),
		PCode:    words,
	}, nil, &mod)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &shaderCode{d: d, mod: mod}, nil
}

// Destroy destroys the shader module.
func (s *shaderCode) Destroy() {
	vk.DestroyShaderModule(s.d.dev, s.mod, nil)
}

// spirvWords converts little-endian SPIR-V bytes.
func spirvWords(data []byte) ([]uint32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errShaderSize
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return words, nil
}

// sampler implements driver.Sampler.
type sampler struct {
	d    *device
	samp vk.Sampler
}

// NewSampler creates a sampler.
// Anisotropy is enabled when MaxAniso exceeds 1.
func (d *device) NewSampler(param *driver.Sampling) (driver.Sampler, error) {
	var samp vk.Sampler
	ret := vk.CreateSampler(d.dev, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               convFilter(param.Mag),
		MinFilter:               convFilter(param.Min),
		MipmapMode:              convMipmap(param.Mipmap),
		AddressModeU:            convAddrMode(param.AddrU),
		AddressModeV:            convAddrMode(param.AddrV),
		AddressModeW:            convAddrMode(param.AddrW),
		AnisotropyEnable:        b32(param.MaxAniso > 1),
		MaxAnisotropy:           max(param.MaxAniso, 1),
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MinLod:                  param.MinLOD,
		MaxLod:                  param.MaxLOD,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
	}, nil, &samp)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &sampler{d: d, samp: samp}, nil
}

// Destroy destroys the sampler.
func (s *sampler) Destroy() {
	vk.DestroySampler(s.d.dev, s.samp, nil)
}

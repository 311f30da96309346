// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	"errors"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

var errNotVisible = errors.New("vk: buffer memory is not host visible")

// buffer implements driver.Buffer.
type buffer struct {
	d      *device
	buf    vk.Buffer
	mem    vk.DeviceMemory
	size   int64
	req    vk.MemoryRequirements
	prop   driver.MemProp
	mapped []byte
}

// NewBuffer creates a buffer and binds dedicated memory
// to it.
func (d *device) NewBuffer(size int64, usg driver.Usage, mem driver.MemProp) (driver.Buffer, error) {
	if size <= 0 {
		return nil, errors.New("vk: invalid buffer size")
	}
	var buf vk.Buffer
	ret := vk.CreateBuffer(d.dev, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       convBufUsage(usg),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buf)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.dev, buf, &req)
	req.Deref()
	dm, err := d.alloc(req, convMemProp(mem))
	if err != nil {
		vk.DestroyBuffer(d.dev, buf, nil)
		return nil, err
	}
	if err := checkResult(vk.BindBufferMemory(d.dev, buf, dm, 0)); err != nil {
		vk.FreeMemory(d.dev, dm, nil)
		vk.DestroyBuffer(d.dev, buf, nil)
		return nil, err
	}
	return &buffer{d: d, buf: buf, mem: dm, size: size, req: req, prop: mem}, nil
}

// Map maps the whole buffer.
// Mapping an already mapped buffer returns the same slice.
func (b *buffer) Map() ([]byte, error) {
	if b.prop&driver.MemHostVisible == 0 {
		return nil, errNotVisible
	}
	if b.mapped != nil {
		return b.mapped, nil
	}
	var p unsafe.Pointer
	if err := checkResult(vk.MapMemory(b.d.dev, b.mem, 0, vk.DeviceSize(b.size), 0, &p)); err != nil {
		return nil, err
	}
	b.mapped = unsafe.Slice((*byte)(p), b.size)
	return b.mapped, nil
}

// Unmap unmaps the buffer.
func (b *buffer) Unmap() {
	if b.mapped == nil {
		return
	}
	vk.UnmapMemory(b.d.dev, b.mem)
	b.mapped = nil
}

// Size returns the requested size.
func (b *buffer) Size() int64 { return b.size }

// Requirements returns the memory requirements.
func (b *buffer) Requirements() driver.MemReq {
	return driver.MemReq{Size: int64(b.req.Size), Align: int64(b.req.Alignment)}
}

// Destroy destroys the buffer and frees its memory.
func (b *buffer) Destroy() {
	if b.buf == nil {
		return
	}
	b.Unmap()
	vk.DestroyBuffer(b.d.dev, b.buf, nil)
	vk.FreeMemory(b.d.dev, b.mem, nil)
	b.buf = nil
}

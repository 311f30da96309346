// Copyright 2026 The vkview Authors. All rights reserved.

package vk

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/vkview/vkview/driver"
)

// queue implements driver.Queue.
type queue struct {
	d *device
	q vk.Queue

	// Queue operations require external synchronization.
	mu sync.Mutex
}

// Submit submits batches of command buffers.
func (q *queue) Submit(sub []driver.Submission, f driver.Fence) error {
	infos := make([]vk.SubmitInfo, len(sub))
	for i, s := range sub {
		wait := make([]vk.Semaphore, len(s.Wait))
		stages := make([]vk.PipelineStageFlags, len(s.Wait))
		for j := range s.Wait {
			wait[j] = s.Wait[j].(*semaphore).sem
			stg := driver.SColorOutput
			if j < len(s.WaitStage) {
				stg = s.WaitStage[j]
			}
			stages[j] = convSync(stg, false)
		}
		cbs := make([]vk.CommandBuffer, len(s.Cmds))
		for j := range s.Cmds {
			cbs[j] = s.Cmds[j].(*cmdBuffer).cb
		}
		signal := make([]vk.Semaphore, len(s.Signal))
		for j := range s.Signal {
			signal[j] = s.Signal[j].(*semaphore).sem
		}
		infos[i] = vk.SubmitInfo{
			SType:                vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(wait)),
			PWaitSemaphores:      wait,
			PWaitDstStageMask:    stages,
			CommandBufferCount:   uint32(len(cbs)),
			PCommandBuffers:      cbs,
			SignalSemaphoreCount: uint32(len(signal)),
			PSignalSemaphores:    signal,
		}
	}
	var fence vk.Fence
	if f != nil {
		fence = f.(*fenceObj).fence
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return checkResult(vk.QueueSubmit(q.q, uint32(len(infos)), infos, fence))
}

// Present queues an image for presentation.
func (q *queue) Present(p *driver.Presentation) error {
	wait := make([]vk.Semaphore, len(p.Wait))
	for i := range p.Wait {
		wait[i] = p.Wait[i].(*semaphore).sem
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return checkResult(vk.QueuePresent(q.q, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(wait)),
		PWaitSemaphores:    wait,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{p.Swapchain.(*swapchain).sc},
		PImageIndices:      []uint32{uint32(p.Index)},
	}))
}

// WaitIdle waits for the queue to become idle.
func (q *queue) WaitIdle() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return checkResult(vk.QueueWaitIdle(q.q))
}

// semaphore implements driver.Semaphore.
type semaphore struct {
	d   *device
	sem vk.Semaphore
}

// NewSemaphore creates a binary semaphore.
func (d *device) NewSemaphore() (driver.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(d.dev, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &semaphore{d: d, sem: sem}, nil
}

// Destroy destroys the semaphore.
func (s *semaphore) Destroy() {
	vk.DestroySemaphore(s.d.dev, s.sem, nil)
}

// fenceObj implements driver.Fence.
type fenceObj struct {
	d     *device
	fence vk.Fence
}

// NewFence creates a fence.
func (d *device) NewFence(signaled bool) (driver.Fence, error) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	ret := vk.CreateFence(d.dev, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}, nil, &fence)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &fenceObj{d: d, fence: fence}, nil
}

// Wait blocks until the fence is signaled.
func (f *fenceObj) Wait() error {
	return checkResult(vk.WaitForFences(f.d.dev, 1, []vk.Fence{f.fence}, vk.True, vk.MaxUint64))
}

// Reset unsignals the fence.
func (f *fenceObj) Reset() error {
	return checkResult(vk.ResetFences(f.d.dev, 1, []vk.Fence{f.fence}))
}

// Destroy destroys the fence.
func (f *fenceObj) Destroy() {
	vk.DestroyFence(f.d.dev, f.fence, nil)
}

// cmdPool implements driver.CmdPool.
type cmdPool struct {
	d    *device
	pool vk.CommandPool
}

// NewCmdPool creates a command pool whose buffers can be
// reset individually.
func (d *device) NewCmdPool(family int) (driver.CmdPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(d.dev, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(family),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &pool)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	return &cmdPool{d: d, pool: pool}, nil
}

// Destroy destroys the pool and its command buffers.
func (p *cmdPool) Destroy() {
	vk.DestroyCommandPool(p.d.dev, p.pool, nil)
}

// Alloc allocates n primary command buffers.
func (p *cmdPool) Alloc(n int) ([]driver.CmdBuffer, error) {
	cbs := make([]vk.CommandBuffer, n)
	ret := vk.AllocateCommandBuffers(p.d.dev, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(n),
	}, cbs)
	if err := checkResult(ret); err != nil {
		return nil, err
	}
	dcbs := make([]driver.CmdBuffer, n)
	for i := range cbs {
		dcbs[i] = &cmdBuffer{d: p.d, cb: cbs[i]}
	}
	return dcbs, nil
}

// Free frees command buffers.
func (p *cmdPool) Free(cb []driver.CmdBuffer) {
	if len(cb) == 0 {
		return
	}
	cbs := make([]vk.CommandBuffer, len(cb))
	for i := range cb {
		cbs[i] = cb[i].(*cmdBuffer).cb
	}
	vk.FreeCommandBuffers(p.d.dev, p.pool, uint32(len(cbs)), cbs)
}

// cmdBuffer implements driver.CmdBuffer.
type cmdBuffer struct {
	d    *device
	cb   vk.CommandBuffer
	pass *renderPass
}

// Begin begins recording.
func (cb *cmdBuffer) Begin(oneTime bool) error {
	var flags vk.CommandBufferUsageFlags
	if oneTime {
		flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	return checkResult(vk.BeginCommandBuffer(cb.cb, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: flags,
	}))
}

// End ends recording.
func (cb *cmdBuffer) End() error {
	return checkResult(vk.EndCommandBuffer(cb.cb))
}

// Reset discards recorded commands.
func (cb *cmdBuffer) Reset() error {
	cb.pass = nil
	return checkResult(vk.ResetCommandBuffer(cb.cb, 0))
}

// BeginPass begins a render pass instance.
func (cb *cmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, width, height int, clear []driver.ClearValue) {
	p := pass.(*renderPass)
	cv := p.clearValues(clear)
	vk.CmdBeginRenderPass(cb.cb, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  p.pass,
		Framebuffer: fb.(*framebuf).fb,
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{Width: uint32(width), Height: uint32(height)},
		},
		ClearValueCount: uint32(len(cv)),
		PClearValues:    cv,
	}, vk.SubpassContentsInline)
	cb.pass = p
}

// EndPass ends the current render pass.
func (cb *cmdBuffer) EndPass() {
	vk.CmdEndRenderPass(cb.cb)
	cb.pass = nil
}

// SetPipeline binds a graphics pipeline.
func (cb *cmdBuffer) SetPipeline(pl driver.Pipeline) {
	vk.CmdBindPipeline(cb.cb, vk.PipelineBindPointGraphics, pl.(*pipeline).pl)
}

// SetViewport sets the viewport.
func (cb *cmdBuffer) SetViewport(vp driver.Viewport) {
	vk.CmdSetViewport(cb.cb, 0, 1, []vk.Viewport{{
		X:        vp.X,
		Y:        vp.Y,
		Width:    vp.Width,
		Height:   vp.Height,
		MinDepth: vp.Znear,
		MaxDepth: vp.Zfar,
	}})
}

// SetScissor sets the scissor rectangle.
func (cb *cmdBuffer) SetScissor(sciss driver.Scissor) {
	vk.CmdSetScissor(cb.cb, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: int32(sciss.X), Y: int32(sciss.Y)},
		Extent: vk.Extent2D{Width: uint32(sciss.Width), Height: uint32(sciss.Height)},
	}})
}

// SetVertexBuf binds a vertex buffer.
func (cb *cmdBuffer) SetVertexBuf(buf driver.Buffer, off int64) {
	vk.CmdBindVertexBuffers(cb.cb, 0, 1, []vk.Buffer{buf.(*buffer).buf}, []vk.DeviceSize{vk.DeviceSize(off)})
}

// SetIndexBuf binds an index buffer of uint32 indices.
func (cb *cmdBuffer) SetIndexBuf(buf driver.Buffer, off int64) {
	vk.CmdBindIndexBuffer(cb.cb, buf.(*buffer).buf, vk.DeviceSize(off), vk.IndexTypeUint32)
}

// SetDescSet binds a descriptor set at set 0.
func (cb *cmdBuffer) SetDescSet(layout driver.PipelineLayout, set driver.DescSet) {
	vk.CmdBindDescriptorSets(cb.cb, vk.PipelineBindPointGraphics, layout.(*pipelineLayout).layout,
		0, 1, []vk.DescriptorSet{set.(*descSet).set}, 0, nil)
}

// DrawIndexed draws indexed primitives.
func (cb *cmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	vk.CmdDrawIndexed(cb.cb, uint32(idxCount), uint32(instCount), uint32(baseIdx), int32(vertOff), uint32(baseInst))
}

// CopyBuffer copies data between buffers.
func (cb *cmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	vk.CmdCopyBuffer(cb.cb, param.From.(*buffer).buf, param.To.(*buffer).buf, 1, []vk.BufferCopy{{
		SrcOffset: vk.DeviceSize(param.FromOff),
		DstOffset: vk.DeviceSize(param.ToOff),
		Size:      vk.DeviceSize(param.Size),
	}})
}

// Barrier inserts buffer memory barriers.
// The stage masks are the union of every barrier's.
func (cb *cmdBuffer) Barrier(b []driver.Barrier) {
	if len(b) == 0 {
		return
	}
	var before, after driver.Sync
	bars := make([]vk.BufferMemoryBarrier, len(b))
	for i, x := range b {
		before |= x.SyncBefore
		after |= x.SyncAfter
		bars[i] = vk.BufferMemoryBarrier{
			SType:               vk.StructureTypeBufferMemoryBarrier,
			SrcAccessMask:       convAccess(x.AccessBefore),
			DstAccessMask:       convAccess(x.AccessAfter),
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Buffer:              x.Buf.(*buffer).buf,
			Size:                vk.DeviceSize(vk.WholeSize),
		}
	}
	vk.CmdPipelineBarrier(cb.cb, convSync(before, true), convSync(after, false), 0,
		0, nil, uint32(len(bars)), bars, 0, nil)
}

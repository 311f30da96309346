// Copyright 2026 The vkview Authors. All rights reserved.

package fake

import (
	"github.com/vkview/vkview/driver"
)

// semaphore implements driver.Semaphore.
type semaphore struct {
	*object
	signaled bool
}

// fence implements driver.Fence.
type fence struct {
	*object
	signaled bool
}

func (f *fence) Wait() error {
	if f.signaled {
		return nil
	}
	last := -1
	for i, s := range f.d.pending {
		if s.fence == f {
			last = i
		}
	}
	if last == -1 {
		f.d.violate("fence #%d waited without a pending submission", f.id)
		return ErrDeadlock
	}
	// Queues complete in submission order.
	f.d.complete(last + 1)
	return nil
}

func (f *fence) Reset() error {
	for _, s := range f.d.pending {
		if s.fence == f {
			return f.d.violate("reset of fence #%d in use by a pending submission", f.id)
		}
	}
	f.signaled = false
	return nil
}

// submission is work submitted to a queue that has not
// completed yet.
type submission struct {
	fence *fence
	cmds  []*cmdBuffer
}

// complete completes the first n pending submissions.
func (d *Driver) complete(n int) {
	for _, s := range d.pending[:n] {
		if s.fence != nil {
			s.fence.signaled = true
		}
		for _, cb := range s.cmds {
			if cb.oneTime {
				cb.state = cbInvalid
			} else {
				cb.state = cbExecutable
			}
		}
		d.stats.InFlight--
	}
	d.pending = d.pending[n:]
}

// completeAll completes every pending submission.
func (d *Driver) completeAll() { d.complete(len(d.pending)) }

// queue implements driver.Queue.
type queue struct {
	d      *Driver
	family int
}

func (q *queue) Submit(sub []driver.Submission, f driver.Fence) error {
	d := q.d
	s := &submission{}
	if f != nil {
		s.fence = f.(*fence)
		if s.fence.signaled {
			return d.violate("submit with signaled fence #%d", s.fence.id)
		}
		for _, p := range d.pending {
			if p.fence == s.fence {
				return d.violate("submit with fence #%d already in use", s.fence.id)
			}
		}
	}
	for _, x := range sub {
		if len(x.Wait) != len(x.WaitStage) {
			return d.violate("wait semaphores and stages differ in length")
		}
		for _, sem := range x.Wait {
			sm := sem.(*semaphore)
			if !sm.signaled {
				return d.violate("wait on semaphore #%d that has no signal pending", sm.id)
			}
			sm.signaled = false
		}
		for _, c := range x.Cmds {
			cb := c.(*cmdBuffer)
			if cb.state != cbExecutable {
				return d.violate("submit of command buffer #%d in state %d", cb.id, cb.state)
			}
			for _, op := range cb.ops {
				op()
			}
			cb.state = cbPending
			s.cmds = append(s.cmds, cb)
		}
		for _, sem := range x.Signal {
			sm := sem.(*semaphore)
			if sm.signaled {
				return d.violate("signal of semaphore #%d that is already signaled", sm.id)
			}
			sm.signaled = true
		}
	}
	d.pending = append(d.pending, s)
	d.stats.Submits++
	d.stats.InFlight++
	d.stats.MaxInFlight = max(d.stats.MaxInFlight, d.stats.InFlight)
	return nil
}

func (q *queue) Present(p *driver.Presentation) error {
	d := q.d
	for _, sem := range p.Wait {
		sm := sem.(*semaphore)
		if !sm.signaled {
			return d.violate("present waits on semaphore #%d that has no signal pending", sm.id)
		}
		sm.signaled = false
	}
	sc := p.Swapchain.(*swapchain)
	if p.Index < 0 || p.Index >= len(sc.imgs) {
		return d.violate("present of image %d out of range", p.Index)
	}
	d.stats.Presents++
	if len(d.presErr) > 0 {
		err := d.presErr[0]
		d.presErr = d.presErr[1:]
		return err
	}
	return nil
}

func (q *queue) WaitIdle() error {
	q.d.completeAll()
	return nil
}

// cmdPool implements driver.CmdPool.
type cmdPool struct{ *object }

func (p *cmdPool) Alloc(n int) ([]driver.CmdBuffer, error) {
	cbs := make([]driver.CmdBuffer, 0, n)
	for range n {
		o, err := p.d.newObject("cmdbuf")
		if err != nil {
			p.Free(cbs)
			return nil, err
		}
		cbs = append(cbs, &cmdBuffer{object: o})
	}
	return cbs, nil
}

func (p *cmdPool) Free(cbs []driver.CmdBuffer) {
	for i := len(cbs) - 1; i >= 0; i-- {
		cb := cbs[i].(*cmdBuffer)
		if cb.state == cbPending {
			p.d.violate("free of pending command buffer #%d", cb.id)
		}
		cb.Destroy()
	}
}

// Command buffer states.
const (
	cbInitial = iota
	cbRecording
	cbExecutable
	cbPending
	cbInvalid
)

// cmdBuffer implements driver.CmdBuffer.
// Commands are recorded as closures that run on submit.
type cmdBuffer struct {
	*object
	state   int
	oneTime bool
	ops     []func()

	inPass   bool
	pipeline bool
	vertex   bool
	index    bool
	descSet  bool
}

func (cb *cmdBuffer) Begin(oneTime bool) error {
	if cb.state == cbPending || cb.state == cbRecording {
		return cb.d.violate("begin of command buffer #%d in state %d", cb.id, cb.state)
	}
	*cb = cmdBuffer{object: cb.object, state: cbRecording, oneTime: oneTime}
	return nil
}

func (cb *cmdBuffer) End() error {
	if cb.state != cbRecording || cb.inPass {
		return cb.d.violate("end of command buffer #%d in state %d (in pass: %t)", cb.id, cb.state, cb.inPass)
	}
	cb.state = cbExecutable
	return nil
}

func (cb *cmdBuffer) Reset() error {
	if cb.state == cbPending {
		return cb.d.violate("reset of pending command buffer #%d", cb.id)
	}
	*cb = cmdBuffer{object: cb.object}
	return nil
}

// recording checks that cb accepts commands.
func (cb *cmdBuffer) recording(what string) bool {
	if cb.state != cbRecording {
		cb.d.violate("%s outside of recording", what)
		return false
	}
	return true
}

func (cb *cmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, width, height int, clear []driver.ClearValue) {
	if !cb.recording("BeginPass") {
		return
	}
	if cb.inPass {
		cb.d.violate("nested render pass")
		return
	}
	if pass == nil || fb == nil {
		cb.d.violate("BeginPass with nil pass or framebuffer")
	}
	cb.inPass = true
}

func (cb *cmdBuffer) EndPass() {
	if !cb.recording("EndPass") {
		return
	}
	if !cb.inPass {
		cb.d.violate("EndPass without BeginPass")
	}
	cb.inPass = false
}

func (cb *cmdBuffer) SetPipeline(driver.Pipeline) {
	if cb.recording("SetPipeline") {
		cb.pipeline = true
	}
}

func (cb *cmdBuffer) SetViewport(driver.Viewport) { cb.recording("SetViewport") }

func (cb *cmdBuffer) SetScissor(driver.Scissor) { cb.recording("SetScissor") }

func (cb *cmdBuffer) SetVertexBuf(buf driver.Buffer, _ int64) {
	if !cb.recording("SetVertexBuf") {
		return
	}
	if buf.(*buffer).usg&driver.UVertexData == 0 {
		cb.d.violate("vertex buffer #%d lacks UVertexData", buf.(*buffer).id)
	}
	cb.vertex = true
}

func (cb *cmdBuffer) SetIndexBuf(buf driver.Buffer, _ int64) {
	if !cb.recording("SetIndexBuf") {
		return
	}
	if buf.(*buffer).usg&driver.UIndexData == 0 {
		cb.d.violate("index buffer #%d lacks UIndexData", buf.(*buffer).id)
	}
	cb.index = true
}

func (cb *cmdBuffer) SetDescSet(driver.PipelineLayout, driver.DescSet) {
	if cb.recording("SetDescSet") {
		cb.descSet = true
	}
}

func (cb *cmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	if !cb.recording("DrawIndexed") {
		return
	}
	if !cb.inPass || !cb.pipeline || !cb.vertex || !cb.index {
		cb.d.violate("DrawIndexed with incomplete state")
		return
	}
	cb.ops = append(cb.ops, func() { cb.d.stats.Draws++ })
}

func (cb *cmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	if !cb.recording("CopyBuffer") {
		return
	}
	if cb.inPass {
		cb.d.violate("CopyBuffer inside a render pass")
		return
	}
	from, to := param.From.(*buffer), param.To.(*buffer)
	if from.usg&driver.UCopySrc == 0 || to.usg&driver.UCopyDst == 0 {
		cb.d.violate("CopyBuffer between buffers without copy usage")
		return
	}
	if param.FromOff+param.Size > int64(len(from.data)) || param.ToOff+param.Size > int64(len(to.data)) {
		cb.d.violate("CopyBuffer out of range")
		return
	}
	p := *param
	cb.ops = append(cb.ops, func() {
		copy(to.data[p.ToOff:p.ToOff+p.Size], from.data[p.FromOff:p.FromOff+p.Size])
		cb.d.stats.Copies++
	})
}

func (cb *cmdBuffer) Barrier([]driver.Barrier) {
	if cb.recording("Barrier") && cb.inPass {
		cb.d.violate("buffer barrier inside a render pass")
	}
}

// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"errors"

	"github.com/vkview/vkview/driver"
)

// frameSync holds the per-slot synchronization objects
// and the command buffer recorded for the slot.
type frameSync struct {
	avail driver.Semaphore
	done  driver.Semaphore
	fence driver.Fence
	cb    driver.CmdBuffer
}

// FrameScheduler cycles through MaxFrame slots, bounding
// the number of frames the CPU can record ahead of the
// GPU.
type FrameScheduler struct {
	dev      driver.Device
	queue    driver.Queue
	presQ    driver.Queue
	pool     driver.CmdPool
	slots    [MaxFrame]frameSync
	slot     int
	imgFence []driver.Fence
	resized  bool
}

// Slot returns the index of the current frame slot.
func (f *FrameScheduler) Slot() int { return f.slot }

// Cmd returns the command buffer of the current slot.
func (f *FrameScheduler) Cmd() driver.CmdBuffer { return f.slots[f.slot].cb }

// NotifyResize requests recreation of the swapchain at the
// next present.
func (f *FrameScheduler) NotifyResize() { f.resized = true }

// allocCmds allocates one command buffer per slot.
func (f *FrameScheduler) allocCmds(pool driver.CmdPool) error {
	cbs, err := pool.Alloc(MaxFrame)
	if err != nil {
		return stageErr(ErrCommand, err)
	}
	f.pool = pool
	for i := range f.slots {
		f.slots[i].cb = cbs[i]
	}
	return nil
}

// freeCmds frees the command buffers.
func (f *FrameScheduler) freeCmds() {
	cbs := make([]driver.CmdBuffer, 0, MaxFrame)
	for i := range f.slots {
		if f.slots[i].cb != nil {
			cbs = append(cbs, f.slots[i].cb)
			f.slots[i].cb = nil
		}
	}
	f.pool.Free(cbs)
}

// createSync creates the semaphores and fences of every
// slot. Fences start signaled so that the first wait on
// each slot does not block.
func (f *FrameScheduler) createSync() (err error) {
	defer func() {
		if err != nil {
			f.destroySync()
			err = stageErr(ErrSyncObject, err)
		}
	}()
	for i := range f.slots {
		s := &f.slots[i]
		if s.avail, err = f.dev.NewSemaphore(); err != nil {
			s.avail = nil
			return
		}
		if s.done, err = f.dev.NewSemaphore(); err != nil {
			s.done = nil
			return
		}
		if s.fence, err = f.dev.NewFence(true); err != nil {
			s.fence = nil
			return
		}
	}
	return
}

// destroySync destroys the objects created by createSync,
// in reverse order.
func (f *FrameScheduler) destroySync() {
	for i := len(f.slots) - 1; i >= 0; i-- {
		s := &f.slots[i]
		for _, d := range []driver.Destroyer{s.fence, s.done, s.avail} {
			if d != nil {
				d.Destroy()
			}
		}
		s.avail, s.done, s.fence = nil, nil, nil
	}
	f.imgFence = nil
}

// SetImages resets the tracking of images in flight for a
// swapchain with n images.
func (f *FrameScheduler) SetImages(n int) { f.imgFence = make([]driver.Fence, n) }

// Acquire waits for the current slot to be available and
// acquires the next swapchain image.
// It returns ok == false if the swapchain is out of date,
// in which case nothing was reset and the caller must
// recreate the swapchain.
func (f *FrameScheduler) Acquire(sc driver.Swapchain) (img int, ok bool, err error) {
	s := &f.slots[f.slot]
	if err = s.fence.Wait(); err != nil {
		return -1, false, err
	}
	img, err = sc.Next(s.avail)
	switch {
	case errors.Is(err, driver.ErrOutOfDate):
		return -1, false, nil
	case err != nil && !errors.Is(err, driver.ErrSuboptimal):
		return -1, false, err
	}
	if img < 0 || img >= len(f.imgFence) {
		return -1, false, errors.New("engine: acquired image out of range")
	}
	// A previous slot may still be rendering to this image.
	if fc := f.imgFence[img]; fc != nil && fc != s.fence {
		if err = fc.Wait(); err != nil {
			return -1, false, err
		}
	}
	f.imgFence[img] = s.fence
	if err = s.fence.Reset(); err != nil {
		return -1, false, err
	}
	return img, true, nil
}

// Submit submits the current slot's command buffer.
// Execution waits for the acquired image to be available
// and signals the slot's semaphore and fence.
func (f *FrameScheduler) Submit() error {
	s := &f.slots[f.slot]
	return f.queue.Submit([]driver.Submission{{
		Wait:      []driver.Semaphore{s.avail},
		WaitStage: []driver.Sync{driver.SColorOutput},
		Cmds:      []driver.CmdBuffer{s.cb},
		Signal:    []driver.Semaphore{s.done},
	}}, s.fence)
}

// Present presents img once rendering completes and
// advances to the next slot.
// stale reports whether the swapchain must be recreated,
// either because presentation found it out of date or
// suboptimal, or because a resize was notified.
func (f *FrameScheduler) Present(sc driver.Swapchain, img int) (stale bool, err error) {
	s := &f.slots[f.slot]
	f.slot = (f.slot + 1) % MaxFrame
	err = f.presQ.Present(&driver.Presentation{
		Wait:      []driver.Semaphore{s.done},
		Swapchain: sc,
		Index:     img,
	})
	if errors.Is(err, driver.ErrOutOfDate) || errors.Is(err, driver.ErrSuboptimal) {
		stale, err = true, nil
	}
	if err != nil {
		return false, err
	}
	if f.resized {
		stale, f.resized = true, false
	}
	return stale, nil
}

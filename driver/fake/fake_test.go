// Copyright 2026 The vkview Authors. All rights reserved.

package fake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkview/vkview/driver"
)

func newDevice(t *testing.T) (*Driver, driver.Device) {
	t.Helper()
	d := New(DefaultConfig())
	require.NoError(t, d.Open())
	inst, err := d.NewInstance(&driver.InstanceParam{})
	require.NoError(t, err)
	ads, err := inst.Adapters()
	require.NoError(t, err)
	require.Len(t, ads, 1)
	dev, err := ads[0].NewDevice(&driver.DeviceParam{})
	require.NoError(t, err)
	return d, dev
}

func TestNotOpen(t *testing.T) {
	d := New(DefaultConfig())
	_, err := d.NewInstance(&driver.InstanceParam{})
	assert.ErrorIs(t, err, driver.ErrNotOpen)
}

func TestLifetime(t *testing.T) {
	d, dev := newDevice(t)
	a, err := dev.NewSemaphore()
	require.NoError(t, err)
	b, err := dev.NewFence(false)
	require.NoError(t, err)
	assert.Equal(t, 1, d.LiveKind("semaphore"))
	assert.Equal(t, 1, d.Created("fence"))

	mark := d.Mark()
	b.Destroy()
	a.Destroy()
	a.Destroy()
	assert.Len(t, d.DoubleDestroys(), 1)
	assert.Equal(t, 0, d.LiveKind("semaphore"))

	// Instance and device are still alive, so the check
	// fails until they are destroyed in reverse order.
	assert.Error(t, d.ReverseSince(mark))
	dev.Destroy()
	assert.Len(t, d.Live(), 1)
}

func TestReverseSince(t *testing.T) {
	d, dev := newDevice(t)
	x, _ := dev.NewSemaphore()
	y, _ := dev.NewSemaphore()
	mark := d.Mark()
	x.Destroy()
	y.Destroy()
	assert.Error(t, d.ReverseSince(mark))

	d, dev = newDevice(t)
	x, _ = dev.NewSemaphore()
	y, _ = dev.NewSemaphore()
	mark = d.Mark()
	y.Destroy()
	x.Destroy()
	dev.Destroy()
	inst := d.Live()
	require.Len(t, inst, 1)
	d.destroy(inst[0].ID)
	assert.NoError(t, d.ReverseSince(mark))
}

func TestFailNext(t *testing.T) {
	d, dev := newDevice(t)
	d.FailNext("buffer", nil)
	_, err := dev.NewBuffer(16, driver.UCopySrc, driver.MemHostVisible)
	assert.ErrorIs(t, err, ErrInjected)
	_, err = dev.NewBuffer(16, driver.UCopySrc, driver.MemHostVisible)
	assert.NoError(t, err)
}

func TestSubmitCopy(t *testing.T) {
	d, dev := newDevice(t)
	src, err := dev.NewBuffer(8, driver.UCopySrc, driver.MemHostVisible)
	require.NoError(t, err)
	dst, err := dev.NewBuffer(8, driver.UCopyDst|driver.UVertexData, driver.MemDeviceLocal)
	require.NoError(t, err)
	_, err = dst.Map()
	assert.Error(t, err, "device-local buffer must not be mappable")

	p, err := src.Map()
	require.NoError(t, err)
	copy(p, "abcdefgh")
	src.Unmap()

	pool, err := dev.NewCmdPool(0)
	require.NoError(t, err)
	cbs, err := pool.Alloc(1)
	require.NoError(t, err)
	require.NoError(t, cbs[0].Begin(true))
	cbs[0].CopyBuffer(&driver.BufferCopy{From: src, To: dst, Size: 8})
	require.NoError(t, cbs[0].End())

	q := dev.Queue(0)
	require.NoError(t, q.Submit([]driver.Submission{{Cmds: cbs}}, nil))
	assert.Equal(t, 1, d.Stats().InFlight)
	require.NoError(t, q.WaitIdle())
	assert.Equal(t, 0, d.Stats().InFlight)
	assert.Equal(t, []byte("abcdefgh"), Contents(dst))
	pool.Free(cbs)
	assert.Len(t, d.Violations(), 1, "only the rejected Map")
}

func TestFence(t *testing.T) {
	d, dev := newDevice(t)
	f, err := dev.NewFence(true)
	require.NoError(t, err)
	assert.NoError(t, f.Wait())

	q := dev.Queue(0)
	assert.Error(t, q.Submit(nil, f), "submit with signaled fence")
	require.NoError(t, f.Reset())
	assert.ErrorIs(t, f.Wait(), ErrDeadlock)

	require.NoError(t, q.Submit(nil, f))
	assert.Error(t, f.Reset(), "reset of pending fence")
	assert.NoError(t, f.Wait())
	assert.Equal(t, 1, d.Stats().MaxInFlight)
}

func TestAcquirePresent(t *testing.T) {
	d, dev := newDevice(t)
	sc, err := dev.NewSwapchain(&driver.SwapchainParam{Images: 3})
	require.NoError(t, err)
	sem, _ := dev.NewSemaphore()
	q := dev.Queue(0)

	d.FailAcquire(driver.ErrOutOfDate)
	_, err = sc.Next(sem)
	assert.ErrorIs(t, err, driver.ErrOutOfDate)

	for want := range 4 {
		idx, err := sc.Next(sem)
		require.NoError(t, err)
		assert.Equal(t, want%3, idx)
		d.FailPresent(driver.ErrSuboptimal)
		err = q.Present(&driver.Presentation{Wait: []driver.Semaphore{sem}, Swapchain: sc, Index: idx})
		assert.ErrorIs(t, err, driver.ErrSuboptimal)
	}
	_, err = sc.Next(sem)
	require.NoError(t, err)
	_, err = sc.Next(sem)
	assert.Error(t, err, "acquire with signaled semaphore")
	assert.Equal(t, 4, d.Stats().Presents)
}

func TestDrawValidation(t *testing.T) {
	d, dev := newDevice(t)
	pool, _ := dev.NewCmdPool(0)
	cbs, _ := pool.Alloc(1)
	cb := cbs[0]
	cb.DrawIndexed(3, 1, 0, 0, 0)
	require.NoError(t, cb.Begin(false))
	cb.DrawIndexed(3, 1, 0, 0, 0)
	assert.Len(t, d.Violations(), 2)
	assert.Error(t, func() error { cb.BeginPass(nil, nil, 1, 1, nil); return cb.End() }())
}

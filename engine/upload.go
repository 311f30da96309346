// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"errors"

	"github.com/vkview/vkview/driver"
)

// BufferPair is a host-visible client buffer and an
// optional device-local server buffer holding a copy of
// its contents.
// The server buffer is only written by copies recorded
// from the client buffer.
type BufferPair struct {
	Client driver.Buffer
	Server driver.Buffer
	Size   int64
}

// Draw returns the buffer that draw commands should use.
func (p *BufferPair) Draw() driver.Buffer {
	if p.Server != nil {
		return p.Server
	}
	return p.Client
}

// Destroy destroys both buffers.
func (p *BufferPair) Destroy() {
	if p == nil {
		return
	}
	if p.Server != nil {
		p.Server.Destroy()
	}
	if p.Client != nil {
		p.Client.Destroy()
	}
	*p = BufferPair{}
}

// Write copies data into the client buffer at off.
func (p *BufferPair) Write(off int64, data []byte) error {
	if off < 0 || off+int64(len(data)) > p.Size {
		return errors.New("engine: buffer write out of range")
	}
	b, err := p.Client.Map()
	if err != nil {
		return err
	}
	copy(b[off:], data)
	p.Client.Unmap()
	return nil
}

// RecordCopy records the copy of the client buffer into
// the server buffer, followed by a barrier that makes the
// copy visible to the given stage and access.
// It does nothing if p has no server buffer.
func (p *BufferPair) RecordCopy(cb driver.CmdBuffer, sync driver.Sync, acc driver.Access) {
	if p.Server == nil {
		return
	}
	cb.CopyBuffer(&driver.BufferCopy{From: p.Client, To: p.Server, Size: p.Size})
	cb.Barrier([]driver.Barrier{{
		SyncBefore:   driver.SCopy,
		SyncAfter:    sync,
		AccessBefore: driver.ACopyWrite,
		AccessAfter:  acc,
		Buf:          p.Server,
	}})
}

// Uploader creates buffer pairs and fills their server
// buffers through one-time command buffers.
type Uploader struct {
	dev   driver.Device
	queue driver.Queue
	pool  driver.CmdPool
}

// NewUploader creates an uploader that records commands
// from pool and submits them to queue.
func NewUploader(dev driver.Device, queue driver.Queue, pool driver.CmdPool) *Uploader {
	return &Uploader{dev, queue, pool}
}

// NewPair creates a buffer pair of the given size.
// usg is the usage of the data (UVertexData, UIndexData
// or UUniform). If server is false, only the client
// buffer is created and it is given usg directly.
func (u *Uploader) NewPair(size int64, usg driver.Usage, server bool) (p *BufferPair, err error) {
	if size <= 0 {
		return nil, &Error{ErrBuffer, errors.New("empty buffer")}
	}
	p = &BufferPair{Size: size}
	cusg := driver.UCopySrc
	if !server {
		cusg |= usg
	}
	if p.Client, err = u.dev.NewBuffer(size, cusg, driver.MemHostVisible); err != nil {
		return nil, stageErr(ErrBuffer, err)
	}
	if server {
		if p.Server, err = u.dev.NewBuffer(size, driver.UCopyDst|usg, driver.MemDeviceLocal); err != nil {
			p.Client.Destroy()
			return nil, stageErr(ErrBuffer, err)
		}
	}
	return p, nil
}

// Upload creates a buffer pair holding data.
// When server is true, the copy into the server buffer
// completes before Upload returns.
func (u *Uploader) Upload(data []byte, usg driver.Usage, server bool) (*BufferPair, error) {
	p, err := u.NewPair(int64(len(data)), usg, server)
	if err != nil {
		return nil, err
	}
	if err = p.Write(0, data); err != nil {
		p.Destroy()
		return nil, stageErr(ErrBuffer, err)
	}
	if server {
		if err = u.flush(p, usg); err != nil {
			p.Destroy()
			return nil, err
		}
	}
	return p, nil
}

// flush copies the client buffer of p into its server
// buffer and waits for completion.
func (u *Uploader) flush(p *BufferPair, usg driver.Usage) error {
	cbs, err := u.pool.Alloc(1)
	if err != nil {
		return stageErr(ErrCommand, err)
	}
	defer u.pool.Free(cbs)
	cb := cbs[0]
	if err := cb.Begin(true); err != nil {
		return stageErr(ErrCommand, err)
	}
	sync, acc := driver.SVertexInput, driver.AVertexBufRead
	switch {
	case usg&driver.UIndexData != 0:
		acc = driver.AIndexBufRead
	case usg&driver.UUniform != 0:
		sync, acc = driver.SVertexShading, driver.AUniformRead
	}
	p.RecordCopy(cb, sync, acc)
	if err := cb.End(); err != nil {
		return stageErr(ErrCommand, err)
	}
	if err := u.queue.Submit([]driver.Submission{{Cmds: cbs}}, nil); err != nil {
		return stageErr(ErrBuffer, err)
	}
	return stageErr(ErrBuffer, u.queue.WaitIdle())
}

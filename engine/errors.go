// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"errors"
)

// Stage errors. Every setup failure is reported as an
// *Error whose Kind is one of these.
var (
	ErrInstance         = errors.New("engine: failed to create instance")
	ErrNoCapableDevice  = errors.New("engine: no capable device")
	ErrDeviceCreation   = errors.New("engine: failed to create device")
	ErrSurface          = errors.New("engine: failed to create surface")
	ErrSwapchain        = errors.New("engine: failed to create swapchain")
	ErrRenderPass       = errors.New("engine: failed to create render pass")
	ErrDescriptor       = errors.New("engine: failed to create descriptors")
	ErrShaderLoad       = errors.New("engine: failed to load shader")
	ErrPipelineCreation = errors.New("engine: failed to create pipeline")
	ErrAttachment       = errors.New("engine: failed to create attachment")
	ErrCommand          = errors.New("engine: failed to create command buffers")
	ErrSampler          = errors.New("engine: failed to create sampler")
	ErrSyncObject       = errors.New("engine: failed to create synchronization objects")
	ErrBuffer           = errors.New("engine: failed to create buffer")
	ErrFrame            = errors.New("engine: failed to render frame")
)

var (
	errNotStarted = errors.New("engine: not started")
	errStarted    = errors.New("engine: already started")
	errNoScene    = errors.New("engine: no scene set")
	errNoWindow   = errors.New("engine: nil window")
)

// Error is a failure of a specific stage.
// errors.Is matches both Kind and the underlying error.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Err.Error() }

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// stageErr wraps err as a failure of the given stage.
// Errors already attributed to a stage are kept as is.
func stageErr(kind, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{kind, err}
}

// Copyright 2026 The vkview Authors. All rights reserved.

package driver

import (
	"errors"
)

// ErrCannotPresent means that the driver and/or device do not
// support presentation.
var ErrCannotPresent = errors.New("driver: presentation not supported")

// ErrWindow represents an error related to a specific window.
// This error usually indicates that a window misconfiguration
// is preventing correct operation.
var ErrWindow = errors.New("driver: window-related error")

// ErrOutOfDate means that the surface changed in such a way
// that the swapchain can no longer present to it.
// The swapchain must be recreated.
var ErrOutOfDate = errors.New("driver: swapchain out of date")

// ErrSuboptimal means that the swapchain can still present,
// but no longer matches the surface exactly.
var ErrSuboptimal = errors.New("driver: swapchain suboptimal")

// Surface is the interface that defines a presentation
// surface bound to a window.
type Surface interface {
	Destroyer
}

// Extent is a two-dimensional size in pixels.
type Extent struct {
	Width  int
	Height int
}

// SurfaceCaps describes the capabilities of a surface.
// Current.Width is -1 if the surface size is determined
// by the swapchain extent. MaxImages is 0 if there is no
// limit on the number of images.
type SurfaceCaps struct {
	MinImages int
	MaxImages int
	Current   Extent
	MinExtent Extent
	MaxExtent Extent
}

// ColorSpace is the type of presentation color spaces.
type ColorSpace int

// Color spaces.
// CSOther is a color space that has no mapping here; it
// cannot be requested.
const (
	CSRGBNonlinear ColorSpace = iota
	CSOther
	CSExtSRGBLinear
	CSExtSRGBNonlinear
	CSDisplayP3Nonlinear
	CSHDR10ST2084
	CSPassThrough
)

// SurfaceFormat pairs a pixel format with a color space.
type SurfaceFormat struct {
	Format     PixelFmt
	ColorSpace ColorSpace
}

// PresentMode is the type of presentation modes.
type PresentMode int

// Presentation modes.
const (
	PresentFIFO PresentMode = iota
	PresentFIFORelaxed
	PresentMailbox
	PresentImmediate
)

// SurfaceInfo aggregates what a device supports for a given
// surface.
type SurfaceInfo struct {
	Caps         SurfaceCaps
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// SwapchainParam describes how to create a Swapchain.
type SwapchainParam struct {
	Surface     Surface
	Images      int
	Format      SurfaceFormat
	Extent      Extent
	PresentMode PresentMode
	Usage       Usage

	// Queue families that will access the images.
	// If they differ, images are shared concurrently.
	Graphics int
	Present  int
}

// Swapchain is the interface that defines a n-buffered
// swapchain for presentation.
// To present, one calls Next to obtain the index of an
// image to target, renders into it and calls
// Queue.Present with the index.
type Swapchain interface {
	Destroyer

	// Images returns the list of images that comprises
	// the swapchain. The images are owned by the
	// swapchain; their Destroy method has no effect.
	Images() []Image

	// Next returns the index of the next writable
	// image. sem is signaled when the image is ready.
	// It may return ErrOutOfDate, in which case sem
	// is not signaled, or ErrSuboptimal along with a
	// valid index.
	Next(sem Semaphore) (int, error)
}

// Presentation describes a present request.
type Presentation struct {
	Wait      []Semaphore
	Swapchain Swapchain
	Index     int
}

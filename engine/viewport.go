// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"math"
)

// ViewportInfo describes the size of the render target.
// Coordinates are logical; pixels are coordinates scaled
// by the device pixel ratio.
type ViewportInfo struct {
	DPR         float64
	CoordWidth  int
	CoordHeight int
	PixelWidth  int
	PixelHeight int

	// UpdateCount increments on every resize and
	// RenderCount catches up when a frame applies it.
	UpdateCount uint64
	RenderCount uint64
}

// resize records new logical dimensions.
func (v *ViewportInfo) resize(width, height int, dpr float64) {
	v.CoordWidth, v.CoordHeight = width, height
	if dpr > 0 {
		v.DPR = dpr
	}
	v.UpdateCount++
}

// pending reports whether a resize was not applied yet.
func (v *ViewportInfo) pending() bool { return v.UpdateCount != v.RenderCount }

// computePixels updates the pixel dimensions.
func (v *ViewportInfo) computePixels() {
	dpr := v.DPR
	if dpr <= 0 {
		dpr = 1
	}
	v.PixelWidth = int(math.Round(dpr * float64(v.CoordWidth)))
	v.PixelHeight = int(math.Round(dpr * float64(v.CoordHeight)))
}

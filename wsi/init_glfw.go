// Copyright 2026 The vkview Authors. All rights reserved.

//go:build cgo && !nowsi

package wsi

import (
	"log/slog"
	"runtime"
)

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
	if err := initGLFW(); err != nil {
		slog.Warn("wsi: glfw unavailable", "err", err)
		initDummy()
	}
}

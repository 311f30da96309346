// Copyright 2026 The vkview Authors. All rights reserved.

//go:build !cgo || nowsi

package wsi

func init() {
	initDummy()
}

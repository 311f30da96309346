// Copyright 2026 The vkview Authors. All rights reserved.

package wsi

import (
	"errors"
)

var errMissing = errors.New("no wsi implementation")

var errNoVulkan = errors.New("no vulkan loader for wsi")

func initDummy() {
	newWindow = newWindowDummy
	dispatch = dispatchDummy
	setAppName = setAppNameDummy
	platform = None
}

func newWindowDummy(int, int, string) (Window, error) {
	return nil, errMissing
}

func dispatchDummy()         {}
func setAppNameDummy(string) {}

// Copyright 2026 The vkview Authors. All rights reserved.

// Package ctxt locates and opens the GPU driver used in
// the engine.
package ctxt

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/vkview/vkview/driver"
)

var errNoDriver = errors.New("ctxt: driver not found")

// Load attempts to open any registered driver whose name
// contains the name string. It is case insensitive.
// If name is the empty string, then all registered
// drivers are considered.
// It returns the first driver that opens successfully,
// or the last error if none does.
func Load(name string) (driver.Driver, error) {
	drivers := driver.Drivers()
	err := errNoDriver
	name = strings.ToLower(name)
	for i := range drivers {
		if !strings.Contains(strings.ToLower(drivers[i].Name()), name) {
			continue
		}
		if err = drivers[i].Open(); err != nil {
			slog.Warn("ctxt: driver failed to open", "name", drivers[i].Name(), "err", err)
			continue
		}
		return drivers[i], nil
	}
	return nil, err
}

// LoadOrAny calls Load(name) and, if it fails, tries
// every registered driver.
func LoadOrAny(name string) (driver.Driver, error) {
	drv, err := Load(name)
	if err == nil || name == "" {
		return drv, err
	}
	return Load("")
}

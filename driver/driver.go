// Copyright 2026 The vkview Authors. All rights reserved.

// Package driver defines a set of interfaces encompassing
// the explicit GPU functionality needed by a Vulkan-style
// renderer.
// Every object created through these interfaces must be
// destroyed explicitly by its creator.
package driver

import (
	"errors"
	"log/slog"
	"sync"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect.
	// Callers should assume that Open is not safe for
	// parallel execution.
	Open() error

	// NewInstance creates a new API instance.
	// The driver must be open.
	NewInstance(param *InstanceParam) (Instance, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	Close()
}

// InstanceParam describes how to create an Instance.
type InstanceParam struct {
	AppName    string
	EngineName string

	// Instance extensions required by the window
	// system.
	Extensions []string

	// Whether to enable validation layers.
	// Validation is skipped, with a warning, if
	// the layers are not installed.
	Validation bool
}

// Severity is the severity of a debug message.
type Severity int

// Debug message severities.
const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ErrNotInstalled means that a platform-specific library
// required for the driver to work is not present in the
// system.
var ErrNotInstalled = errors.New("driver: missing required library")

// ErrNotOpen means that the driver was used before a
// successful call to Open.
var ErrNotOpen = errors.New("driver: driver is not open")

// ErrNoDevice means that no suitable device could be
// found.
var ErrNoDevice = errors.New("driver: no suitable device found")

// ErrNoHostMemory means that host memory could not be
// allocated.
var ErrNoHostMemory = errors.New("driver: out of host memory")

// ErrNoDeviceMemory means that device memory could not
// be allocated.
var ErrNoDeviceMemory = errors.New("driver: out of device memory")

// ErrDeviceLost means that the logical device is no
// longer usable.
var ErrDeviceLost = errors.New("driver: device lost")

// ErrFatal means that the driver is in an unrecoverable
// state. Upon encountering such an error, the application
// must destroy everything that it created using the
// driver and then call the Close method.
var ErrFatal = errors.New("driver: fatal error")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, and then
// call this function. As such, drivers that do not
// register themselves on init will not be considered
// for selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// If a driver with the same name has already been
// registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			slog.Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	slog.Debug("driver registered", "name", drv.Name())
}

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers []Driver = make([]Driver, 0, 2)
)

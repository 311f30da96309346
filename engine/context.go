// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"slices"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/engine/internal/ctxt"
	"github.com/vkview/vkview/engine/internal/scope"
	"github.com/vkview/vkview/wsi"
)

// Depth formats, in order of preference.
var depthFormats = []driver.PixelFmt{driver.D32Float, driver.D32FloatS8, driver.D24UnormS8}

// DeviceContext owns the instance, the surface and the
// logical device.
type DeviceContext struct {
	drv     driver.Driver
	inst    driver.Instance
	surf    driver.Surface
	adapter driver.Adapter
	dev     driver.Device

	graphics, present int
	samples           int
	depthFmt          driver.PixelFmt
	features          driver.Features
	limits            driver.Limits
}

// Device returns the logical device.
func (c *DeviceContext) Device() driver.Device { return c.dev }

// Samples returns the sample count used for rendering.
func (c *DeviceContext) Samples() int { return c.samples }

// DepthFormat returns the depth attachment format.
func (c *DeviceContext) DepthFormat() driver.PixelFmt { return c.depthFmt }

// GraphicsQueue returns the queue used for rendering and
// uploads.
func (c *DeviceContext) GraphicsQueue() driver.Queue { return c.dev.Queue(c.graphics) }

// PresentQueue returns the queue used for presentation.
func (c *DeviceContext) PresentQueue() driver.Queue { return c.dev.Queue(c.present) }

// open loads the driver and creates the instance, the
// debug hook and the surface for win.
func (c *DeviceContext) open(config *Config, win wsi.Window, stk *scope.Stack) error {
	drv, err := ctxt.LoadOrAny(config.Driver)
	if err != nil {
		return stageErr(ErrInstance, err)
	}
	c.drv = drv
	stk.Push("driver", drv.Close)
	slog.Info("driver loaded", "name", drv.Name())

	c.inst, err = drv.NewInstance(&driver.InstanceParam{
		AppName:    config.AppName,
		EngineName: dflEngineName,
		Extensions: win.InstanceExtensions(),
		Validation: config.Validation,
	})
	if err != nil {
		return stageErr(ErrInstance, err)
	}
	stk.Push("instance", c.inst.Destroy)

	hook, err := c.inst.NewDebugHook(logValidation)
	if err != nil {
		return stageErr(ErrInstance, err)
	}
	if hook != nil {
		stk.Push("debug hook", hook.Destroy)
	}

	c.surf, err = c.inst.NewSurface(win)
	if err != nil {
		return stageErr(ErrSurface, err)
	}
	stk.Push("surface", c.surf.Destroy)
	return nil
}

// logValidation forwards validation messages to the log.
func logValidation(sev driver.Severity, msg string) {
	switch sev {
	case driver.SevError:
		slog.Error("validation", "msg", msg)
	case driver.SevWarning:
		slog.Warn("validation", "msg", msg)
	default:
		slog.Info("validation", "msg", msg)
	}
}

// Selection is the outcome of device selection.
type Selection struct {
	Adapter  driver.Adapter
	Graphics int
	Present  int
	// Highest sample count supported by both color and
	// depth attachments.
	Samples int
}

// SelectDevice returns the first adapter that can render
// to and present on s. A suitable adapter has queue
// families supporting graphics and presentation (possibly
// the same one), every extension in exts, at least one
// surface format and present mode, and anisotropic
// filtering.
func SelectDevice(ads []driver.Adapter, s driver.Surface, exts []string) (*Selection, error) {
	var reasons []error
	for _, a := range ads {
		sel, err := suitable(a, s, exts)
		if err == nil {
			slog.Info("device selected", "name", a.Name(), "graphics", sel.Graphics, "present", sel.Present, "samples", sel.Samples)
			return sel, nil
		}
		slog.Debug("device not suitable", "name", a.Name(), "err", err)
		reasons = append(reasons, fmt.Errorf("%s: %w", a.Name(), err))
	}
	return nil, &Error{ErrNoCapableDevice, errors.Join(append([]error{driver.ErrNoDevice}, reasons...)...)}
}

func suitable(a driver.Adapter, s driver.Surface, exts []string) (*Selection, error) {
	sel := &Selection{Adapter: a, Graphics: -1, Present: -1}
	for i, f := range a.QueueFamilies() {
		if f.Graphics && sel.Graphics == -1 {
			sel.Graphics = i
		}
		if sel.Present == -1 {
			ok, err := a.SupportsPresent(i, s)
			if err != nil {
				return nil, err
			}
			if ok {
				sel.Present = i
			}
		}
	}
	if sel.Graphics == -1 || sel.Present == -1 {
		return nil, errors.New("missing graphics or present queue")
	}
	avail, err := a.Extensions()
	if err != nil {
		return nil, err
	}
	for _, e := range exts {
		if !slices.Contains(avail, e) {
			return nil, fmt.Errorf("missing extension %s", e)
		}
	}
	info, err := a.SurfaceInfo(s)
	if err != nil {
		return nil, err
	}
	if len(info.Formats) == 0 || len(info.PresentModes) == 0 {
		return nil, errors.New("no surface format or present mode")
	}
	if !a.Features().SamplerAnisotropy {
		return nil, errors.New("no anisotropic filtering")
	}
	sel.Samples = maxSamples(a.Limits())
	return sel, nil
}

// maxSamples returns the highest sample count set in both
// color and depth sample masks.
func maxSamples(l driver.Limits) int {
	m := l.ColorSamples & l.DepthSamples
	if m == 0 {
		return 1
	}
	return 1 << (bits.Len(uint(m)) - 1)
}

// createDevice selects an adapter and creates the logical
// device.
func (c *DeviceContext) createDevice(config *Config, stk *scope.Stack) error {
	ads, err := c.inst.Adapters()
	if err != nil {
		return stageErr(ErrNoCapableDevice, err)
	}
	sel, err := SelectDevice(ads, c.surf, config.DeviceExtensions)
	if err != nil {
		return err
	}
	c.adapter = sel.Adapter
	c.graphics, c.present, c.samples = sel.Graphics, sel.Present, sel.Samples
	c.features = c.adapter.Features()
	c.limits = c.adapter.Limits()

	c.dev, err = c.adapter.NewDevice(&driver.DeviceParam{
		Graphics:   c.graphics,
		Present:    c.present,
		Extensions: config.DeviceExtensions,
		Features: driver.Features{
			SamplerAnisotropy: true,
			SampleRateShading: c.features.SampleRateShading,
		},
	})
	if err != nil {
		return stageErr(ErrDeviceCreation, err)
	}
	stk.Push("device", c.dev.Destroy)
	return nil
}

// selectDepth picks the first supported depth format.
func (c *DeviceContext) selectDepth() error {
	for _, pf := range depthFormats {
		if c.adapter.DepthTarget(pf) {
			c.depthFmt = pf
			return nil
		}
	}
	return &Error{ErrAttachment, errors.New("no supported depth format")}
}

// surfaceInfo queries surface support again, since the
// surface may have changed since device selection.
func (c *DeviceContext) surfaceInfo() (*driver.SurfaceInfo, error) {
	return c.adapter.SurfaceInfo(c.surf)
}

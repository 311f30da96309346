// Copyright 2026 The vkview Authors. All rights reserved.

// Package fake implements driver interfaces in memory.
// It does not render anything. Instead, it tracks every
// object's lifetime, executes buffer copies, counts work
// submitted to queues and validates the synchronization
// contract of fences and semaphores.
// It registers itself as "fake".
package fake

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/internal/bitvec"
)

const driverName = "fake"

func init() {
	driver.Register(New(DefaultConfig()))
}

// ErrDeadlock means that a fence was waited on while no
// pending submission could signal it.
var ErrDeadlock = errors.New("fake: wait on fence that will never signal")

// ErrInjected is the default error returned by creation
// failures set with FailNext.
var ErrInjected = errors.New("fake: injected failure")

// AdapterConfig describes a fake physical device.
type AdapterConfig struct {
	Name       string
	Families   []driver.QueueFamily
	Present    []bool
	Extensions []string
	Features   driver.Features
	Limits     driver.Limits

	// Formats usable as depth/stencil attachments.
	DepthFormats []driver.PixelFmt
}

// Config configures a fake Driver.
type Config struct {
	Adapters     []AdapterConfig
	Caps         driver.SurfaceCaps
	Formats      []driver.SurfaceFormat
	PresentModes []driver.PresentMode

	// Whether validation layers are missing.
	NoValidation bool
}

// DefaultAdapter returns a capable adapter with a single
// graphics/present queue family.
func DefaultAdapter() AdapterConfig {
	return AdapterConfig{
		Name:     "fake GPU",
		Families: []driver.QueueFamily{{Graphics: true, Count: 1}},
		Present:  []bool{true},
		Extensions: []string{
			"VK_KHR_swapchain",
			"VK_EXT_descriptor_indexing",
			"VK_KHR_push_descriptor",
		},
		Features: driver.Features{SamplerAnisotropy: true, SampleRateShading: true},
		Limits: driver.Limits{
			ColorSamples:  1 | 2 | 4 | 8,
			DepthSamples:  1 | 2 | 4,
			MaxAnisotropy: 16,
		},
		DepthFormats: []driver.PixelFmt{driver.D32Float, driver.D24UnormS8},
	}
}

// DefaultConfig returns a configuration with one capable
// adapter and a surface that takes its size from the
// swapchain.
func DefaultConfig() Config {
	return Config{
		Adapters: []AdapterConfig{DefaultAdapter()},
		Caps: driver.SurfaceCaps{
			MinImages: 2,
			MaxImages: 8,
			Current:   driver.Extent{Width: -1, Height: -1},
			MinExtent: driver.Extent{Width: 1, Height: 1},
			MaxExtent: driver.Extent{Width: 16384, Height: 16384},
		},
		Formats: []driver.SurfaceFormat{
			{Format: driver.BGRA8Unorm, ColorSpace: driver.CSRGBNonlinear},
			{Format: driver.RGBA8SRGB, ColorSpace: driver.CSRGBNonlinear},
		},
		PresentModes: []driver.PresentMode{driver.PresentFIFO, driver.PresentMailbox},
	}
}

// Op is the type of lifetime events.
type Op int

// Lifetime operations.
const (
	Create Op = iota
	Destroy
)

// Event is a lifetime event of an object.
type Event struct {
	Op   Op
	Kind string
	ID   int
}

func (e Event) String() string {
	if e.Op == Create {
		return fmt.Sprintf("+%s#%d", e.Kind, e.ID)
	}
	return fmt.Sprintf("-%s#%d", e.Kind, e.ID)
}

// Stats counts work executed by the fake GPU.
type Stats struct {
	Submits     int
	Draws       int
	Copies      int
	Acquires    int
	Presents    int
	InFlight    int
	MaxInFlight int
}

// Driver implements driver.Driver.
type Driver struct {
	cfg  Config
	open bool

	events []Event
	kinds  []string
	live   bitvec.V[uint64]
	twice  []Event

	stats   Stats
	pending []*submission
	fail    map[string]error
	acqErr  []error
	presErr []error
	errs    []error

	extraImages int

	devParam   driver.DeviceParam
	scParams   []driver.SwapchainParam
	graphState driver.GraphState
}

// New creates a new fake driver.
// It must be registered to be found by name.
func New(cfg Config) *Driver {
	return &Driver{cfg: cfg, fail: make(map[string]error)}
}

// Open initializes the driver.
func (d *Driver) Open() error {
	d.open = true
	return nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// Close deinitializes the driver.
func (d *Driver) Close() { d.open = false }

// NewInstance creates a new instance.
func (d *Driver) NewInstance(param *driver.InstanceParam) (driver.Instance, error) {
	if !d.open {
		return nil, driver.ErrNotOpen
	}
	id, err := d.create("instance")
	if err != nil {
		return nil, err
	}
	return &instance{d: d, id: id, validation: param.Validation && !d.cfg.NoValidation}, nil
}

// FailNext makes the next creation of an object of the given
// kind fail with err (ErrInjected if err is nil).
func (d *Driver) FailNext(kind string, err error) {
	if err == nil {
		err = ErrInjected
	}
	d.fail[kind] = err
}

// SetExtraImages makes swapchains created from now on
// have n more images than requested.
func (d *Driver) SetExtraImages(n int) { d.extraImages = n }

// FailAcquire queues err to be returned by a future
// Swapchain.Next call, one per call.
func (d *Driver) FailAcquire(err error) { d.acqErr = append(d.acqErr, err) }

// FailPresent queues err to be returned by a future
// Queue.Present call, one per call.
func (d *Driver) FailPresent(err error) { d.presErr = append(d.presErr, err) }

// Events returns the lifetime events recorded so far.
func (d *Driver) Events() []Event { return slices.Clone(d.events) }

// Mark returns a position in the event log.
func (d *Driver) Mark() int { return len(d.events) }

// Created returns how many objects of a given kind were
// created.
func (d *Driver) Created(kind string) (n int) {
	for _, e := range d.events {
		if e.Op == Create && e.Kind == kind {
			n++
		}
	}
	return
}

// Live returns the objects not yet destroyed.
func (d *Driver) Live() (live []Event) {
	for id := range d.live.Ones() {
		live = append(live, Event{Create, d.kinds[id], id})
	}
	return
}

// LiveKind returns how many objects of a given kind are
// alive.
func (d *Driver) LiveKind(kind string) (n int) {
	for id := range d.live.Ones() {
		if d.kinds[id] == kind {
			n++
		}
	}
	return
}

// DoubleDestroys returns every destruction of an object
// that was not alive.
func (d *Driver) DoubleDestroys() []Event { return slices.Clone(d.twice) }

// Violations returns usage errors detected while
// recording or submitting work.
func (d *Driver) Violations() []error { return slices.Clone(d.errs) }

// Stats returns the work counters.
func (d *Driver) Stats() Stats { return d.stats }

// DeviceParam returns the parameters of the last device
// created.
func (d *Driver) DeviceParam() driver.DeviceParam { return d.devParam }

// SwapchainParams returns the parameters of every
// swapchain created, in order.
func (d *Driver) SwapchainParams() []driver.SwapchainParam { return slices.Clone(d.scParams) }

// GraphState returns the state of the last pipeline
// created.
func (d *Driver) GraphState() driver.GraphState { return d.graphState }

// ReverseSince checks that every object alive at mark was
// destroyed after mark, in the reverse order of creation.
func (d *Driver) ReverseSince(mark int) error {
	alive := make(map[int]bool)
	var order []int
	for _, e := range d.events[:mark] {
		switch e.Op {
		case Create:
			alive[e.ID] = true
			order = append(order, e.ID)
		case Destroy:
			delete(alive, e.ID)
		}
	}
	var want []int
	for i := len(order) - 1; i >= 0; i-- {
		if alive[order[i]] {
			want = append(want, order[i])
		}
	}
	var have []int
	for _, e := range d.events[mark:] {
		if e.Op == Destroy && alive[e.ID] {
			have = append(have, e.ID)
		}
	}
	if len(have) != len(want) {
		return fmt.Errorf("fake: %d objects alive at mark, %d destroyed after it", len(want), len(have))
	}
	for i := range want {
		if have[i] != want[i] {
			return fmt.Errorf("fake: destruction %d is %s#%d, want %s#%d",
				i, d.kinds[have[i]], have[i], d.kinds[want[i]], want[i])
		}
	}
	return nil
}

// create records the creation of an object.
func (d *Driver) create(kind string) (int, error) {
	if err, ok := d.fail[kind]; ok {
		delete(d.fail, kind)
		return 0, err
	}
	id := len(d.kinds)
	d.kinds = append(d.kinds, kind)
	d.live.Fit(id)
	d.live.Set(id)
	d.events = append(d.events, Event{Create, kind, id})
	return id, nil
}

// destroy records the destruction of an object.
func (d *Driver) destroy(id int) {
	e := Event{Destroy, d.kinds[id], id}
	if !d.live.Unset(id) {
		d.twice = append(d.twice, e)
		return
	}
	d.events = append(d.events, e)
}

// violate records a usage error.
func (d *Driver) violate(format string, args ...any) error {
	err := fmt.Errorf("fake: "+format, args...)
	d.errs = append(d.errs, err)
	return err
}

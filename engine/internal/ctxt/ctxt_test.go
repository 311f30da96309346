// Copyright 2026 The vkview Authors. All rights reserved.

package ctxt

import (
	"errors"
	"testing"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/driver/fake"
)

// broken is a driver that never opens.
type broken struct{}

var errBroken = errors.New("broken: cannot open")

func (broken) Open() error { return errBroken }
func (broken) NewInstance(*driver.InstanceParam) (driver.Instance, error) {
	return nil, driver.ErrNotOpen
}
func (broken) Name() string { return "broken" }
func (broken) Close()       {}

func TestLoad(t *testing.T) {
	driver.Register(fake.New(fake.DefaultConfig()))
	driver.Register(broken{})

	drv, err := Load("FAKE")
	if err != nil || drv == nil || drv.Name() != "fake" {
		t.Fatalf("Load(\"FAKE\")\nhave %v, %v\nwant fake, nil", drv, err)
	}
	if _, err := Load("broken"); !errors.Is(err, errBroken) {
		t.Fatalf("Load(\"broken\")\nhave %v\nwant %v", err, errBroken)
	}
	if _, err := Load("missing"); !errors.Is(err, errNoDriver) {
		t.Fatalf("Load(\"missing\")\nhave %v\nwant %v", err, errNoDriver)
	}
	if drv, err := LoadOrAny("missing"); err != nil || drv.Name() != "fake" {
		t.Fatalf("LoadOrAny(\"missing\")\nhave %v, %v\nwant fake, nil", drv, err)
	}
}

// Copyright 2026 The vkview Authors. All rights reserved.

// Command vkview opens a window and renders a rotating
// cube through the engine.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vkview/vkview/engine"
	"github.com/vkview/vkview/scene"
	"github.com/vkview/vkview/wsi"

	_ "github.com/vkview/vkview/driver/vk"
)

const tickInterval = time.Second / 60

// app handles window events.
type app struct {
	eng  *engine.Engine
	quit bool
}

func (a *app) WindowClose(wsi.Window) { a.quit = true }

func (a *app) WindowResize(win wsi.Window, w, h int) {
	a.eng.Resize(w, h, win.ContentScale())
}

func main() {
	var (
		config = flag.String("config", "", "configuration file (.toml or .yaml)")
		width  = flag.Int("width", 1280, "window width")
		height = flag.Int("height", 720, "window height")
		drv    = flag.String("driver", "", "name of the driver to load")
		debug  = flag.Bool("debug", false, "log debug messages")
	)
	flag.Parse()

	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if err := run(*config, *drv, *width, *height); err != nil {
		slog.Error("vkview", "err", err)
		os.Exit(1)
	}
}

func run(path, drv string, width, height int) error {
	cfg := engine.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = engine.LoadConfig(path); err != nil {
			return err
		}
	}
	if drv != "" {
		cfg.Driver = drv
	}

	win, err := wsi.NewWindow(width, height, "vkview")
	if err != nil {
		return err
	}
	defer win.Close()
	if err := win.Map(); err != nil {
		return err
	}

	sc := scene.New()
	ctrl := scene.NewController(sc.Camera)
	wsi.SetKeyboardHandler(ctrl)
	wsi.SetPointerHandler(ctrl)

	eng := engine.New(&cfg)
	a := &app{eng: eng}
	wsi.SetWindowHandler(a)
	eng.SetScene(sc)
	if err := eng.Startup(win); err != nil {
		return err
	}
	defer eng.Destroy()

	tick := time.NewTicker(tickInterval)
	defer tick.Stop()
	for !a.quit && !win.ShouldClose() {
		<-tick.C
		wsi.Dispatch()
		ctrl.Tick()
		if err := eng.Render(); err != nil {
			return err
		}
	}
	return nil
}

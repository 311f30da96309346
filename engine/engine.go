// Copyright 2026 The vkview Authors. All rights reserved.

// Package engine implements real-time rendering of a
// scene into a window.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// The number of frames in flight.
	MaxFrame = 3

	dflAppName            = "VRczApp"
	dflEngineName         = "VRcz"
	dflDriver             = "vulkan"
	dflVertShader         = "shaders/vert.spv"
	dflFragShader         = "shaders/frag.spv"
	dflMinSampleShading   = 0.2
	dflMaxSwapchainImages = 8
)

// Config is used to configure the engine.
type Config struct {
	// Name of the application reported to the driver.
	//
	// Default is "VRczApp".
	AppName string `toml:"app_name" yaml:"app_name"`

	// Name of the driver to load. Any registered driver
	// is used if this one cannot be opened.
	//
	// Default is "vulkan".
	Driver string `toml:"driver" yaml:"driver"`

	// Whether to enable validation layers and forward
	// their messages to the log.
	//
	// Default is false.
	Validation bool `toml:"validation" yaml:"validation"`

	// Device extensions that a device must support to be
	// selected.
	//
	// Default is VK_KHR_swapchain,
	// VK_EXT_descriptor_indexing and VK_KHR_push_descriptor.
	DeviceExtensions []string `toml:"device_extensions" yaml:"device_extensions"`

	// Paths of the SPIR-V shaders.
	//
	// Default is "shaders/vert.spv" and "shaders/frag.spv".
	VertShader string `toml:"vert_shader" yaml:"vert_shader"`
	FragShader string `toml:"frag_shader" yaml:"frag_shader"`

	// Clear color of the render target.
	//
	// Default is opaque black.
	ClearColor [4]float32 `toml:"clear_color" yaml:"clear_color"`

	// Minimum fraction of sample shading.
	//
	// Default is 0.2.
	MinSampleShading float32 `toml:"min_sample_shading" yaml:"min_sample_shading"`

	// The maximum number of swapchain images.
	// It bounds the number of per-image uniform buffers
	// and descriptor sets.
	//
	// Default is 8.
	MaxSwapchainImages int `toml:"max_swapchain_images" yaml:"max_swapchain_images"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		AppName:    dflAppName,
		Driver:     dflDriver,
		Validation: false,
		DeviceExtensions: []string{
			"VK_KHR_swapchain",
			"VK_EXT_descriptor_indexing",
			"VK_KHR_push_descriptor",
		},
		VertShader:         dflVertShader,
		FragShader:         dflFragShader,
		ClearColor:         [4]float32{0, 0, 0, 1},
		MinSampleShading:   dflMinSampleShading,
		MaxSwapchainImages: dflMaxSwapchainImages,
	}
}

var cfg Config

// Configure replaces the engine's default configuration
// with config. It affects engines created afterwards.
func Configure(config *Config) {
	cfg = *config
	cfg.DeviceExtensions = append([]string(nil), config.DeviceExtensions...)
	if cfg.MaxSwapchainImages < 1 {
		cfg.MaxSwapchainImages = dflMaxSwapchainImages
	}
}

func init() {
	config := DefaultConfig()
	Configure(&config)
}

// LoadConfig reads a configuration file over the
// defaults. The format is chosen by the file extension:
// .toml, or .yaml/.yml.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return config, fmt.Errorf("engine: unknown config format %q", ext)
	}
	if err != nil {
		return config, fmt.Errorf("engine: %s: %w", path, err)
	}
	return config, nil
}

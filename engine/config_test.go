// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "VRczApp", c.AppName)
	assert.Equal(t, "vulkan", c.Driver)
	assert.False(t, c.Validation)
	assert.Len(t, c.DeviceExtensions, 3)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, c.ClearColor)
	assert.InDelta(t, 0.2, c.MinSampleShading, 1e-6)
	assert.Equal(t, 8, c.MaxSwapchainImages)
}

func TestConfigure(t *testing.T) {
	defer func() {
		c := DefaultConfig()
		Configure(&c)
	}()
	c := DefaultConfig()
	c.AppName = "test"
	c.MaxSwapchainImages = 0
	Configure(&c)
	c.DeviceExtensions[0] = "changed"

	e := New(nil)
	assert.Equal(t, "test", e.cfg.AppName)
	assert.Equal(t, dflMaxSwapchainImages, e.cfg.MaxSwapchainImages)
	assert.Equal(t, "VK_KHR_swapchain", e.cfg.DeviceExtensions[0])
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "vkview.toml", `
app_name = "viewer"
validation = true
clear_color = [0.1, 0.2, 0.3, 1.0]
max_swapchain_images = 4
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "viewer", c.AppName)
	assert.True(t, c.Validation)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, c.ClearColor)
	assert.Equal(t, 4, c.MaxSwapchainImages)
	assert.Equal(t, dflVertShader, c.VertShader, "unset fields keep their defaults")

	path = writeFile(t, "vkview.yaml", `
driver: fake
device_extensions: [VK_KHR_swapchain]
frag_shader: custom.spv
min_sample_shading: 0.5
`)
	c, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "fake", c.Driver)
	assert.Equal(t, []string{"VK_KHR_swapchain"}, c.DeviceExtensions)
	assert.Equal(t, "custom.spv", c.FragShader)
	assert.InDelta(t, 0.5, c.MinSampleShading, 1e-6)
	assert.Equal(t, dflAppName, c.AppName)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "vkview.json", "{}"))
	assert.ErrorContains(t, err, "unknown config format")

	_, err = LoadConfig(writeFile(t, "bad.toml", "app_name = "))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "bad.yml", "max_swapchain_images: many"))
	assert.Error(t, err)
}

// Copyright 2026 The vkview Authors. All rights reserved.

// Package shaders holds the GLSL sources of the engine's
// default shaders. The engine loads the compiled SPIR-V
// from shaders/vert.spv and shaders/frag.spv.
package shaders

//go:generate glslc -o vert.spv shader.vert
//go:generate glslc -o frag.spv shader.frag

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native materializes decoded images into GPU textures using
// gogpu/wgpu.
//
// The materializer either owns its GPU device (created on the first
// available Vulkan adapter) or borrows a shared device from a
// gpucontext.DeviceProvider, e.g. when embedding the viewer in a
// gogpu application. Textures are created as RGBA8UnormSrgb with
// TextureBinding|CopyDst usage and uploaded through the queue.
//
// All methods must be called from the goroutine that owns the GPU
// device, which in vrr's model is the interactive goroutine.
package native

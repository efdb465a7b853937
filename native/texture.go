// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// Texture is a GPU texture owned by a vrr layer. It implements
// vrr.Texture: once the layer cache evicts the layer, Release frees
// the GPU memory.
//
// Release is idempotent and safe for concurrent use, though in vrr's
// model only the interactive goroutine touches layers.
type Texture struct {
	mu        sync.Mutex
	device    hal.Device
	halTex    hal.Texture
	width     int
	height    int
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Release destroys the underlying GPU texture.
func (t *Texture) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return
	}
	t.destroyed = true
	t.device.DestroyTexture(t.halTex)
	t.halTex = nil
}

// IsDestroyed reports whether the texture has been released.
func (t *Texture) IsDestroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

// Raw returns the underlying texture handle, or nil after Release.
// The caller must ensure the texture is not released while the handle
// is in use.
func (t *Texture) Raw() hal.Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return nil
	}
	return t.halTex
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	"github.com/gogpu/vrr"
)

// Materializer errors.
var (
	// ErrClosed is returned when materializing after Close.
	ErrClosed = errors.New("native: materializer is closed")

	// ErrInvalidImage is returned for nil or empty decoded images.
	ErrInvalidImage = errors.New("native: invalid decoded image")
)

// Materializer turns decoded images into GPU-texture-backed layers.
// It implements vrr.Materializer.
//
// Create one per GPU device and call Materialize from the interactive
// goroutine only.
type Materializer struct {
	mu     sync.Mutex
	gpu    *gpu
	closed bool
}

// New creates a materializer that owns its GPU device, opened on the
// first available Vulkan adapter.
func New() (*Materializer, error) {
	g, err := openGPU()
	if err != nil {
		return nil, err
	}
	vrr.Logger().Info("native materializer initialized")
	return &Materializer{gpu: g}, nil
}

// NewWithProvider creates a materializer on a shared GPU device, e.g.
// the one driving the application window. The provider must expose
// HAL access (gogpu's providers do). The device is not closed by
// [Materializer.Close].
func NewWithProvider(provider gpucontext.DeviceProvider) (*Materializer, error) {
	g, err := borrowGPU(provider)
	if err != nil {
		return nil, err
	}
	vrr.Logger().Info("native materializer initialized", "device", "shared")
	return &Materializer{gpu: g}, nil
}

// Materialize uploads the decoded pixels into a new sRGB texture and
// wraps it in a layer.
func (m *Materializer) Materialize(img *vrr.DecodedImage) (*vrr.Layer, error) {
	if img == nil || img.Pix == nil {
		return nil, ErrInvalidImage
	}
	w, h := img.Width(), img.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImage, w, h)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	desc := &hal.TextureDescriptor{
		Label: img.Ref.Path,
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8UnormSrgb,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
	halTex, err := m.gpu.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("native: create texture: %w", err)
	}

	dst := &hal.ImageCopyTexture{
		Texture:  halTex,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   gputypes.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(4 * w),
		RowsPerImage: uint32(h),
	}
	size := &hal.Extent3D{
		Width:              uint32(w),
		Height:             uint32(h),
		DepthOrArrayLayers: 1,
	}
	m.gpu.queue.WriteTexture(dst, tightPixels(img.Pix), layout, size)

	return &vrr.Layer{
		Ref:         img.Ref,
		Resolution:  img.Resolution,
		Orientation: img.Orientation,
		Texture: &Texture{
			device: m.gpu.device,
			halTex: halTex,
			width:  w,
			height: h,
		},
	}, nil
}

// Close releases the GPU device if the materializer owns it. Layers
// already materialized stay valid until their textures are released.
func (m *Materializer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.gpu.close()
}

// tightPixels returns the image's bytes with a stride of exactly 4*w,
// copying only when the source is a sub-image or padded.
func tightPixels(src *image.NRGBA) []byte {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if src.Rect.Min == (image.Point{}) && src.Stride == w*4 {
		return src.Pix
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Copy(dst, image.Point{}, src, src.Rect, draw.Src, nil)
	return dst.Pix
}

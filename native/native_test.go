// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// mockHALDevice is a test double for hal.Device. Only the texture
// methods matter here; the rest are no-ops.
type mockHALDevice struct {
	texturesCreated   int32
	texturesDestroyed int32
}

func (d *mockHALDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	atomic.AddInt32(&d.texturesCreated, 1)
	return &mockHALTexture{width: desc.Size.Width, height: desc.Size.Height}, nil
}

func (d *mockHALDevice) DestroyTexture(_ hal.Texture) {
	atomic.AddInt32(&d.texturesDestroyed, 1)
}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateBuffer(_ *hal.BufferDescriptor) (hal.Buffer, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyBuffer(_ hal.Buffer) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateTextureView(_ hal.Texture, _ *hal.TextureViewDescriptor) (hal.TextureView, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyTextureView(_ hal.TextureView) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateSampler(_ *hal.SamplerDescriptor) (hal.Sampler, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroySampler(_ hal.Sampler) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateBindGroupLayout(_ *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyBindGroupLayout(_ hal.BindGroupLayout) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateBindGroup(_ *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyBindGroup(_ hal.BindGroup) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreatePipelineLayout(_ *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyPipelineLayout(_ hal.PipelineLayout) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateShaderModule(_ *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyShaderModule(_ hal.ShaderModule) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateRenderPipeline(_ *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyRenderPipeline(_ hal.RenderPipeline) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateComputePipeline(_ *hal.ComputePipelineDescriptor) (hal.ComputePipeline, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyComputePipeline(_ hal.ComputePipeline) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateQuerySet(_ *hal.QuerySetDescriptor) (hal.QuerySet, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyQuerySet(_ hal.QuerySet) {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateCommandEncoder(_ *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	return nil, nil
}

func (d *mockHALDevice) MapBuffer(_ hal.Buffer, _, _ uint64) (hal.BufferMapping, error) {
	return hal.BufferMapping{}, nil
}
func (d *mockHALDevice) UnmapBuffer(_ hal.Buffer) error { return nil }

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateRenderBundleEncoder(_ *hal.RenderBundleEncoderDescriptor) (hal.RenderBundleEncoder, error) {
	return nil, nil
}
func (d *mockHALDevice) DestroyRenderBundle(_ hal.RenderBundle) {}
func (d *mockHALDevice) FreeCommandBuffer(_ hal.CommandBuffer)  {}

//nolint:nilnil // Mock: unused interface methods.
func (d *mockHALDevice) CreateFence() (hal.Fence, error)          { return nil, nil }
func (d *mockHALDevice) DestroyFence(_ hal.Fence)                 {}
func (d *mockHALDevice) ResetFence(_ hal.Fence) error             { return nil }
func (d *mockHALDevice) GetFenceStatus(_ hal.Fence) (bool, error) { return true, nil }
func (d *mockHALDevice) WaitIdle() error                          { return nil }
func (d *mockHALDevice) Wait(_ hal.Fence, _ uint64, _ time.Duration) (bool, error) {
	return true, nil
}
func (d *mockHALDevice) Destroy() {}

// mockHALTexture is a test double for hal.Texture.
type mockHALTexture struct {
	width  uint32
	height uint32
}

func (t *mockHALTexture) Destroy()                            {}
func (t *mockHALTexture) NativeHandle() uintptr               { return 0 }
func (t *mockHALTexture) CurrentUsage() gputypes.TextureUsage { return 0 }
func (t *mockHALTexture) AddPendingRef()                      {}
func (t *mockHALTexture) DecPendingRef()                      {}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device             { return nil }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return 0 }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// halMockProvider additionally exposes HAL handles, the way gogpu
// providers do.
type halMockProvider struct {
	mockProvider
	dev hal.Device
}

func (m *halMockProvider) HalDevice() any { return m.dev }
func (m *halMockProvider) HalQueue() any  { return nil }

func TestTextureRelease(t *testing.T) {
	device := &mockHALDevice{}
	tex := &Texture{
		device: device,
		halTex: &mockHALTexture{width: 64, height: 32},
		width:  64,
		height: 32,
	}

	if tex.Width() != 64 || tex.Height() != 32 {
		t.Errorf("expected 64x32, got %dx%d", tex.Width(), tex.Height())
	}
	if tex.IsDestroyed() {
		t.Error("expected texture live before Release")
	}
	if tex.Raw() == nil {
		t.Error("expected a raw handle before Release")
	}

	tex.Release()
	tex.Release() // idempotent

	if !tex.IsDestroyed() {
		t.Error("expected texture destroyed after Release")
	}
	if tex.Raw() != nil {
		t.Error("expected nil raw handle after Release")
	}
	if n := atomic.LoadInt32(&device.texturesDestroyed); n != 1 {
		t.Errorf("expected exactly 1 DestroyTexture call, got %d", n)
	}
}

func TestTextureReleaseConcurrent(t *testing.T) {
	device := &mockHALDevice{}
	tex := &Texture{
		device: device,
		halTex: &mockHALTexture{width: 8, height: 8},
		width:  8,
		height: 8,
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tex.Release()
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&device.texturesDestroyed); n != 1 {
		t.Errorf("expected exactly 1 DestroyTexture call under races, got %d", n)
	}
}

func TestBorrowGPUNilProvider(t *testing.T) {
	if _, err := borrowGPU(nil); !errors.Is(err, ErrNilProvider) {
		t.Errorf("expected ErrNilProvider, got %v", err)
	}
}

func TestBorrowGPUWithoutHALAccess(t *testing.T) {
	if _, err := borrowGPU(&mockProvider{}); !errors.Is(err, ErrNoHALAccess) {
		t.Errorf("expected ErrNoHALAccess, got %v", err)
	}
}

func TestBorrowGPUNilQueue(t *testing.T) {
	p := &halMockProvider{dev: &mockHALDevice{}}
	if _, err := borrowGPU(p); !errors.Is(err, ErrNoHALAccess) {
		t.Errorf("expected ErrNoHALAccess for a missing queue, got %v", err)
	}
}

func TestBorrowedGPUNotClosed(t *testing.T) {
	g := &gpu{device: &mockHALDevice{}, owned: false}
	g.close()

	if g.device == nil {
		t.Error("expected borrowed device left alone by close")
	}
}

func TestOwnedGPUClosed(t *testing.T) {
	dev := &mockHALDevice{}
	g := &gpu{device: dev, owned: true}
	g.close()

	if g.device != nil {
		t.Error("expected owned device cleared by close")
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device errors.
var (
	// ErrNoBackend is returned when no Vulkan backend is registered.
	ErrNoBackend = errors.New("native: vulkan backend not available")

	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("native: no GPU adapters found")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("native: nil DeviceProvider")

	// ErrNoHALAccess is returned when a provider does not expose HAL types.
	ErrNoHALAccess = errors.New("native: provider does not expose HAL device and queue")
)

// gpu bundles the HAL handles the materializer runs on, plus whether
// they were created here or borrowed from a provider.
type gpu struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool
}

// openGPU creates an instance on the Vulkan backend and opens a device
// on the best available adapter, preferring discrete and integrated
// GPUs over software rasterizers.
func openGPU() (*gpu, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	return &gpu{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		owned:    true,
	}, nil
}

// borrowGPU extracts HAL handles from a shared device provider. The
// provider must also expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue (the gogpu convention).
func borrowGPU(provider gpucontext.DeviceProvider) (*gpu, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}
	return &gpu{device: device, queue: queue, owned: false}, nil
}

// close releases owned handles. Borrowed handles are left alone.
func (g *gpu) close() {
	if !g.owned {
		return
	}
	if g.device != nil {
		g.device.Destroy()
		g.device = nil
		g.queue = nil
	}
	if g.instance != nil {
		g.instance.Destroy()
		g.instance = nil
	}
}

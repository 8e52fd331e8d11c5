package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/grid"
)

// deviceContext bundles the HAL device and queue with ownership. A
// host-provided device is never destroyed by the backend.
type deviceContext struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool
	adapter  string
}

// halProvider is the optional extension of gpucontext.DeviceProvider
// that exposes raw HAL handles. gogpu's context implements it.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// acquireDevice resolves the rendering device: shared from a host
// provider when one was supplied, otherwise a standalone device opened
// on the first usable adapter of the requested graphics API.
func acquireDevice(provider gpucontext.DeviceProvider, api gputypes.Backend) (*deviceContext, error) {
	if provider != nil {
		return deviceFromProvider(provider)
	}
	return openStandalone(api)
}

func deviceFromProvider(provider gpucontext.DeviceProvider) (*deviceContext, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: device provider does not expose HAL handles")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("wgpu: device provider returned no hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("wgpu: device provider returned no hal.Queue")
	}
	return &deviceContext{
		device:  device,
		queue:   queue,
		owned:   false,
		adapter: "host-provided",
	}, nil
}

func openStandalone(api gputypes.Backend) (*deviceContext, error) {
	var zero gputypes.Backend
	if api == zero {
		api = gputypes.BackendVulkan
	}
	backend, ok := hal.GetBackend(api)
	if !ok {
		return nil, fmt.Errorf("wgpu: graphics backend %v not available", api)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}

	// Prefer a real GPU over software adapters.
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
		return nil, fmt.Errorf("wgpu: open device on %s: %w", selected.Info.Name, err)
	}

	grid.Logger().Info("wgpu: device opened", "adapter", selected.Info.Name)
	return &deviceContext{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		owned:    true,
		adapter:  selected.Info.Name,
	}, nil
}

// release destroys owned resources. Safe on a partially built context.
func (dc *deviceContext) release() {
	if dc == nil || !dc.owned {
		return
	}
	if dc.device != nil {
		dc.device.Destroy()
		dc.device = nil
	}
	if dc.instance != nil {
		dc.instance.Destroy()
		dc.instance = nil
	}
	dc.queue = nil
}

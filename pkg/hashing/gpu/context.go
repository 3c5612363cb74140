package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Registers the Vulkan backend via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Context owns the instance, adapter-derived device and queue a miner
// drives its compute pipeline through. It is the portable (wgpu/WebGPU-style)
// compute handle the rest of the package builds on.
type Context struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	AdapterName string
	Backend     gputypes.Backend
	MaxWorkgroupSizeX uint32
}

// NewContext enumerates adapters on the requested backend and opens the
// first discrete GPU listed; failing that, the last integrated GPU listed;
// failing that, the first adapter enumerated, whatever its type. It returns
// the device/queue pair ready for buffer and pipeline creation.
func NewContext(backend gputypes.Backend) (*Context, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: backend unavailable", ErrNoAdapter)
	}

	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %v", ErrNoAdapter, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
		}
	}

	opened, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %v", ErrDeviceRequestFailed, err)
	}

	return &Context{
		instance:          instance,
		device:            opened.Device,
		queue:             opened.Queue,
		AdapterName:       selected.Info.Name,
		Backend:           backend,
		MaxWorkgroupSizeX: gputypes.DefaultLimits().MaxComputeWorkgroupSizeX,
	}, nil
}

// Device exposes the underlying hal.Device for buffer/pipeline construction.
func (c *Context) Device() hal.Device { return c.device }

// Queue exposes the underlying hal.Queue for writes, reads and submission.
func (c *Context) Queue() hal.Queue { return c.queue }

// Close releases the device and instance. Safe to call once.
func (c *Context) Close() {
	if c.device != nil {
		c.device.Destroy()
		c.device = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}

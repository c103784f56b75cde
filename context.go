package pixelgrid

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// defaultTargetFormat is the color format render targets use unless a
// device provider says otherwise. It is sRGB: cell colors are linear and
// the device encodes them on write.
const defaultTargetFormat = gputypes.TextureFormatBGRA8UnormSrgb

// InstanceFactory creates HAL instances. Every wgpu/hal backend satisfies
// it, including hal/noop.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Context is an explicitly owned GPU device and queue. A window holds one,
// and several windows may share one through WithContext.
//
// Context is not safe for concurrent use.
type Context struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	format   gputypes.TextureFormat

	// owned is true when Close must destroy device and instance.
	owned bool
}

// NewContext opens a device on the Vulkan backend, preferring a discrete or
// integrated GPU.
func NewContext() (*Context, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan", ErrBackendUnavailable)
	}
	return OpenContext(backend)
}

// OpenContext creates an instance from api and opens a device on its
// preferred adapter. The returned context owns both.
func OpenContext(api InstanceFactory) (*Context, error) {
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	Logger().Info("pixelgrid: GPU device opened", "adapter", selected.Info.Name)
	return &Context{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		format:   defaultTargetFormat,
		owned:    true,
	}, nil
}

// NewContextFromDevice wraps a device and queue owned by the caller. Close
// does not destroy them.
func NewContextFromDevice(device hal.Device, queue hal.Queue) *Context {
	return &Context{device: device, queue: queue, format: defaultTargetFormat}
}

// NewContextFromProvider borrows the device of a host application such as
// gogpu. The provider must also expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. Render targets use the provider's
// surface format.
func NewContextFromProvider(provider gpucontext.DeviceProvider) (*Context, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("pixelgrid: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("pixelgrid: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("pixelgrid: provider HalQueue is not hal.Queue")
	}
	ctx := NewContextFromDevice(device, queue)
	var undefined gputypes.TextureFormat
	if f := provider.SurfaceFormat(); f != undefined {
		ctx.format = f
	}
	Logger().Debug("pixelgrid: using shared GPU device", "format", ctx.format)
	return ctx, nil
}

// Device returns the HAL device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Format returns the color format for render targets.
func (c *Context) Format() gputypes.TextureFormat { return c.format }

// Owned reports whether Close destroys the device.
func (c *Context) Owned() bool { return c.owned }

// Close releases the device and instance if the context owns them. Safe to
// call multiple times.
func (c *Context) Close() {
	if c.owned {
		if c.device != nil {
			c.device.Destroy()
		}
		if c.instance != nil {
			c.instance.Destroy()
		}
	}
	c.device = nil
	c.queue = nil
	c.instance = nil
}

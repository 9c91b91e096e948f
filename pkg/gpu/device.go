package gpu

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/logging"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

// Device holds the WebGPU objects tied to one window surface.
type Device struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	config *wgpu.SurfaceConfiguration
}

// ParsePresentMode maps "fifo", "immediate" and "mailbox" to a
// wgpu.PresentMode.
func ParsePresentMode(s string) (wgpu.PresentMode, error) {
	switch strings.ToLower(s) {
	case "fifo", "":
		return wgpu.PresentModeFifo, nil
	case "immediate":
		return wgpu.PresentModeImmediate, nil
	case "mailbox":
		return wgpu.PresentModeMailbox, nil
	}
	return 0, fmt.Errorf("unknown present mode %q", s)
}

// NewDevice creates a surface from desc, picks an adapter compatible with
// it and configures the surface at width x height.
func NewDevice(desc *wgpu.SurfaceDescriptor, width, height int, mode wgpu.PresentMode) (*Device, error) {
	d := &Device{
		instance: wgpu.CreateInstance(nil),
	}
	d.surface = d.instance.CreateSurface(desc)

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = a

	info := a.GetInfo()
	logging.Logger().Info("gpu adapter", "name", info.Name, "backend", info.BackendType)

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "viewer_device",
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	caps := d.surface.GetCapabilities(d.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		d.Release()
		return nil, fmt.Errorf("surface is not supported by the adapter")
	}
	d.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(types.AtLeast(width, 1)),
		Height:      uint32(types.AtLeast(height, 1)),
		PresentMode: mode,
		AlphaMode:   caps.AlphaModes[0],
	}
	d.configure()
	return d, nil
}

// Resize reconfigures the surface. Sizes below 1 are clamped.
func (d *Device) Resize(width, height int) {
	d.config.Width = uint32(types.AtLeast(width, 1))
	d.config.Height = uint32(types.AtLeast(height, 1))
	d.configure()
}

// Reconfigure applies the current configuration again, recovering a
// surface that went stale.
func (d *Device) Reconfigure() {
	d.configure()
}

func (d *Device) configure() {
	d.surface.Configure(d.adapter, d.device, d.config)
	logging.Logger().Info("surface configured",
		"width", d.config.Width,
		"height", d.config.Height,
		"format", d.config.Format)
}

// Format returns the surface texture format.
func (d *Device) Format() wgpu.TextureFormat {
	return d.config.Format
}

// Release frees everything in reverse creation order. Safe on a partly
// built Device.
func (d *Device) Release() {
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

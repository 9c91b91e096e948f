//go:build linux

package main

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/veandco/go-sdl2/sdl"
)

// surfaceDescriptor describes the X11 window behind w for wgpu.
func surfaceDescriptor(w *sdl.Window) (*wgpu.SurfaceDescriptor, error) {
	info, err := w.GetWMInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get window info: %w", err)
	}
	if info.Subsystem != sdl.SYSWM_X11 {
		return nil, fmt.Errorf("unsupported window system %d, run with SDL_VIDEODRIVER=x11", info.Subsystem)
	}

	x11 := info.GetX11Info()
	return &wgpu.SurfaceDescriptor{
		XlibWindow: &wgpu.SurfaceDescriptorFromXlibWindow{
			Display: x11.Display,
			Window:  uint32(x11.Window),
		},
	}, nil
}

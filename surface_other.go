//go:build !linux

package main

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/veandco/go-sdl2/sdl"
)

// TODO: Windows (HWND + HINSTANCE) and macOS (CAMetalLayer) surfaces.
func surfaceDescriptor(w *sdl.Window) (*wgpu.SurfaceDescriptor, error) {
	return nil, fmt.Errorf("window surfaces are not supported on %s", runtime.GOOS)
}

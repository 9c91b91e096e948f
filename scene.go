package main

import (
	"context"
	"errors"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/camera"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/config"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/gpu"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/logging"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/shader"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/snapshot"
)

type scene struct {
	cfg    config.Config
	window *sdl.Window
	scale  pixelScale

	device   *gpu.Device
	adapter  *gpu.WGPUAdapter
	camera   *camera.Camera
	renderer *gpu.Renderer

	// last frame could not get a surface texture
	surfaceStale bool

	// background snapshots
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newScene(window *sdl.Window, cfg config.Config) (*scene, error) {
	desc, err := surfaceDescriptor(window)
	if err != nil {
		return nil, err
	}
	mode, err := gpu.ParsePresentMode(cfg.PresentMode)
	if err != nil {
		return nil, err
	}
	src, err := shader.Load(cfg.Shader)
	if err != nil {
		return nil, err
	}

	s := &scene{cfg: cfg, window: window}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	w, h := s.drawableSize()
	s.device, err = gpu.NewDevice(desc, w, h, mode)
	if err != nil {
		s.close()
		return nil, err
	}
	s.adapter = gpu.NewAdapter(s.device)

	s.camera, err = camera.New(s.adapter, w, h, cfg.Scale, cfg.Origin)
	if err != nil {
		s.close()
		return nil, err
	}
	s.camera.SetZoom(cfg.Zoom)

	s.renderer, err = gpu.NewRenderer(s.device, s.adapter, src, s.camera.Layout())
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// drawableSize returns the window size in pixels and refreshes the
// window-to-pixel scale used for input. wgpu presents through Vulkan on
// Linux, so the Vulkan drawable size is the surface size.
func (s *scene) drawableSize() (int, int) {
	ww, wh := s.window.GetSize()
	pw, ph := s.window.VulkanGetDrawableSize()
	s.scale = newPixelScale(ww, wh, pw, ph)
	if pw <= 0 || ph <= 0 {
		return int(ww), int(wh)
	}
	return int(pw), int(ph)
}

// close is safe on a partly built scene.
func (s *scene) close() {
	s.cancel()
	s.wg.Wait()

	if s.renderer != nil {
		s.renderer.Release()
	}
	if s.camera != nil {
		s.camera.Close()
	}
	if s.adapter != nil {
		s.adapter.Release()
	}
	if s.device != nil {
		s.device.Release()
	}
}

// busy reports whether the next frame should be drawn without waiting
// for input.
func (s *scene) busy() bool {
	return s.surfaceStale || s.camera.Busy()
}

// handle applies e and reports whether the program should keep running.
func (s *scene) handle(e sdl.Event) bool {
	switch t := e.(type) {
	case *sdl.QuitEvent:
		return false
	case *sdl.KeyboardEvent:
		if t.Type != sdl.KEYDOWN || t.Repeat != 0 {
			return true
		}
		switch t.Keysym.Sym {
		case sdl.K_ESCAPE:
			return false
		case sdl.K_s:
			s.snapshot()
		}
		return true
	}

	ev, ok := translate(e, s.scale)
	if !ok {
		return true
	}
	if _, ok := ev.(camera.Resized); ok {
		// the event carries window coordinates; ask for the exact pixels
		w, h := s.drawableSize()
		ev = camera.Resized{Width: w, Height: h}
		s.device.Resize(w, h)
	}
	s.camera.Input(ev)
	return true
}

// frame uploads the camera if it changed and draws. A stale surface is
// reconfigured and retried on the next frame; other errors are fatal.
func (s *scene) frame() error {
	s.camera.Update()

	err := s.renderer.Render(s.camera.BindGroup())
	if errors.Is(err, gpu.ErrSurfaceUnavailable) {
		logging.Logger().Warn("skipping frame", "err", err)
		s.surfaceStale = true
		s.device.Reconfigure()
		return nil
	}
	if err != nil {
		return err
	}
	s.surfaceStale = false
	return nil
}

// snapshot saves the current view in the background. The goroutine only
// sees a copy of the camera state.
func (s *scene) snapshot() {
	st := s.camera.State()
	opts := snapshot.Options{
		MaxIterations: s.cfg.MaxIterations,
		Workers:       s.cfg.Workers,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := snapshot.WriteDir(s.ctx, s.cfg.SnapshotDir, st, opts); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logging.Logger().Error("snapshot failed", "err", err)
		}
	}()
}

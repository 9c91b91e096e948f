package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/camera"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/config"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/logging"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/snapshot"
)

func init() {
	// SDL video and WaitEvent must stay on the thread that did INIT_VIDEO
	runtime.LockOSThread()
}

func sdlInit(cfg config.Config) (*sdl.Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}
	sdl.StopTextInput()

	window, err := sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width), int32(cfg.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI,
	)
	if err != nil {
		sdl.Quit()
		return nil, err
	}
	return window, nil
}

func sdlClose(window *sdl.Window) {
	window.Destroy()
	sdl.Quit()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logging.Logger().Error("exiting", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(args, os.Stderr)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfg.Snapshot != "" {
		return headless(cfg)
	}

	window, err := sdlInit(cfg)
	if err != nil {
		return fmt.Errorf("failed to start SDL: %w", err)
	}
	defer sdlClose(window)

	s, err := newScene(window, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	return loop(s)
}

// headless renders the configured view to cfg.Snapshot without a window.
func headless(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := camera.NewState(float32(cfg.Width), float32(cfg.Height), cfg.Scale, cfg.Origin)
	st.SetZoom(cfg.Zoom)
	return snapshot.Write(ctx, cfg.Snapshot, st, snapshot.Options{
		MaxIterations: cfg.MaxIterations,
		Workers:       cfg.Workers,
	})
}

// loop blocks on the next event while nothing is moving and polls
// otherwise, so a still view costs no frames.
func loop(s *scene) error {
	for {
		var e sdl.Event
		if s.busy() {
			e = sdl.PollEvent()
		} else {
			// WaitEvent returns nil on some error
			e = sdl.WaitEvent()
			if e == nil {
				return fmt.Errorf("failed to wait for event: %w", sdl.GetError())
			}
		}

		for ; e != nil; e = sdl.PollEvent() {
			if !s.handle(e) {
				logging.Logger().Info("quit")
				return nil
			}
		}

		if err := s.frame(); err != nil {
			return err
		}
	}
}

// Package snapshot renders a camera view on the CPU and saves it as PNG.
//
// The image is cut into chunks that a pool of workers iterates into
// reusable buffers; a single drawer copies finished chunks into the
// image and hands the buffers back.
package snapshot

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/camera"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/logging"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

type Options struct {
	// escape time limit, at least 1
	MaxIterations int
	// goroutines iterating chunks; < 1 uses GOMAXPROCS
	Workers int
}

// Render draws st at its own pixel size.
func Render(ctx context.Context, st camera.State, opts Options) (*image.RGBA, error) {
	maxIt := uint(types.AtLeast(opts.MaxIterations, 1))
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	w, h := int(st.Width()), int(st.Height())
	min, max := st.Limits()
	p := &plane{
		minRe:  float64(min.Re),
		maxIm:  float64(max.Im),
		reStep: (float64(max.Re) - float64(min.Re)) / float64(w),
		imStep: (float64(max.Im) - float64(min.Im)) / float64(h),
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	iq := types.NewQueue[*iterateWork]()
	for _, r := range chunks(w, h) {
		iq.Send(&iterateWork{rect: r})
	}
	iq.Close()

	dq := types.NewQueue[*drawWork]()
	ibs := types.NewQueue[*iterationBuffer]()
	for i := 0; i < workers+1; i += 1 {
		ibs.Send(&iterationBuffer{})
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i += 1 {
		g.Go(func() error {
			return processIterationWork(ctx, p, maxIt, iq, dq, ibs)
		})
	}
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		dq.Close()
	}()

	for {
		dw, ok := dq.Recv()
		if !ok {
			break
		}
		drawChunk(img, dw, maxIt)
		ibs.Send(dw.iterationBuffer)
	}
	if err := <-done; err != nil {
		return nil, err
	}
	return img, nil
}

func processIterationWork(ctx context.Context, p *plane, maxIt uint, iq *types.Queue[*iterateWork], dq *types.Queue[*drawWork], ibs *types.Queue[*iterationBuffer]) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		iw, ok := iq.Recv()
		if !ok {
			return nil
		}
		ib, ok := ibs.Recv()
		if !ok {
			return nil
		}
		iterateChunk(p, iw, ib, maxIt)
		if !dq.Send(&drawWork{rect: iw.rect, iterationBuffer: ib}) {
			return nil
		}
	}
}

// Save writes img to path as PNG.
func Save(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close snapshot: %w", cerr)
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Filename names a snapshot taken at t.
func Filename(t time.Time) string {
	return t.Format("mandelbrot-20060102-150405.000") + ".png"
}

// Write renders st and saves it to path.
func Write(ctx context.Context, path string, st camera.State, opts Options) error {
	start := time.Now()
	img, err := Render(ctx, st, opts)
	if err != nil {
		return err
	}
	if err := Save(path, img); err != nil {
		return err
	}
	logging.Logger().Info("snapshot written",
		"path", path,
		"origin", st.Origin(),
		"zoom", st.Zoom(),
		"elapsed", time.Since(start))
	return nil
}

// WriteDir is Write with a timestamped file name inside dir. Returns the
// path written.
func WriteDir(ctx context.Context, dir string, st camera.State, opts Options) (string, error) {
	path := filepath.Join(dir, Filename(time.Now()))
	return path, Write(ctx, path, st, opts)
}

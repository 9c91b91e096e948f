package snapshot

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/camera"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

func TestEscapeTime(t *testing.T) {
	tests := []struct {
		name  string
		c     complex128
		limit uint
		want  uint
	}{
		{"origin never escapes", 0, 255, 255},
		{"period two cycle", -1, 255, 255},
		{"cusp", 0.25, 100, 100},
		{"far outside", 2 + 2i, 255, 1},
		{"just outside", 1, 255, 3},
		{"limit caps", 0, 10, 10},
		{"zero limit", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeTime(tt.c, tt.limit))
		})
	}
}

func TestChunksCoverImageOnce(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {128, 128}, {129, 5}, {300, 257}} {
		w, h := size[0], size[1]
		seen := make([]int, w*h)
		for _, r := range chunks(w, h) {
			assert.LessOrEqual(t, r.W, CHUNK_LENGTH)
			assert.LessOrEqual(t, r.H, CHUNK_LENGTH)
			for y := r.Y; y < r.Y+r.H; y += 1 {
				for x := r.X; x < r.X+r.W; x += 1 {
					seen[y*w+x] += 1
				}
			}
		}
		for i, n := range seen {
			require.Equal(t, 1, n, "size %v pixel %d", size, i)
		}
	}
}

func TestRender(t *testing.T) {
	st := camera.NewState(40, 30, 3, types.NewComplex(-0.5, 0))
	img, err := Render(context.Background(), st, Options{MaxIterations: 64, Workers: 2})
	require.NoError(t, err)
	require.Equal(t, 40, img.Bounds().Dx())
	require.Equal(t, 30, img.Bounds().Dy())

	// centre is inside the main cardioid
	c := img.RGBAAt(20, 15)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, [4]uint8{c.R, c.G, c.B, c.A})

	// top-left corner is near -2.5+1.5i and escapes almost at once
	c = img.RGBAAt(0, 0)
	assert.NotZero(t, c.R)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, uint8(255), c.A)
}

func TestRenderIsSymmetricAboutRealAxis(t *testing.T) {
	st := camera.NewState(64, 32, 3, types.NewComplex(-0.5, 0))
	img, err := Render(context.Background(), st, Options{MaxIterations: 50, Workers: 3})
	require.NoError(t, err)

	for y := 0; y < 16; y += 1 {
		for x := 0; x < 64; x += 1 {
			require.Equal(t, img.RGBAAt(x, y), img.RGBAAt(x, 31-y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestRenderIndependentOfWorkers(t *testing.T) {
	st := camera.NewState(300, 200, 3, types.NewComplex(-0.5, 0))
	st.ZoomAtPoint(100, 80, 1)

	one, err := Render(context.Background(), st, Options{MaxIterations: 100, Workers: 1})
	require.NoError(t, err)
	many, err := Render(context.Background(), st, Options{MaxIterations: 100, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, one.Pix, many.Pix)
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := camera.NewState(500, 500, 3, types.Complex{})
	img, err := Render(ctx, st, Options{MaxIterations: 100, Workers: 4})
	assert.Nil(t, img)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteDir(t *testing.T) {
	dir := t.TempDir()
	st := camera.NewState(20, 10, 3, types.NewComplex(-0.5, 0))

	path, err := WriteDir(context.Background(), dir, st, Options{MaxIterations: 20})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestSaveBadPath(t *testing.T) {
	st := camera.NewState(2, 2, 3, types.Complex{})
	err := Write(context.Background(), filepath.Join(t.TempDir(), "missing", "x.png"), st, Options{MaxIterations: 1})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilename(t *testing.T) {
	name := Filename(time.Date(2024, 3, 9, 14, 5, 7, 250e6, time.UTC))
	assert.Equal(t, "mandelbrot-20240309-140507.250.png", name)
	assert.True(t, strings.HasSuffix(name, ".png"))
}

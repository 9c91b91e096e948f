package main

import (
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/camera"
)

var mouseButtons = map[uint8]camera.MouseButton{
	sdl.BUTTON_LEFT:   camera.MouseLeft,
	sdl.BUTTON_RIGHT:  camera.MouseRight,
	sdl.BUTTON_MIDDLE: camera.MouseMiddle,
}

// pixelScale is the ratio of drawable pixels to window coordinates. SDL
// reports mouse positions and window sizes in window coordinates, which
// differ from pixels on HiDPI displays.
type pixelScale struct {
	x, y float64
}

var unitScale = pixelScale{1, 1}

// newPixelScale compares the window size with its drawable size. A
// zero-sized (minimised) window keeps a 1:1 scale.
func newPixelScale(windowW, windowH, drawableW, drawableH int32) pixelScale {
	if windowW <= 0 || windowH <= 0 || drawableW <= 0 || drawableH <= 0 {
		return unitScale
	}
	return pixelScale{
		x: float64(drawableW) / float64(windowW),
		y: float64(drawableH) / float64(windowH),
	}
}

func (p pixelScale) apply(x, y int32) (float64, float64) {
	return float64(x) * p.x, float64(y) * p.y
}

// translate converts the SDL events the camera understands into drawable
// pixels. Everything else reports false.
func translate(e sdl.Event, scale pixelScale) (camera.Event, bool) {
	switch t := e.(type) {
	case *sdl.MouseMotionEvent:
		x, y := scale.apply(t.X, t.Y)
		return camera.CursorMoved{X: x, Y: y}, true
	case *sdl.MouseButtonEvent:
		b, ok := mouseButtons[t.Button]
		if !ok {
			return nil, false
		}
		return camera.MouseInput{Button: b, Pressed: t.State == sdl.PRESSED}, true
	case *sdl.MouseWheelEvent:
		dx, dy := float32(t.X), float32(t.Y)
		if t.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dx, dy = -dx, -dy
		}
		return camera.MouseWheel{DX: dx, DY: dy}, true
	case *sdl.WindowEvent:
		if t.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			w, h := scale.apply(t.Data1, t.Data2)
			return camera.Resized{Width: int(math.Round(w)), Height: int(math.Round(h))}, true
		}
	}
	return nil, false
}

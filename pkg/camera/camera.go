package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/gpucore"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/logging"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

// Camera turns window input into viewport changes and keeps the GPU copy
// of the viewport in sync. It is not safe for concurrent use; hand other
// goroutines a copy from [Camera.State].
type Camera struct {
	state   State
	uniform *Uniform

	cursorPos mgl64.Vec2

	// left drag: the complex point grabbed at press time stays under the
	// cursor for the whole drag
	mouseLeftDown bool
	grabPos       mgl64.Vec2
	grabPoint     types.Complex

	// right drag: box zoom selection
	mouseRightDown bool
	selectPos      mgl64.Vec2
}

// New builds a camera for a width x height viewport showing origin at
// the centre, and allocates its uniform on a.
func New(a gpucore.Adapter, width, height int, scale float32, origin types.Complex) (*Camera, error) {
	c := &Camera{
		state: NewState(float32(width), float32(height), scale, origin),
	}
	u, err := NewUniform(a, &c.state)
	if err != nil {
		return nil, err
	}
	c.uniform = u
	return c, nil
}

// Input applies e and reports whether the camera consumed it.
func (c *Camera) Input(e Event) bool {
	switch e := e.(type) {
	case CursorMoved:
		c.cursorPos = mgl64.Vec2{e.X, e.Y}
		return true
	case MouseInput:
		return c.mouseInput(e)
	case MouseWheel:
		if e.DY == 0 {
			return false
		}
		c.state.ZoomAtPoint(c.state.width/2, c.state.height/2, e.DY)
		return true
	case Resized:
		c.Resize(e.Width, e.Height)
		return true
	}
	return false
}

func (c *Camera) mouseInput(e MouseInput) bool {
	switch e.Button {
	case MouseLeft:
		if !e.Pressed {
			c.mouseLeftDown = false
			return true
		}
		if !c.mouseLeftDown {
			c.mouseLeftDown = true
			c.grabPos = c.cursorPos
			c.grabPoint = c.pixelToPoint(c.grabPos)
		}
		return true
	case MouseRight:
		if e.Pressed {
			if !c.mouseRightDown {
				c.mouseRightDown = true
				c.selectPos = c.cursorPos
			}
			return true
		}
		if c.mouseRightDown {
			c.mouseRightDown = false
			size := c.cursorPos.Sub(c.selectPos)
			c.state.ZoomRect(float32(c.selectPos.X()), float32(c.selectPos.Y()), float32(size.X()), float32(size.Y()))
		}
		return true
	}
	return false
}

// Update runs once per frame before rendering: it re-anchors an active
// drag, then uploads the state if anything changed. Reports whether an
// upload happened.
func (c *Camera) Update() bool {
	if c.mouseLeftDown {
		current := c.pixelToPoint(c.cursorPos)
		c.state.SetOrigin(c.grabPoint.Add(c.state.origin).Sub(current))
	}
	if !c.uniform.Sync(&c.state) {
		return false
	}

	logging.Logger().Debug("camera uploaded",
		"origin", c.state.origin,
		"zoom", c.state.zoom,
		"pixel", c.state.PixelToPoint(100, 100),
		"next_pixel", c.state.PixelToPoint(101, 100))
	return true
}

// Busy reports whether the next frame may change the view even without
// new input.
func (c *Camera) Busy() bool {
	return c.mouseLeftDown || c.state.Dirty()
}

// Dragging reports whether a left-button drag is in progress.
func (c *Camera) Dragging() bool {
	return c.mouseLeftDown
}

// State returns a copy of the current viewport.
func (c *Camera) State() State {
	return c.state
}

// Resize clamps the size to at least 1x1.
func (c *Camera) Resize(width, height int) {
	c.state.Resize(float32(width), float32(height))
}

func (c *Camera) SetOrigin(origin types.Complex) {
	c.state.SetOrigin(origin)
}

func (c *Camera) MoveOrigin(dx, dy float32) {
	c.state.MoveOrigin(dx, dy)
}

func (c *Camera) SetZoom(zoom float32) {
	c.state.SetZoom(zoom)
}

func (c *Camera) ZoomAtPoint(x, y, direction float32) {
	c.state.ZoomAtPoint(x, y, direction)
}

func (c *Camera) ZoomRect(x, y, w, h float32) {
	c.state.ZoomRect(x, y, w, h)
}

func (c *Camera) Layout() gpucore.BindGroupLayoutID { return c.uniform.Layout() }
func (c *Camera) BindGroup() gpucore.BindGroupID    { return c.uniform.BindGroup() }

func (c *Camera) Close() {
	c.uniform.Close()
}

func (c *Camera) pixelToPoint(p mgl64.Vec2) types.Complex {
	return c.state.PixelToPoint(float32(p.X()), float32(p.Y()))
}

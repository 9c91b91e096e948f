package camera

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/logging"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

type keyPressed struct{}

func (keyPressed) isEvent() {}

func newTestCamera(t *testing.T) (*Camera, *spyAdapter) {
	t.Helper()
	a := newSpyAdapter()
	c, err := New(a, 800, 600, 3, types.NewComplex(-0.5, 0))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, a
}

func TestInputConsumed(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{"cursor", CursorMoved{X: 10, Y: 20}, true},
		{"left press", MouseInput{Button: MouseLeft, Pressed: true}, true},
		{"right release", MouseInput{Button: MouseRight}, true},
		{"middle", MouseInput{Button: MouseMiddle, Pressed: true}, false},
		{"wheel", MouseWheel{DY: 1}, true},
		{"horizontal wheel", MouseWheel{DX: 1}, false},
		{"resize", Resized{Width: 640, Height: 480}, true},
		{"other", keyPressed{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCamera(t)
			assert.Equal(t, tt.want, c.Input(tt.event))
		})
	}
}

func TestWheelZoomsAtCentre(t *testing.T) {
	c, _ := newTestCamera(t)
	c.Input(CursorMoved{X: 5, Y: 5})

	c.Input(MouseWheel{DY: 1})
	st := c.State()
	assert.Equal(t, float32(2), st.Zoom())
	assertPoint(t, types.NewComplex(-0.5, 0), st.Origin())

	c.Input(MouseWheel{DY: -2})
	st = c.State()
	assert.Equal(t, float32(1), st.Zoom())
}

func TestDragKeepsGrabbedPointUnderCursor(t *testing.T) {
	c, _ := newTestCamera(t)
	c.Input(CursorMoved{X: 200, Y: 150})
	st := c.State()
	grabbed := st.PixelToPoint(200, 150)

	c.Input(MouseInput{Button: MouseLeft, Pressed: true})
	assert.True(t, c.Dragging())

	for _, p := range [][2]float64{{250, 150}, {320, 90}, {10, 590}, {200, 150}} {
		c.Input(CursorMoved{X: p[0], Y: p[1]})
		c.Update()
		st = c.State()
		assertPoint(t, grabbed, st.PixelToPoint(float32(p[0]), float32(p[1])), "cursor %v", p)
	}
	assertPoint(t, types.NewComplex(-0.5, 0), st.Origin())

	// a repeated press does not move the grab point
	c.Input(CursorMoved{X: 400, Y: 300})
	c.Input(MouseInput{Button: MouseLeft, Pressed: true})
	c.Update()
	st = c.State()
	assertPoint(t, grabbed, st.PixelToPoint(400, 300))

	c.Input(MouseInput{Button: MouseLeft})
	assert.False(t, c.Dragging())
	origin := st.Origin()
	c.Input(CursorMoved{X: 0, Y: 0})
	c.Update()
	st = c.State()
	assert.Equal(t, origin, st.Origin())
}

func TestRightDragZoomsToBox(t *testing.T) {
	c, _ := newTestCamera(t)
	st := c.State()
	centre := st.PixelToPoint(300, 200)

	c.Input(CursorMoved{X: 200, Y: 150})
	c.Input(MouseInput{Button: MouseRight, Pressed: true})
	c.Input(CursorMoved{X: 400, Y: 250})
	st = c.State()
	assert.Equal(t, float32(1), st.Zoom(), "nothing happens until release")

	c.Input(MouseInput{Button: MouseRight})
	st = c.State()
	assert.Equal(t, float32(4), st.Zoom())
	assertPoint(t, centre, st.Origin())

	// a click without movement is not a selection
	c.Input(MouseInput{Button: MouseRight, Pressed: true})
	c.Input(MouseInput{Button: MouseRight})
	st = c.State()
	assert.Equal(t, float32(4), st.Zoom())
}

func TestUpdateUploadsOncePerChange(t *testing.T) {
	c, a := newTestCamera(t)
	require.Len(t, a.writes, 1)
	assert.True(t, c.Busy())

	assert.True(t, c.Update())
	assert.Len(t, a.writes, 2)
	assert.False(t, c.Busy())

	assert.False(t, c.Update())
	assert.Len(t, a.writes, 2)

	c.Input(Resized{Width: 800, Height: 600})
	assert.True(t, c.Busy())
	assert.True(t, c.Update())
	assert.Len(t, a.writes, 3)

	c.Input(CursorMoved{X: 3, Y: 4})
	assert.False(t, c.Update(), "cursor motion alone changes nothing")
	assert.Len(t, a.writes, 3)
}

func TestCameraResizeClamps(t *testing.T) {
	c, _ := newTestCamera(t)
	c.Input(Resized{Width: 0, Height: -1})
	st := c.State()
	assert.Equal(t, float32(1), st.Width())
	assert.Equal(t, float32(1), st.Height())
	assert.Less(t, st.Min().Re, st.Max().Re)
	assert.Less(t, st.Min().Im, st.Max().Im)
}

func TestUpdateLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { logging.SetLogger(nil) })

	c, _ := newTestCamera(t)
	c.Update()
	assert.Contains(t, buf.String(), "camera uploaded")
	assert.Contains(t, buf.String(), "next_pixel=")

	buf.Reset()
	c.Update()
	assert.Empty(t, buf.String())
}

func TestStateIsACopy(t *testing.T) {
	c, _ := newTestCamera(t)
	st := c.State()
	st.SetZoom(100)
	got := c.State()
	assert.Equal(t, float32(1), got.Zoom())
}

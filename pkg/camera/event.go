package camera

// Event is a window input event the camera may consume. The window layer
// translates its native events into these.
type Event interface {
	isEvent()
}

type MouseButton int

const (
	MouseLeft MouseButton = iota + 1
	MouseRight
	MouseMiddle
)

// CursorMoved reports the cursor position in window pixels.
type CursorMoved struct {
	X, Y float64
}

// MouseInput reports a button press or release.
type MouseInput struct {
	Button  MouseButton
	Pressed bool
}

// MouseWheel reports scroll in lines. Positive DY scrolls away from the
// user.
type MouseWheel struct {
	DX, DY float32
}

// Resized reports the new drawable size in pixels.
type Resized struct {
	Width, Height int
}

func (CursorMoved) isEvent() {}
func (MouseInput) isEvent()  {}
func (MouseWheel) isEvent()  {}
func (Resized) isEvent()     {}

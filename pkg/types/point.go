package types

// Recti is a pixel rectangle: origin at the top-left, W and H in pixels.
type Recti struct {
	X, Y, W, H int
}

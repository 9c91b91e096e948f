package camera

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

// StateSize is the size of the uniform blob in bytes. It matches the
// Camera struct in the fragment shader: eleven 4-byte scalars, no padding.
const StateSize = 44

// State is the camera data shared with the fragment shader. Field order
// and widths are the uniform layout; do not reorder.
//
// min and max are derived from the other fields and are recomputed by
// every mutator. needsRedraw is set by every mutator that changes the
// view and cleared only by [Uniform.Sync] after an upload.
type State struct {
	// viewport size in pixels, never below 1
	width  float32
	height float32

	// complex point shown at the exact centre of the viewport
	origin types.Complex

	// span of the complex plane across the shorter screen side at zoom 1
	scale float32

	// multiplicative zoom factor, always > 0
	zoom float32

	// complex bounds of the visible rectangle
	min types.Complex
	max types.Complex

	needsRedraw uint32
}

var _ [StateSize - unsafe.Sizeof(State{})]struct{}
var _ [unsafe.Sizeof(State{}) - StateSize]struct{}

func NewState(width, height, scale float32, origin types.Complex) State {
	s := State{
		width:       types.AtLeast(width, 1),
		height:      types.AtLeast(height, 1),
		origin:      origin,
		scale:       scale,
		zoom:        1,
		needsRedraw: 1,
	}
	s.updateLimits()
	return s
}

func (s *State) Width() float32        { return s.width }
func (s *State) Height() float32       { return s.height }
func (s *State) Origin() types.Complex { return s.origin }
func (s *State) Scale() float32        { return s.scale }
func (s *State) Zoom() float32         { return s.zoom }
func (s *State) Min() types.Complex    { return s.min }
func (s *State) Max() types.Complex    { return s.max }
func (s *State) Dirty() bool           { return s.needsRedraw != 0 }

// Limits returns the bottom-left and top-right corners of the view.
func (s *State) Limits() (types.Complex, types.Complex) { return s.min, s.max }

// Resize sets the viewport size in pixels. Sizes below 1 are clamped.
// Resizing to the current size still marks the state dirty.
func (s *State) Resize(width, height float32) {
	s.width = types.AtLeast(width, 1)
	s.height = types.AtLeast(height, 1)
	s.updateLimits()
	s.redraw()
}

// SetOrigin sets the complex point shown at the centre of the viewport.
func (s *State) SetOrigin(origin types.Complex) {
	s.origin = origin
	s.updateLimits()
	s.redraw()
}

// MoveOrigin shifts the origin by a pixel delta, scaled by the current
// complex span per pixel.
func (s *State) MoveOrigin(dx, dy float32) {
	s.SetOrigin(types.Complex{
		Re: s.origin.Re + (s.min.Re-s.max.Re)/s.width*dx,
		Im: s.origin.Im + (s.min.Im-s.max.Im)/s.height*dy,
	})
}

// SetZoom replaces the zoom factor, keeping the origin at the centre.
// Non-positive (or NaN) values are ignored, as are values too large or
// too small for float32 to resolve the view.
func (s *State) SetZoom(zoom float32) {
	if !(zoom > 0) {
		return
	}
	next := *s
	next.zoom = zoom
	next.updateLimits()
	s.commit(next)
}

// ZoomAtPoint doubles the zoom when direction > 0 and halves it when
// direction < 0, keeping the complex point under pixel (x, y) where it is
// on screen. direction == 0 does nothing, and so does a step past the
// range float32 can represent.
func (s *State) ZoomAtPoint(x, y, direction float32) {
	switch {
	case direction > 0:
		s.zoomAround(x, y, 2)
	case direction < 0:
		s.zoomAround(x, y, 0.5)
	}
}

// ZoomRect fits the pixel rectangle (x, y, w, h) to the viewport: the
// rectangle centre becomes the origin and the zoom grows until the
// rectangle's longer relative side fills the screen. Negative w or h
// select towards the top/left. Rectangles under one pixel wide or tall do
// nothing, as does a zoom past the range float32 can represent.
func (s *State) ZoomRect(x, y, w, h float32) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	if w < 1 || h < 1 {
		return
	}
	next := *s
	next.origin = s.PixelToPoint(x+w/2, y+h/2)
	next.zoom *= min(s.width/w, s.height/h)
	next.updateLimits()
	s.commit(next)
}

// PixelToPoint maps a pixel position to the complex plane by linear
// interpolation across [min, max]. Pixel y grows downwards while the
// imaginary axis grows upwards. The viewport centre maps to the origin
// exactly.
func (s *State) PixelToPoint(x, y float32) types.Complex {
	tx := x/s.width - 0.5
	ty := y/s.height - 0.5
	return types.Complex{
		Re: s.origin.Re + float32(tx*(s.max.Re-s.min.Re)),
		Im: s.origin.Im - float32(ty*(s.max.Im-s.min.Im)),
	}
}

// Marshal encodes the state in the uniform layout, little endian.
func (s *State) Marshal() []byte {
	buf := make([]byte, 0, StateSize)
	for _, f := range [...]float32{
		s.width, s.height,
		s.origin.Re, s.origin.Im,
		s.scale, s.zoom,
		s.min.Re, s.min.Im,
		s.max.Re, s.max.Im,
	} {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return binary.LittleEndian.AppendUint32(buf, s.needsRedraw)
}

func (s *State) zoomAround(x, y, factor float32) {
	next := *s
	anchor := next.PixelToPoint(x, y)
	next.zoom *= factor
	next.updateLimits()
	next.origin = next.origin.Add(anchor.Sub(next.PixelToPoint(x, y)))
	next.updateLimits()
	s.commit(next)
}

// commit replaces s with next when next is still a drawable view, and
// leaves s untouched otherwise.
func (s *State) commit(next State) {
	if !next.resolvable() {
		return
	}
	*s = next
	s.redraw()
}

// resolvable reports whether every field is finite, zoom is positive and
// the visible rectangle has a non-empty float32 span on both axes.
func (s *State) resolvable() bool {
	if !(s.zoom > 0) || !finite(s.zoom) {
		return false
	}
	for _, c := range [...]types.Complex{s.origin, s.min, s.max, s.max.Sub(s.min)} {
		if !finite(c.Re) || !finite(c.Im) {
			return false
		}
	}
	return s.min.Re < s.max.Re && s.min.Im < s.max.Im
}

func finite(f float32) bool {
	return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
}

func (s *State) redraw() {
	s.needsRedraw = 1
}

func (s *State) clean() {
	s.needsRedraw = 0
}

func (s *State) updateLimits() {
	s.min, s.max = calculateLimits(s.width, s.height, s.scale, s.origin, s.zoom)
}

// calculateLimits returns the visible rectangle. The shorter screen side
// spans exactly scale/zoom; the longer one spans proportionally more, so
// the aspect ratio is preserved.
func calculateLimits(width, height, scale float32, origin types.Complex, zoom float32) (types.Complex, types.Complex) {
	ratioX, ratioY := float32(1), height/width
	if width > height {
		ratioX, ratioY = width/height, 1
	}
	half := scale / 2 / zoom
	halfX := half * ratioX
	halfY := half * ratioY

	min := types.Complex{Re: origin.Re - halfX, Im: origin.Im - halfY}
	max := types.Complex{Re: origin.Re + halfX, Im: origin.Im + halfY}
	return min, max
}

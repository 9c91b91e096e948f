package types

import "fmt"

// Complex is a single precision complex number, laid out as two
// consecutive float32 values so it can be uploaded to the GPU as is.
type Complex struct {
	Re float32
	Im float32
}

func NewComplex(re, im float32) Complex {
	return Complex{Re: re, Im: im}
}

func (c Complex) Add(o Complex) Complex {
	return Complex{Re: c.Re + o.Re, Im: c.Im + o.Im}
}

func (c Complex) Sub(o Complex) Complex {
	return Complex{Re: c.Re - o.Re, Im: c.Im - o.Im}
}

// (a+bi)(c+di) = (ac-bd) + (ad+bc)i
func (c Complex) Mul(o Complex) Complex {
	return Complex{
		Re: float32(c.Re*o.Re) - float32(c.Im*o.Im),
		Im: float32(c.Re*o.Im) + float32(c.Im*o.Re),
	}
}

func (c Complex) String() string {
	return fmt.Sprintf("(%v%+vi)", c.Re, c.Im)
}

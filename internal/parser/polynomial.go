package parser

import "github.com/paulmach/orb"

// Polynomial is the per-element transform warping raw shape coordinates into
// reference-system coordinates.
//
// Coefficients interleave the two output axes over the terms
// x, y, x², xy, y², x³, x²y, xy², y³: even indices feed x', odd indices y'.
// Constants holds the translation for x' and y'.
//
// The zero value is the order 0 (no-op) transform.
type Polynomial struct {
	Order        int
	Coefficients []float64
	Constants    [2]float64
}

// termCount returns the number of terms per axis for order, including the
// constant term, or 0 for orders without a defined layout.
func termCount(order int) int {
	switch order {
	case 1:
		return 3
	case 2:
		return 6
	case 3:
		return 10
	}
	return 0
}

// IsIdentity reports whether Apply leaves every coordinate unchanged by construction.
func (p Polynomial) IsIdentity() bool {
	return p.Order < 1 || p.Order > 3 || len(p.Coefficients) < 2*termCount(p.Order)-2
}

// Apply evaluates the polynomial at (x, y). Unsupported orders and short
// coefficient sets return the input unchanged.
func (p Polynomial) Apply(x, y float64) (float64, float64) {
	if p.IsIdentity() {
		return x, y
	}
	m := p.Coefficients
	xo := p.Constants[0] + m[0]*x + m[2]*y
	yo := p.Constants[1] + m[1]*x + m[3]*y
	if p.Order >= 2 {
		xo += m[4]*x*x + m[6]*x*y + m[8]*y*y
		yo += m[5]*x*x + m[7]*x*y + m[9]*y*y
	}
	if p.Order == 3 {
		xo += m[10]*x*x*x + m[12]*x*x*y + m[14]*x*y*y + m[16]*y*y*y
		yo += m[11]*x*x*x + m[13]*x*x*y + m[15]*x*y*y + m[17]*y*y*y
	}
	return xo, yo
}

// ApplyPoint is Apply for an orb.Point.
func (p Polynomial) ApplyPoint(pt orb.Point) orb.Point {
	x, y := p.Apply(pt[0], pt[1])
	return orb.Point{x, y}
}

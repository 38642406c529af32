package parser

import "fmt"

const (
	xformOrderPath  = "xformMatrix.order"
	xformTermsPath  = "xformMatrix.termcount"
	xformMatrixPath = "xformMatrix.polycoefmtx"
	xformVectorPath = "xformMatrix.polycoefvector"
)

// ReadTransform reads the transform polynomial stored on an element node.
// Missing fields, orders outside 1..3 and order/term-count mismatches all
// yield the identity polynomial; most nodes carry no transform at all.
func ReadTransform(n Node) Polynomial {
	p, err := readPolynomialFields(n)
	if err != nil {
		return Polynomial{}
	}
	return p
}

func readPolynomialFields(n Node) (Polynomial, error) {
	if n == nil {
		return Polynomial{}, nil
	}
	r := fieldReader{n: n}
	order := r.int(xformOrderPath)
	terms := r.int(xformTermsPath)
	if r.err != nil {
		return Polynomial{}, r.err
	}
	want := termCount(order)
	if want == 0 || terms != want {
		return Polynomial{}, fmt.Errorf("%s: order %d with %d terms", n.Type(), order, terms)
	}

	p := Polynomial{Order: order, Coefficients: make([]float64, 2*terms-2)}
	for i := range p.Coefficients {
		p.Coefficients[i] = r.double(fmt.Sprintf("%s[%d]", xformMatrixPath, i))
	}
	for i := range p.Constants {
		p.Constants[i] = r.double(fmt.Sprintf("%s[%d]", xformVectorPath, i))
	}
	if r.err != nil {
		return Polynomial{}, r.err
	}
	return p, nil
}

package parser

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Field paths of the shape records. Each decoder reads its fields once into
// one of the structs below.
const (
	shapeCoordsPath = "coords.coords"
	pointCoordsPath = "coord.coords"
	centerXPath     = "center.x"
	centerYPath     = "center.y"
	widthPath       = "width"
	heightPath      = "height"
	semiMajorPath   = "semiMajorAxis"
	semiMinorPath   = "semiMinorAxis"
)

// fieldReader reads a run of fields from one node and keeps the first
// failure, so extraction code reads straight through and checks once.
type fieldReader struct {
	n   Node
	err error
}

func (r *fieldReader) int(path string) int {
	if r.err != nil {
		return 0
	}
	v, err := r.n.IntField(path)
	r.err = err
	return v
}

func (r *fieldReader) double(path string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.n.DoubleField(path)
	r.err = err
	return v
}

// coordArray is a flat x,y coordinate array.
type coordArray struct {
	Values []float64
}

// Len returns the number of points.
func (c coordArray) Len() int { return len(c.Values) / 2 }

// At returns point i.
func (c coordArray) At(i int) orb.Point {
	return orb.Point{c.Values[2*i], c.Values[2*i+1]}
}

// readCoordArray reads an N×2 coordinate array. The array reports its own
// dimensions at indices -2 (point count) and -1 (values per point).
func readCoordArray(n Node, path string) (coordArray, error) {
	r := fieldReader{n: n}
	count := r.int(path + "[-2]")
	width := r.int(path + "[-1]")
	if r.err != nil {
		return coordArray{}, r.err
	}
	if count <= 0 || width != 2 {
		return coordArray{}, &DimensionError{NodeType: n.Type(), Path: path, Count: count, Width: width}
	}

	values := make([]float64, count*width)
	for i := range values {
		values[i] = r.double(fmt.Sprintf("%s[%d]", path, i))
	}
	if r.err != nil {
		return coordArray{}, r.err
	}
	return coordArray{Values: values}, nil
}

type rectangleFields struct {
	Center        orb.Point
	Width, Height float64
}

func readRectangleFields(n Node) (rectangleFields, error) {
	r := fieldReader{n: n}
	f := rectangleFields{
		Center: orb.Point{r.double(centerXPath), r.double(centerYPath)},
		Width:  r.double(widthPath),
		Height: r.double(heightPath),
	}
	return f, r.err
}

type ellipseFields struct {
	Center               orb.Point
	SemiMajor, SemiMinor float64
}

func readEllipseFields(n Node) (ellipseFields, error) {
	r := fieldReader{n: n}
	f := ellipseFields{
		Center:    orb.Point{r.double(centerXPath), r.double(centerYPath)},
		SemiMajor: r.double(semiMajorPath),
		SemiMinor: r.double(semiMinorPath),
	}
	return f, r.err
}

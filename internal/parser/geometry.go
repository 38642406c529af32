package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// DefaultEllipseSteps is the number of perimeter samples used for ellipses
// when no other value is configured.
const DefaultEllipseSteps = 36

// ShapeKind identifies one of the recognized shape records.
type ShapeKind int

const (
	ShapeUnknown ShapeKind = iota
	ShapePolygon
	ShapeRectangle
	ShapeEllipse
	ShapePolyline
	ShapePoint
)

// String returns the canonical type prefix of the kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapePolygon:
		return "Polygon"
	case ShapeRectangle:
		return "Rectangle"
	case ShapeEllipse:
		return "Ellipse"
	case ShapePolyline:
		return "Polyline"
	case ShapePoint:
		return "Point"
	default:
		return "Unknown"
	}
}

// Matched in this order. Type names carry a version suffix ("Polygon2").
var shapeKinds = []ShapeKind{ShapePolygon, ShapeRectangle, ShapeEllipse, ShapePolyline, ShapePoint}

// ClassifyShape maps a node type to its shape kind by case-insensitive
// prefix, ignoring any version suffix.
func ClassifyShape(nodeType string) ShapeKind {
	for _, k := range shapeKinds {
		prefix := k.String()
		if len(nodeType) >= len(prefix) && strings.EqualFold(nodeType[:len(prefix)], prefix) {
			return k
		}
	}
	return ShapeUnknown
}

// decodeShape reads one shape node and returns its geometry in reference
// coordinates. Any missing or malformed field fails the shape only.
func decodeShape(kind ShapeKind, n Node, xf Polynomial, ellipseSteps int) (orb.Geometry, error) {
	switch kind {
	case ShapePolygon:
		return decodePolygon(n, xf)
	case ShapeRectangle:
		return decodeRectangle(n, xf)
	case ShapeEllipse:
		return decodeEllipse(n, xf, ellipseSteps)
	case ShapePolyline:
		return decodePolyline(n, xf)
	case ShapePoint:
		return decodePoint(n, xf)
	}
	return nil, &SchemaError{NodeType: n.Type()}
}

func transformCoords(c coordArray, xf Polynomial) []orb.Point {
	pts := make([]orb.Point, c.Len())
	for i := range pts {
		pts[i] = xf.ApplyPoint(c.At(i))
	}
	return pts
}

func decodePolygon(n Node, xf Polynomial) (orb.Polygon, error) {
	c, err := readCoordArray(n, shapeCoordsPath)
	if err != nil {
		return nil, err
	}
	if d := distinctPoints(c); d < 3 {
		return nil, &GeometryError{Kind: "Polygon", Reason: fmt.Sprintf("%d distinct vertices, need at least 3", d)}
	}
	ring := ensureRingClosure(orb.Ring(transformCoords(c, xf)))
	return orb.Polygon{ring}, nil
}

// distinctPoints counts unique vertices, stopping at 3.
func distinctPoints(c coordArray) int {
	var seen []orb.Point
outer:
	for i := 0; i < c.Len() && len(seen) < 3; i++ {
		p := c.At(i)
		for _, q := range seen {
			if p.Equal(q) {
				continue outer
			}
		}
		seen = append(seen, p)
	}
	return len(seen)
}

func decodePolyline(n Node, xf Polynomial) (orb.LineString, error) {
	c, err := readCoordArray(n, shapeCoordsPath)
	if err != nil {
		return nil, err
	}
	return orb.LineString(transformCoords(c, xf)), nil
}

func decodePoint(n Node, xf Polynomial) (orb.Point, error) {
	c, err := readCoordArray(n, pointCoordsPath)
	if err != nil {
		return orb.Point{}, err
	}
	if c.Len() != 1 {
		return orb.Point{}, &DimensionError{NodeType: n.Type(), Path: pointCoordsPath, Count: c.Len(), Width: 2}
	}
	return xf.ApplyPoint(c.At(0)), nil
}

// decodeRectangle emits the corners top-left, top-right, bottom-right,
// bottom-left and closes on top-left. Orientation is carried by the transform.
func decodeRectangle(n Node, xf Polynomial) (orb.Polygon, error) {
	f, err := readRectangleFields(n)
	if err != nil {
		return nil, err
	}
	left, right := f.Center[0]-f.Width/2, f.Center[0]+f.Width/2
	top, bottom := f.Center[1]+f.Height/2, f.Center[1]-f.Height/2

	ring := orb.Ring{
		xf.ApplyPoint(orb.Point{left, top}),
		xf.ApplyPoint(orb.Point{right, top}),
		xf.ApplyPoint(orb.Point{right, bottom}),
		xf.ApplyPoint(orb.Point{left, bottom}),
	}
	return orb.Polygon{append(ring, ring[0])}, nil
}

// decodeEllipse samples steps perimeter points starting at 0° and closes the
// ring at (cx+a, cy). Every sample goes through the transform on its own so a
// sheared transform warps the outline correctly.
func decodeEllipse(n Node, xf Polynomial, steps int) (orb.Polygon, error) {
	f, err := readEllipseFields(n)
	if err != nil {
		return nil, err
	}
	if steps <= 0 {
		steps = DefaultEllipseSteps
	}

	ring := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		theta := float64(i) * (2 * math.Pi / float64(steps))
		ring = append(ring, xf.ApplyPoint(orb.Point{
			f.Center[0] + f.SemiMajor*math.Cos(theta),
			f.Center[1] + f.SemiMinor*math.Sin(theta),
		}))
	}
	ring = append(ring, xf.ApplyPoint(orb.Point{f.Center[0] + f.SemiMajor, f.Center[1]}))
	return orb.Polygon{ring}, nil
}

// ensureRingClosure appends the first point when the ring is open.
func ensureRingClosure(ring orb.Ring) orb.Ring {
	if len(ring) == 0 || ring.Closed() {
		return ring
	}
	return append(ring, ring[0])
}

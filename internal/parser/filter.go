package parser

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// AttributeFilter accepts or rejects a feature by its attributes.
type AttributeFilter func(attrs map[string]interface{}) bool

// AttributeEquals matches features whose attribute equals value.
func AttributeEquals(name string, value interface{}) AttributeFilter {
	return func(attrs map[string]interface{}) bool {
		v, ok := attrs[name]
		return ok && v == value
	}
}

// AttributeContains matches features whose string attribute contains substr,
// ignoring case.
func AttributeContains(name, substr string) AttributeFilter {
	substr = strings.ToLower(substr)
	return func(attrs map[string]interface{}) bool {
		s, ok := attrs[name].(string)
		return ok && strings.Contains(strings.ToLower(s), substr)
	}
}

// Intersects reports whether geometry g shares at least one point with b.
func Intersects(g orb.Geometry, b orb.Bound) bool {
	if g == nil || !g.Bound().Intersects(b) {
		return false
	}
	switch g := g.(type) {
	case orb.Point:
		return b.Contains(g)
	case orb.MultiPoint:
		for _, p := range g {
			if b.Contains(p) {
				return true
			}
		}
		return false
	case orb.LineString:
		return pathIntersects(g, b)
	case orb.MultiLineString:
		for _, ls := range g {
			if pathIntersects(ls, b) {
				return true
			}
		}
		return false
	case orb.Ring:
		return polygonIntersects(orb.Polygon{g}, b)
	case orb.Polygon:
		return polygonIntersects(g, b)
	case orb.MultiPolygon:
		for _, p := range g {
			if polygonIntersects(p, b) {
				return true
			}
		}
		return false
	case orb.Collection:
		for _, part := range g {
			if Intersects(part, b) {
				return true
			}
		}
		return false
	case orb.Bound:
		return g.Intersects(b)
	}
	return true
}

func pathIntersects(path []orb.Point, b orb.Bound) bool {
	for _, p := range path {
		if b.Contains(p) {
			return true
		}
	}
	edges := boundEdges(b)
	for i := 1; i < len(path); i++ {
		for _, e := range edges {
			if segmentsIntersect(path[i-1], path[i], e[0], e[1]) {
				return true
			}
		}
	}
	return false
}

func polygonIntersects(p orb.Polygon, b orb.Bound) bool {
	if len(p) == 0 {
		return false
	}
	for _, ring := range p {
		if pathIntersects(ring, b) {
			return true
		}
	}
	// No ring touches the bound, so it lies wholly inside or outside the
	// polygon; holes are honoured by PolygonContains.
	return planar.PolygonContains(p, b.Center())
}

func boundEdges(b orb.Bound) [4][2]orb.Point {
	ll, lr := b.Min, orb.Point{b.Max[0], b.Min[1]}
	ur, ul := b.Max, orb.Point{b.Min[0], b.Max[1]}
	return [4][2]orb.Point{{ll, lr}, {lr, ur}, {ur, ul}, {ul, ll}}
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return p[0] >= min(a[0], b[0]) && p[0] <= max(a[0], b[0]) &&
		p[1] >= min(a[1], b[1]) && p[1] <= max(a[1], b[1])
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) || (d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) || (d4 == 0 && onSegment(p1, p2, q2))
}

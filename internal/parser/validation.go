package parser

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// ValidateCoordinate rejects NaN and infinite coordinates
func ValidateCoordinate(p orb.Point) error {
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
		return fmt.Errorf("coordinate (%v, %v) is not finite", p[0], p[1])
	}
	return nil
}

// ValidateLonLat checks a geographic coordinate against ±180/±90
func ValidateLonLat(p orb.Point) error {
	if err := ValidateCoordinate(p); err != nil {
		return err
	}
	if p[1] < -90 || p[1] > 90 || p[0] < -180 || p[0] > 180 {
		return fmt.Errorf("coordinate lon=%f lat=%f out of range", p[0], p[1])
	}
	return nil
}

// ValidateGeometry checks the simple-feature rules the decoders do not
// enforce: polygon rings need four points and closure, line strings two
// points, and every coordinate must be finite.
//
// Decoders accept degenerate shapes; this only reports them.
func ValidateGeometry(g orb.Geometry) error {
	switch g := g.(type) {
	case nil:
		return &GeometryError{Reason: "geometry is nil"}
	case orb.Point:
		if err := ValidateCoordinate(g); err != nil {
			return &GeometryError{Kind: "Point", Reason: err.Error()}
		}
	case orb.LineString:
		if len(g) < 2 {
			return &GeometryError{Kind: "LineString", Reason: fmt.Sprintf("%d points, need at least 2", len(g))}
		}
		return validatePoints("LineString", g)
	case orb.Polygon:
		for i, ring := range g {
			if len(ring) < 4 {
				return &GeometryError{Kind: "Polygon", Reason: fmt.Sprintf("ring %d has %d points, need at least 4", i, len(ring))}
			}
			if !ring.Closed() {
				return &GeometryError{Kind: "Polygon", Reason: fmt.Sprintf("ring %d is not closed", i)}
			}
			if err := validatePoints("Polygon", ring); err != nil {
				return err
			}
		}
	case orb.Collection:
		if len(g) == 0 {
			return &GeometryError{Kind: "GeometryCollection", Reason: "collection is empty"}
		}
		for i, part := range g {
			if err := ValidateGeometry(part); err != nil {
				return fmt.Errorf("part %d: %w", i, err)
			}
		}
	default:
		return &GeometryError{Kind: g.GeoJSONType(), Reason: "unexpected geometry type"}
	}
	return nil
}

func validatePoints(kind string, pts []orb.Point) error {
	for i, p := range pts {
		if err := ValidateCoordinate(p); err != nil {
			return &GeometryError{Kind: kind, Reason: fmt.Sprintf("coordinate %d: %v", i, err)}
		}
	}
	return nil
}

// ValidateFeature validates the geometry of a feature
func ValidateFeature(feature *Feature) error {
	if feature == nil {
		return fmt.Errorf("feature is nil")
	}
	if err := ValidateGeometry(feature.Geometry); err != nil {
		return fmt.Errorf("feature %d: %w", feature.ID, err)
	}
	return nil
}

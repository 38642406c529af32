package aoi

import (
	"fmt"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"

	"github.com/beetlebugorg/aoi/internal/parser"
)

// Feature is one annotation object.
//
// The geometry is a collection of the object's shapes in document order:
// polygons for polygon, rectangle and ellipse shapes, line strings for
// polylines and points for points.
type Feature struct {
	id         int64
	geometry   orb.Collection
	attributes map[string]interface{}
}

func newFeature(f *parser.Feature) *Feature {
	if f == nil {
		return nil
	}
	return &Feature{
		id:         f.ID,
		geometry:   f.Geometry,
		attributes: f.Attributes,
	}
}

// ID returns the feature id: its position among the layer's features,
// counting from 0.
func (f *Feature) ID() int64 { return f.id }

// Name returns the Name attribute, or "" when the object has none.
func (f *Feature) Name() string {
	s, _ := f.attributes[AttrName].(string)
	return s
}

// Description returns the Description attribute, or "" when the object has none.
func (f *Feature) Description() string {
	s, _ := f.attributes[AttrDescription].(string)
	return s
}

// Attributes returns all attributes.
func (f *Feature) Attributes() map[string]interface{} { return f.attributes }

// Attribute returns one attribute and whether it is set.
func (f *Feature) Attribute(name string) (interface{}, bool) {
	v, ok := f.attributes[name]
	return v, ok
}

// Geometry returns the feature geometry.
func (f *Feature) Geometry() orb.Collection { return f.geometry }

// Bound returns the bounding box of the geometry.
func (f *Feature) Bound() orb.Bound { return f.geometry.Bound() }

// GeoJSON returns the feature as a GeoJSON feature with its attributes as properties.
func (f *Feature) GeoJSON() *geojson.Feature {
	gf := geojson.NewFeature(f.geometry)
	gf.ID = f.id
	for k, v := range f.attributes {
		gf.Properties[k] = v
	}
	return gf
}

// WKT returns the geometry as well-known text.
func (f *Feature) WKT() string {
	return wkt.MarshalString(f.geometry)
}

// Validate reports the first simple-feature rule the geometry breaks:
// rings of fewer than four points, open rings, line strings of one point or
// non-finite coordinates. Such geometries are still returned by the layer.
func (f *Feature) Validate() error {
	return parser.ValidateFeature(&parser.Feature{ID: f.id, Geometry: f.geometry, Attributes: f.attributes})
}

// ValidateLonLat checks that every coordinate is a longitude/latitude pair,
// for features reprojected to a geographic system.
func (f *Feature) ValidateLonLat() error {
	var err error
	project.Geometry(f.geometry.Clone(), func(p orb.Point) orb.Point {
		if err == nil {
			if perr := parser.ValidateLonLat(p); perr != nil {
				err = fmt.Errorf("feature %d: %w", f.id, perr)
			}
		}
		return p
	})
	return err
}

// Reproject returns a copy of the feature with every coordinate passed
// through t. The first transform error is returned.
func (f *Feature) Reproject(t proj.Transformer) (*Feature, error) {
	var err error
	g := project.Geometry(f.geometry.Clone(), func(p orb.Point) orb.Point {
		x, y, terr := t(p[0], p[1])
		if terr != nil && err == nil {
			err = terr
		}
		return orb.Point{x, y}
	})
	if err != nil {
		return nil, err
	}

	coll, _ := g.(orb.Collection)
	return &Feature{
		id:         f.id,
		geometry:   coll,
		attributes: f.attributes,
	}, nil
}

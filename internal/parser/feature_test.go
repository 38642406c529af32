package parser

import (
	"testing"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

func newTestLayer(root Node) *Layer {
	return NewLayer("test", root, Options{EllipseSteps: 8, Logger: zap.NewNop()})
}

func readAll(l *Layer) []*Feature {
	var out []*Feature
	for f := l.NextFeature(); f != nil; f = l.NextFeature() {
		out = append(out, f)
	}
	return out
}

// TestNextFeature tests that one object yields one feature holding all its shapes
func TestNextFeature(t *testing.T) {
	root := aoiRoot(objectNode(elementNode("Field 7", "wheat",
		polygonNode(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}),
		pointNode(5, 5),
	)))
	l := newTestLayer(root)

	f := l.NextFeature()
	if f == nil {
		t.Fatal("Expected a feature")
	}
	if f.ID != 0 {
		t.Errorf("Expected ID=0, got %d", f.ID)
	}
	if len(f.Geometry) != 2 {
		t.Fatalf("Expected 2 geometries, got %d", len(f.Geometry))
	}
	if _, ok := f.Geometry[0].(orb.Polygon); !ok {
		t.Errorf("Expected polygon first, got %T", f.Geometry[0])
	}
	if f.Geometry[1] != (orb.Point{5, 5}) {
		t.Errorf("Expected point (5, 5), got %v", f.Geometry[1])
	}
	if f.Attributes[AttrName] != "Field 7" {
		t.Errorf("Expected Name=Field 7, got %v", f.Attributes[AttrName])
	}
	if f.Attributes[AttrDescription] != "wheat" {
		t.Errorf("Expected Description=wheat, got %v", f.Attributes[AttrDescription])
	}

	if next := l.NextFeature(); next != nil {
		t.Errorf("Expected end of layer, got feature %d", next.ID)
	}
}

// TestNextFeatureSkipsEmptyObjects tests objects that produce no feature
func TestNextFeatureSkipsEmptyObjects(t *testing.T) {
	broken := mem(AOIObjectType, "broken", mem("Eaoi_AntAoiInfo", antObjectName))
	root := aoiRoot(
		objectNode(elementNode("labels", "", mem("Text2", "t"))),
		broken,
		mem(AOIObjectType, "bare"),
		objectNode(elementNode("bad shape", "", mem("Polygon2", "p"))),
		objectNode(elementNode("good", "", pointNode(1, 1))),
	)
	l := newTestLayer(root)

	features := readAll(l)
	if len(features) != 1 {
		t.Fatalf("Expected 1 feature, got %d", len(features))
	}
	if features[0].Attributes[AttrName] != "good" {
		t.Errorf("Expected the good object, got %v", features[0].Attributes[AttrName])
	}
	if features[0].ID != 0 {
		t.Errorf("Expected ID=0, got %d", features[0].ID)
	}

	stats := l.Stats()
	if stats.ObjectsSkipped != 4 {
		t.Errorf("Expected 4 skipped objects, got %d", stats.ObjectsSkipped)
	}
	if stats.ShapesSkipped != 1 {
		t.Errorf("Expected 1 skipped shape, got %d", stats.ShapesSkipped)
	}
}

// TestNextFeatureOnlyUnrecognized tests that a layer of unknown shapes is empty
func TestNextFeatureOnlyUnrecognized(t *testing.T) {
	root := aoiRoot(objectNode(elementNode("labels", "", mem("Text2", "t"), mem("Arc2", "a"))))
	if f := newTestLayer(root).NextFeature(); f != nil {
		t.Errorf("Expected no feature, got %v", f.Geometry)
	}
}

// TestAttributesOptional tests that absent strings are left out of the attributes
func TestAttributesOptional(t *testing.T) {
	root := aoiRoot(objectNode(elementNode("", "", pointNode(0, 0))))
	f := newTestLayer(root).NextFeature()
	if f == nil {
		t.Fatal("Expected a feature")
	}
	if _, ok := f.Attributes[AttrName]; ok {
		t.Error("Expected no Name attribute")
	}
	if _, ok := f.Attributes[AttrDescription]; ok {
		t.Error("Expected no Description attribute")
	}
}

// TestResetReading tests that reset replays the same features with the same ids
func TestResetReading(t *testing.T) {
	root := aoiRoot(
		objectNode(elementNode("a", "", pointNode(0, 0))),
		objectNode(elementNode("b", "", pointNode(1, 1))),
		objectNode(elementNode("c", "", pointNode(2, 2))),
	)
	l := newTestLayer(root)

	first := readAll(l)
	l.ResetReading()
	second := readAll(l)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("Expected 3 features twice, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != int64(i) || second[i].ID != int64(i) {
			t.Errorf("feature %d: ids %d and %d", i, first[i].ID, second[i].ID)
		}
		if first[i].Attributes[AttrName] != second[i].Attributes[AttrName] {
			t.Errorf("feature %d: names differ", i)
		}
	}
}

// TestFiltersKeepIDs tests that ids are assigned before filtering
func TestFiltersKeepIDs(t *testing.T) {
	root := aoiRoot(
		objectNode(elementNode("near", "", pointNode(1, 1))),
		objectNode(elementNode("far", "", pointNode(100, 100))),
		objectNode(elementNode("near too", "", pointNode(2, 2))),
	)

	tests := []struct {
		name    string
		spatial *orb.Bound
		attr    AttributeFilter
		ids     []int64
	}{
		{"no filter", nil, nil, []int64{0, 1, 2}},
		{"spatial", &orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}, nil, []int64{0, 2}},
		{"attribute", nil, AttributeEquals(AttrName, "far"), []int64{1}},
		{"both", &orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}, AttributeContains(AttrName, "TOO"), []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLayer(root)
			l.SetSpatialFilter(tt.spatial)
			l.SetAttributeFilter(tt.attr)

			features := readAll(l)
			if len(features) != len(tt.ids) {
				t.Fatalf("Expected %d features, got %d", len(tt.ids), len(features))
			}
			for i, f := range features {
				if f.ID != tt.ids[i] {
					t.Errorf("Expected ID=%d, got %d", tt.ids[i], f.ID)
				}
			}
			if got := l.Stats().FeaturesFiltered; got != 3-len(tt.ids) {
				t.Errorf("Expected %d filtered, got %d", 3-len(tt.ids), got)
			}
		})
	}
}

// TestSetSpatialFilterCopies tests that the layer keeps its own copy of the bound
func TestSetSpatialFilterCopies(t *testing.T) {
	root := aoiRoot(objectNode(elementNode("a", "", pointNode(1, 1))))
	l := newTestLayer(root)

	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 2}}
	l.SetSpatialFilter(&b)
	b.Min = orb.Point{50, 50}
	b.Max = orb.Point{60, 60}

	if f := l.NextFeature(); f == nil {
		t.Error("Expected the filter to ignore later changes to the bound")
	}
}

// TestLayerSchema tests the fixed schema
func TestLayerSchema(t *testing.T) {
	s := newTestLayer(aoiRoot()).Schema()
	if s.Name != "test" {
		t.Errorf("Expected name test, got %s", s.Name)
	}
	if len(s.Fields) != 2 || s.Fields[0].Name != AttrName || s.Fields[1].Name != AttrDescription {
		t.Errorf("Unexpected fields %v", s.Fields)
	}
	if s.GeometryType != "GeometryCollection" {
		t.Errorf("Expected GeometryCollection, got %s", s.GeometryType)
	}
}

// TestNewLayerEllipseSteps tests the step count fallback
func TestNewLayerEllipseSteps(t *testing.T) {
	tests := []struct {
		steps    int
		expected int
	}{
		{0, DefaultEllipseSteps},
		{-5, DefaultEllipseSteps},
		{12, 12},
	}

	for _, tt := range tests {
		l := NewLayer("x", aoiRoot(), Options{EllipseSteps: tt.steps, Logger: zap.NewNop()})
		if l.EllipseSteps() != tt.expected {
			t.Errorf("steps %d: expected %d, got %d", tt.steps, tt.expected, l.EllipseSteps())
		}
	}
}

// TestTestCapability tests that no optional capability is advertised
func TestTestCapability(t *testing.T) {
	l := newTestLayer(aoiRoot())
	for _, c := range []string{"RandomRead", "FastFeatureCount", "FastGetExtent", "SequentialWrite"} {
		if l.TestCapability(c) {
			t.Errorf("Expected %s unsupported", c)
		}
	}
}

// TestStatsDescribeOnePass tests that rereading a layer does not add to the counters
func TestStatsDescribeOnePass(t *testing.T) {
	root := aoiRoot(
		objectNode(elementNode("a", "", pointNode(1, 1), mem("Polygon2", "bad"))),
		mem(AOIObjectType, "bare"),
		objectNode(elementNode("b", "", pointNode(2, 2))),
	)
	l := newTestLayer(root)
	l.SetAttributeFilter(AttributeEquals(AttrName, "b"))

	expected := Stats{ShapesDecoded: 2, ShapesSkipped: 1, ObjectsSkipped: 1, FeaturesFiltered: 1}
	for pass := 0; pass < 3; pass++ {
		if n := len(readAll(l)); n != 1 {
			t.Fatalf("pass %d: Expected 1 feature, got %d", pass, n)
		}
		l.ResetReading()
		if got := l.Stats(); got != expected {
			t.Errorf("pass %d: Expected stats %+v, got %+v", pass, expected, got)
		}
	}

	if l.NextFeature() == nil {
		t.Fatal("Expected a feature")
	}
	if got := l.Stats(); got.ShapesDecoded != 2 || got.ObjectsSkipped != 1 || got.FeaturesFiltered != 1 {
		t.Errorf("Expected counters of the partial pass, got %+v", got)
	}
}

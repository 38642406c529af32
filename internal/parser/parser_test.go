package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/hfa"
	"github.com/beetlebugorg/aoi/internal/hfa/hfatest"
)

var shift = hfatest.Polynomial{Order: 1, TermCount: 3, Matrix: []float64{1, 0, 0, 1}, Vector: []float64{100, 200}}

func fieldsAOI() []byte {
	return hfatest.AOI(
		hfatest.Object(
			hfatest.Element("North", "barley", shift,
				hfatest.Polygon("p", [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}),
				hfatest.Point("pt", 5, 5),
			),
			hfatest.Projection(1, 32, "UTM", "WGS 84", "WGS 84", 6378137, 6356752.314245, make([]float64, 15)),
			hfatest.MapInfo("UTM", 500000, 4000000, 510000, 3990000, 30, 30, "meters"),
		),
		hfatest.Object(hfatest.Element("Pond", "", hfatest.Identity,
			hfatest.Ellipse("e", 0, 0, 4, 2),
		)),
		hfatest.Object(hfatest.Element("Label", "", hfatest.Identity,
			hfatest.N("t", "Text2", nil),
		)),
		hfatest.Object(hfatest.Element("Broken", "", hfatest.Identity,
			hfatest.N("bad", "Polyline2", hfatest.CoordsData(3, 1, 1, 2, 3)),
			hfatest.Rectangle("r", 0, 0, 2, 4),
		)),
	)
}

func testOptions() Options {
	return Options{EllipseSteps: 4, Logger: zap.NewNop()}
}

// TestOpen tests reading features from a real container
func TestOpen(t *testing.T) {
	path := hfatest.WriteFile(t, "fields.aoi", fieldsAOI())

	ds, err := Open(path, testOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer ds.Close()

	if ds.Name != "fields" || ds.Layer.Name() != "fields" {
		t.Errorf("Expected layer name fields, got %s / %s", ds.Name, ds.Layer.Name())
	}

	features := readAll(ds.Layer)
	if len(features) != 3 {
		t.Fatalf("Expected 3 features, got %d", len(features))
	}

	north := features[0]
	if north.ID != 0 || north.Attributes[AttrName] != "North" || north.Attributes[AttrDescription] != "barley" {
		t.Errorf("Unexpected first feature %d %v", north.ID, north.Attributes)
	}
	if len(north.Geometry) != 2 {
		t.Fatalf("Expected 2 geometries, got %d", len(north.Geometry))
	}
	expectedRing := orb.Ring{{100, 200}, {110, 200}, {110, 210}, {100, 200}}
	if poly, ok := north.Geometry[0].(orb.Polygon); !ok || !poly[0].Equal(expectedRing) {
		t.Errorf("Expected shifted polygon %v, got %v", expectedRing, north.Geometry[0])
	}
	if north.Geometry[1] != (orb.Point{105, 205}) {
		t.Errorf("Expected shifted point, got %v", north.Geometry[1])
	}

	pond := features[1]
	if pond.ID != 1 || len(pond.Geometry) != 1 {
		t.Fatalf("Unexpected second feature %d with %d geometries", pond.ID, len(pond.Geometry))
	}
	if ring := pond.Geometry[0].(orb.Polygon)[0]; len(ring) != 5 {
		t.Errorf("Expected 5 ellipse points, got %d", len(ring))
	}

	broken := features[2]
	if broken.ID != 2 || len(broken.Geometry) != 1 {
		t.Errorf("Expected the malformed polyline dropped, got %d geometries", len(broken.Geometry))
	}

	stats := ds.Layer.Stats()
	if stats.ShapesSkipped != 1 || stats.ObjectsSkipped != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	srs := ds.Layer.SpatialReference()
	if srs == nil {
		t.Fatal("Expected a spatial reference")
	}
	if srs.Proj4 != "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs" {
		t.Errorf("Unexpected PROJ.4 %q", srs.Proj4)
	}
	if srs.Info.MapInfo == nil || srs.Info.MapInfo.PixelWidth != 30 {
		t.Errorf("Unexpected map info %+v", srs.Info.MapInfo)
	}
}

// TestOpenCompressed tests reading a gzip compressed container
func TestOpenCompressed(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(fieldsAOI()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := hfatest.WriteFile(t, "fields.aoi.gz", buf.Bytes())

	ds, err := Open(path, testOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer ds.Close()

	if ds.Name != "fields" {
		t.Errorf("Expected name fields, got %s", ds.Name)
	}
	if got := len(readAll(ds.Layer)); got != 3 {
		t.Errorf("Expected 3 features, got %d", got)
	}
}

// TestOpenErrors tests files that cannot be opened as AOI layers
func TestOpenErrors(t *testing.T) {
	noAOINode := hfatest.Build(hfatest.AOIDictionary, hfatest.N("root", "root", nil,
		hfatest.N("Layer_1", "Eaoi_AreaOfInterest", hfatest.Enc().Int32(1).Bytes()),
	))

	tests := []struct {
		name   string
		file   string
		data   []byte
		target error
	}{
		{"wrong extension", "fields.img", fieldsAOI(), ErrNotAOI},
		{"no AOInode", "empty.aoi", noAOINode, ErrNoAOINode},
		{"not HFA", "text.aoi", []byte("this is not a container"), hfa.ErrNotHFA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := hfatest.WriteFile(t, tt.file, tt.data)
			ds, err := Open(path, testOptions())
			if err == nil {
				ds.Close()
				t.Fatal("Expected error")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.aoi"), testOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

// TestWrapEntry tests the HFA adapter against the engine's error types
func TestWrapEntry(t *testing.T) {
	data := hfatest.AOI(hfatest.Object(hfatest.Element("North", "barley", shift,
		hfatest.Point("pt", 1, 2),
	)))
	f, err := hfa.NewFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	if WrapEntry(nil) != nil {
		t.Error("Expected nil node for nil entry")
	}

	root := WrapEntry(f.Root()).NamedChild(aoiNodeName)
	if root == nil {
		t.Fatal("Expected AOInode")
	}
	headers := root.FindDescendants(antInfoName, AntHeaderType)
	if len(headers) != 1 {
		t.Fatalf("Expected 1 header, got %d", len(headers))
	}

	element := headers[0].NamedChild(elementListName).FirstChild()
	if element == nil || element.Type() != "Element_2_Eant" {
		t.Fatalf("Unexpected element %v", element)
	}
	if name, err := element.StringField("name"); err != nil || name != "North" {
		t.Errorf("Expected name North, got %q (%v)", name, err)
	}
	if p := ReadTransform(element); p.Order != 1 || p.Constants != [2]float64{100, 200} {
		t.Errorf("Unexpected transform %+v", p)
	}

	point := element.FirstChild()
	if n, err := point.IntField(pointCoordsPath + "[-2]"); err != nil || n != 1 {
		t.Errorf("Expected 1 point, got %d (%v)", n, err)
	}
	if point.NextSibling() != nil {
		t.Error("Expected no sibling")
	}

	var missing *FieldMissingError
	if _, err := point.DoubleField("nothing"); !errors.As(err, &missing) {
		t.Errorf("Expected FieldMissingError, got %v", err)
	}
	var typeErr *FieldTypeError
	if _, err := element.DoubleField("name"); !errors.As(err, &typeErr) {
		t.Errorf("Expected FieldTypeError, got %v", err)
	}
}

// TestParseEllipseSteps tests step count parsing
func TestParseEllipseSteps(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"36", 36, false},
		{"  72", 72, false},
		{"+8", 8, false},
		{"12abc", 12, false},
		{"4.9", 4, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"99999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEllipseSteps(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEllipseSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

// TestOptionsFromEnv tests the environment override
func TestOptionsFromEnv(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"12", 12},
		{"garbage", DefaultEllipseSteps},
		{"-1", DefaultEllipseSteps},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EllipseStepsEnv, tt.value)
			if got := OptionsFromEnv().EllipseSteps; got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

// TestLayerName tests layer names derived from paths
func TestLayerName(t *testing.T) {
	tests := map[string]string{
		"/data/fields.aoi":      "fields",
		"fields.AOI":            "fields",
		"dir/fields.aoi.gz":     "fields",
		"dir/fields.v2.aoi.zst": "fields.v2",
		"noext":                 "noext",
	}
	for path, want := range tests {
		if got := LayerName(path); got != want {
			t.Errorf("LayerName(%q): expected %q, got %q", path, want, got)
		}
	}
}

// TestIdentify tests file recognition
func TestIdentify(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		expected bool
	}{
		{"aoi", "a.aoi", fieldsAOI(), true},
		{"upper case extension", "b.AOI", fieldsAOI(), true},
		{"wrong extension", "c.img", fieldsAOI(), false},
		{"wrong magic", "d.aoi", []byte("EHFA_HEADER_TAX and more"), false},
		{"short file", "e.aoi", []byte("EHFA"), false},
		{"compressed", "f.aoi.gz", []byte{0x1f, 0x8b}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := hfatest.WriteFile(t, tt.file, tt.data)
			if got := Identify(path); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	if Identify(filepath.Join(t.TempDir(), "missing.aoi")) {
		t.Error("Expected missing file to be rejected")
	}
}

package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const deg2rad = math.Pi / 180

// TestProj4String tests translation of projection records to PROJ.4
func TestProj4String(t *testing.T) {
	wgs84Datum := &Datum{Name: "WGS 84"}
	meters := &MapInfo{Units: "meters"}

	var southParams [15]float64
	southParams[3] = -1

	tests := []struct {
		name     string
		info     ProjectionInfo
		expected string
	}{
		{
			name: "utm north",
			info: ProjectionInfo{
				Datum:      wgs84Datum,
				Projection: &ProParameters{Number: ProjUTM, Zone: 32},
				MapInfo:    meters,
			},
			expected: "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs",
		},
		{
			name: "utm south",
			info: ProjectionInfo{
				Datum:      &Datum{Name: "NAD83"},
				Projection: &ProParameters{Number: ProjUTM, Zone: 18, Params: southParams},
				MapInfo:    meters,
			},
			expected: "+proj=utm +zone=18 +south +datum=NAD83 +units=m +no_defs",
		},
		{
			name: "geographic",
			info: ProjectionInfo{
				Datum:      wgs84Datum,
				Projection: &ProParameters{Number: ProjLatLong},
				MapInfo:    &MapInfo{Units: "dd"},
			},
			expected: "+proj=longlat +datum=WGS84 +no_defs",
		},
		{
			name: "explicit axes",
			info: ProjectionInfo{
				Projection: &ProParameters{Number: ProjMercator, Spheroid: Spheroid{Name: "Sphere", A: 6371000, B: 6371000}},
			},
			expected: "+proj=merc +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +a=6371000 +b=6371000 +units=m +no_defs",
		},
		{
			name: "unknown spheroid",
			info: ProjectionInfo{
				Projection:     &ProParameters{Number: ProjSinusoidal},
				MapInformation: &MapInformation{Units: "kilometers"},
			},
			expected: "+proj=sinu +lon_0=0 +x_0=0 +y_0=0 +ellps=WGS84 +units=km +no_defs",
		},
		{
			name: "datum shift",
			info: ProjectionInfo{
				Datum: &Datum{
					Name:   "Potsdam",
					Type:   DatumParametric,
					Params: [7]float64{598.1, 73.7, 418.2, 0, 0, 0, 0},
				},
				Projection: &ProParameters{Number: ProjLatLong, Spheroid: Spheroid{Name: "Bessel"}},
			},
			expected: "+proj=longlat +ellps=bessel +towgs84=598.1,73.7,418.2,0,0,0,0 +no_defs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Proj4String(tt.info)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// proj4Values parses the numeric parameters of a PROJ.4 definition.
func proj4Values(t *testing.T, def string) map[string][]float64 {
	t.Helper()
	out := make(map[string][]float64)
	for _, f := range strings.Fields(def) {
		key, value, ok := strings.Cut(strings.TrimPrefix(f, "+"), "=")
		if !ok {
			continue
		}
		for _, part := range strings.Split(value, ",") {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				break
			}
			out[key] = append(out[key], v)
		}
	}
	return out
}

// TestProj4StringAngles tests that angular parameters are converted from radians
func TestProj4StringAngles(t *testing.T) {
	var params [15]float64
	params[2] = 0.9996
	params[4] = -75 * deg2rad
	params[5] = 10 * deg2rad
	params[6] = 500000
	params[7] = 100

	info := ProjectionInfo{
		Datum:      &Datum{Name: "Custom"},
		Projection: &ProParameters{Number: ProjTransverseMerc, Params: params, Spheroid: Spheroid{Name: "Clarke 1866"}},
		MapInfo:    &MapInfo{Units: "us survey feet"},
	}
	def, err := Proj4String(info)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(def, "+proj=tmerc ") || !strings.Contains(def, " +ellps=clrk66 +units=us-ft +no_defs") {
		t.Errorf("Unexpected definition %q", def)
	}

	values := proj4Values(t, def)
	expected := map[string]float64{"lat_0": 10, "lon_0": -75, "k": 0.9996, "x_0": 500000, "y_0": 100}
	for key, want := range expected {
		got := values[key]
		if len(got) != 1 || math.Abs(got[0]-want) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", key, want, got)
		}
	}
}

// TestProj4StringRotations tests the sign and unit of the datum rotations
func TestProj4StringRotations(t *testing.T) {
	arcsec := math.Pi / 180 / 3600
	info := ProjectionInfo{
		Datum: &Datum{
			Name:   "Custom",
			Type:   DatumParametric,
			Params: [7]float64{1, 2, 3, 2 * arcsec, -1 * arcsec, 0, 1.5e-6},
		},
		Projection: &ProParameters{Number: ProjLatLong},
	}

	def, err := Proj4String(info)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := proj4Values(t, def)["towgs84"]
	expected := []float64{1, 2, 3, -2, 1, 0, 1.5}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d parameters, got %v", len(expected), got)
	}
	for i := range expected {
		if math.Abs(got[i]-expected[i]) > 1e-9 {
			t.Errorf("parameter %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}

// TestProj4StringUnsupported tests projections without a mapping
func TestProj4StringUnsupported(t *testing.T) {
	tests := []struct {
		name string
		info ProjectionInfo
	}{
		{"no projection", ProjectionInfo{Datum: &Datum{Name: "WGS 84"}}},
		{"external", ProjectionInfo{Projection: &ProParameters{Type: ProjectionExternal, Name: "Custom"}}},
		{"state plane", ProjectionInfo{Projection: &ProParameters{Number: ProjStatePlane}}},
		{"unknown number", ProjectionInfo{Projection: &ProParameters{Number: 99}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Proj4String(tt.info)
			if !errors.Is(err, ErrUnsupportedProjection) {
				t.Errorf("Expected ErrUnsupportedProjection, got %v", err)
			}
		})
	}
}

// TestProj4BuilderUnparseable tests that a definition the parser rejects still yields a reference
func TestProj4BuilderUnparseable(t *testing.T) {
	info := ProjectionInfo{
		Datum:      &Datum{Name: "WGS 84"},
		Projection: &ProParameters{Number: ProjVanDerGrinten, Name: "Van der Grinten"},
		MapInfo:    &MapInfo{ProName: "Van der Grinten", Units: "meters"},
	}

	srs, err := Proj4Builder{Logger: zap.NewNop()}.BuildSRS(info)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if srs.Name != "Van der Grinten" {
		t.Errorf("Expected name Van der Grinten, got %s", srs.Name)
	}
	if !strings.HasPrefix(srs.Proj4, "+proj=vandg") {
		t.Errorf("Unexpected definition %q", srs.Proj4)
	}
}

// TestEllipsoidCode tests spheroid name normalisation
func TestEllipsoidCode(t *testing.T) {
	tests := map[string]string{
		"WGS 84":             "WGS84",
		"GRS 1980":           "GRS80",
		"Clarke 1866":        "clrk66",
		"International 1909": "intl",
		"Bessel":             "bessel",
		"Airy":               "airy",
		"Krasovsky":          "krass",
		"Mystery":            "",
	}
	for name, want := range tests {
		if got := ellipsoidCode(name); got != want {
			t.Errorf("ellipsoidCode(%q): expected %q, got %q", name, want, got)
		}
	}
}

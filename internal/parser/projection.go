package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ctessum/geom/proj"
	"go.uber.org/zap"
)

// Node names and types of the projection records below an annotation header.
const (
	AntHeaderType      = "AntHeader_Eant"
	projectionName     = "Projection"
	datumPath          = "Projection.Datum"
	mapInfoName        = "Map_Info"
	mapInfoType        = "Eprj_MapInfo"
	mapInformationName = "MapInformation"
)

// Datum types as stored in Eprj_Datum.type.
const (
	DatumParametric = 0
	DatumGrid       = 1
	DatumRegression = 2
)

// Projection types as stored in Eprj_ProParameters.proType.
const (
	ProjectionInternal = 0
	ProjectionExternal = 1
)

// Datum describes the geodetic datum.
type Datum struct {
	Name     string
	Type     int
	Params   [7]float64 // dx, dy, dz (m), rx, ry, rz (rad), scale
	GridName string
}

// Spheroid describes the reference ellipsoid.
type Spheroid struct {
	Name     string
	A, B     float64
	ESquared float64
	Radius   float64
}

// ProParameters describes the map projection. Angular parameters are in radians.
type ProParameters struct {
	Type     int
	Number   int
	ExeName  string
	Name     string
	Zone     int
	Params   [15]float64
	Spheroid Spheroid
}

// Coordinate is a map coordinate.
type Coordinate struct {
	X, Y float64
}

// MapInfo describes the map grid the annotations were drawn on.
type MapInfo struct {
	ProName          string
	UpperLeftCenter  Coordinate
	LowerRightCenter Coordinate
	PixelWidth       float64
	PixelHeight      float64
	Units            string
}

// MapInformation is the reduced map description some files carry instead of MapInfo.
type MapInformation struct {
	Projection string
	Units      string
}

// ProjectionInfo groups the projection records of an AOI file. Each group is
// nil when the file lacks it.
type ProjectionInfo struct {
	Datum          *Datum
	Projection     *ProParameters
	MapInfo        *MapInfo
	MapInformation *MapInformation
}

// Units returns the linear units named by the map records.
func (p ProjectionInfo) Units() string {
	if p.MapInfo != nil {
		return p.MapInfo.Units
	}
	if p.MapInformation != nil {
		return p.MapInformation.Units
	}
	return ""
}

// Name returns the coordinate system name, preferring the map grid's
// projection name.
func (p ProjectionInfo) Name() string {
	switch {
	case p.MapInfo != nil && !unknownName(p.MapInfo.ProName):
		return p.MapInfo.ProName
	case p.MapInformation != nil && !unknownName(p.MapInformation.Projection):
		return p.MapInformation.Projection
	case p.Projection != nil:
		return p.Projection.Name
	}
	return ""
}

// SpatialReference is the coordinate reference system of a layer.
type SpatialReference struct {
	Name  string
	Proj4 string
	WKT   string // set by builders that produce OGC WKT
	EPSG  int    // 0 when unknown
	Info  ProjectionInfo
	SR    *proj.SR // nil when Proj4 could not be parsed
}

// ErrNoSR is returned when a spatial reference has no parsed projection.
var ErrNoSR = errors.New("spatial reference has no parsed projection")

// wgs84 is the geographic target of ToWGS84.
const wgs84 = "+proj=longlat +datum=WGS84 +no_defs"

// Transformer returns a function converting coordinates from s to dest.
func (s *SpatialReference) Transformer(dest *proj.SR) (proj.Transformer, error) {
	if s == nil || s.SR == nil {
		return nil, ErrNoSR
	}
	return s.SR.NewTransform(dest)
}

// ToWGS84 returns a function converting coordinates from s to WGS84 longitude/latitude.
func (s *SpatialReference) ToWGS84() (proj.Transformer, error) {
	dest, err := proj.Parse(wgs84)
	if err != nil {
		return nil, fmt.Errorf("parse WGS84: %w", err)
	}
	return s.Transformer(dest)
}

// SRSBuilder turns projection records into a spatial reference.
type SRSBuilder interface {
	BuildSRS(info ProjectionInfo) (*SpatialReference, error)
}

func unknownName(s string) bool {
	return s == "" || strings.EqualFold(s, "Unknown")
}

// Uninformative reports whether the records carry too little to build a
// reference system: a missing datum or projection, no map description at
// all, or every name empty or "Unknown" with zone 0.
func (p ProjectionInfo) Uninformative() bool {
	if p.Datum == nil || p.Projection == nil {
		return true
	}
	if p.MapInfo == nil && p.MapInformation == nil {
		return true
	}
	return unknownName(p.Datum.Name) &&
		unknownName(p.Projection.Name) &&
		p.MapInfo != nil && unknownName(p.MapInfo.ProName) &&
		p.Projection.Zone == 0
}

// lenientReader reads fields that default to zero when absent.
type lenientReader struct {
	n Node
}

func (r lenientReader) int(path string) int {
	v, _ := r.n.IntField(path)
	return v
}

func (r lenientReader) double(path string) float64 {
	v, _ := r.n.DoubleField(path)
	return v
}

func (r lenientReader) text(path string) string {
	v, _ := r.n.StringField(path)
	return v
}

func readDatum(header Node) *Datum {
	n := header.NamedChild(datumPath)
	if n == nil {
		return nil
	}
	r := lenientReader{n}
	d := &Datum{
		Name: r.text("datumname"),
		Type: r.int("type"),
	}
	for i := range d.Params {
		d.Params[i] = r.double(fmt.Sprintf("params[%d]", i))
	}
	d.GridName = r.text("gridname")
	return d
}

func readProParameters(header Node) *ProParameters {
	n := header.NamedChild(projectionName)
	if n == nil {
		return nil
	}
	r := lenientReader{n}
	p := &ProParameters{
		Type:    r.int("proType"),
		Number:  r.int("proNumber"),
		ExeName: r.text("proExeName"),
		Name:    r.text("proName"),
		Zone:    r.int("proZone"),
	}
	for i := range p.Params {
		p.Params[i] = r.double(fmt.Sprintf("proParams[%d]", i))
	}
	p.Spheroid = Spheroid{
		Name:     r.text("proSpheroid.sphereName"),
		A:        r.double("proSpheroid.a"),
		B:        r.double("proSpheroid.b"),
		ESquared: r.double("proSpheroid.eSquared"),
		Radius:   r.double("proSpheroid.radius"),
	}
	return p
}

// readMapInfo reads Map_Info, or failing that the first direct child of the
// MapInfo type under any other name.
func readMapInfo(header Node) *MapInfo {
	n := header.NamedChild(mapInfoName)
	if n == nil {
		for c := header.FirstChild(); c != nil; c = c.NextSibling() {
			if strings.EqualFold(c.Type(), mapInfoType) {
				n = c
				break
			}
		}
	}
	if n == nil {
		return nil
	}

	r := lenientReader{n}
	m := &MapInfo{
		ProName:          r.text("proName"),
		UpperLeftCenter:  Coordinate{r.double("upperLeftCenter.x"), r.double("upperLeftCenter.y")},
		LowerRightCenter: Coordinate{r.double("lowerRightCenter.x"), r.double("lowerRightCenter.y")},
	}
	// Some writers name the pixel size members x/y.
	fr := fieldReader{n: n}
	m.PixelWidth = fr.double("pixelSize.width")
	m.PixelHeight = fr.double("pixelSize.height")
	if fr.err != nil {
		m.PixelWidth = r.double("pixelSize.x")
		m.PixelHeight = r.double("pixelSize.y")
	}
	m.Units = r.text("units")
	return m
}

func readMapInformation(header Node) *MapInformation {
	n := header.NamedChild(mapInformationName)
	if n == nil {
		return nil
	}
	r := lenientReader{n}
	return &MapInformation{
		Projection: r.text("projection"),
		Units:      r.text("units"),
	}
}

// ReadProjectionInfo locates the first annotation header anywhere below root
// and reads its projection records. ok is false when there is no header.
func ReadProjectionInfo(root Node) (info ProjectionInfo, ok bool) {
	headers := root.FindDescendants(antInfoName, AntHeaderType)
	if len(headers) == 0 {
		return ProjectionInfo{}, false
	}
	header := headers[0]

	info.Datum = readDatum(header)
	info.Projection = readProParameters(header)
	info.MapInfo = readMapInfo(header)
	if info.MapInfo == nil {
		info.MapInformation = readMapInformation(header)
	}
	return info, true
}

// SpatialReference returns the layer's reference system, or nil when the
// file carries no usable projection. The result is computed once.
func (l *Layer) SpatialReference() *SpatialReference {
	if l.srsDone {
		return l.srs
	}
	l.srsDone = true

	info, ok := ReadProjectionInfo(l.root)
	if !ok {
		l.logger.Debug("no annotation header, layer has no spatial reference")
		return nil
	}
	if info.Uninformative() {
		l.logger.Debug("projection records are uninformative, layer has no spatial reference")
		return nil
	}

	srs, err := l.builder.BuildSRS(info)
	if err != nil {
		l.logger.Warn("failed to build spatial reference", zap.String("layer", l.name), zap.Error(err))
		return nil
	}
	l.srs = srs
	return srs
}

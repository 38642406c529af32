package hfatest

// AOIDictionary describes the records found in ERDAS annotation AOI files.
const AOIDictionary = "{1:lorder,1:lnumdimtransform,1:lnumdimpolynomial,1:ltermcount,0:*sexponentlist,1:*bpolycoefmtx,1:*bpolycoefvector,}Efga_Polynomial," +
	"{1:dx,1:dy,}Eprj_Coordinate," +
	"{1:dwidth,1:dheight,}Eprj_Size," +
	"{0:pcsphereName,1:da,1:db,1:deSquared,1:dradius,}Eprj_Spheroid," +
	"{0:pcdatumname,1:e3:EPRJ_DATUM_PARAMETRIC,EPRJ_DATUM_GRID,EPRJ_DATUM_REGRESSION,type,0:pdparams,0:pcgridname,}Eprj_Datum," +
	"{1:e2:EPRJ_INTERNAL,EPRJ_EXTERNAL,proType,1:lproNumber,0:pcproExeName,0:pcproName,1:lproZone,0:pdproParams,1:*oEprj_Spheroid,proSpheroid,}Eprj_ProParameters," +
	"{0:pcproName,1:*oEprj_Coordinate,upperLeftCenter,1:*oEprj_Coordinate,lowerRightCenter,1:*oEprj_Size,pixelSize,0:pcunits,}Eprj_MapInfo," +
	"{0:pcprojection,0:pcunits,}Eimg_MapInformation," +
	"{1:lversion,}Eaoi_AreaOfInterest," +
	"{1:lid,}Eaoi_AoiObjectType," +
	"{1:lflags,}Eaoi_AntAoiInfo," +
	"{1:lversion,}AntHeader_Eant," +
	"{1:lcount,}ElementNode_Eant," +
	"{0:pcname,0:pcdescription,1:*oEfga_Polynomial,xformMatrix,}Element_2_Eant," +
	"{0:*bcoords,}Eant_Coords," +
	"{1:*oEant_Coords,coords,}Polygon2," +
	"{1:*oEant_Coords,coords,}Polyline2," +
	"{1:*oEant_Coords,coord,}Point2," +
	"{1:oEprj_Coordinate,center,1:dwidth,1:dheight,1:dorientation,}Rectangle2," +
	"{1:oEprj_Coordinate,center,1:dsemiMajorAxis,1:dsemiMinorAxis,1:dorientation,}Ellipse2," +
	"."

// Polynomial is an affine-or-higher transform as stored on an element.
type Polynomial struct {
	Order     int32
	TermCount int32
	Matrix    []float64
	Vector    []float64
}

// Identity is an order 1 polynomial that leaves coordinates unchanged.
var Identity = Polynomial{Order: 1, TermCount: 3, Matrix: []float64{1, 0, 0, 1}, Vector: []float64{0, 0}}

func (p Polynomial) encode() []byte {
	e := Enc().Int32(p.Order).Int32(2).Int32(2).Int32(p.TermCount).Null()
	e.Basedata(2, int32(len(p.Matrix)/2), p.Matrix...)
	e.Basedata(1, int32(len(p.Vector)), p.Vector...)
	return e.Bytes()
}

// Element builds an Element_2_Eant group node.
func Element(name, description string, xform Polynomial, children ...*Node) *Node {
	data := Enc().Text(name).Text(description).Object(xform.encode()).Bytes()
	return N(name, "Element_2_Eant", data, children...)
}

func coords(pts [][2]float64) []byte {
	flat := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		flat = append(flat, p[0], p[1])
	}
	inner := Enc().Basedata(2, int32(len(pts)), flat...).Bytes()
	return Enc().Object(inner).Bytes()
}

// CoordsData encodes a coordinate array with explicit stored dimensions, for
// malformed-shape cases.
func CoordsData(first, second int32, flat ...float64) []byte {
	inner := Enc().Basedata(first, second, flat...).Bytes()
	return Enc().Object(inner).Bytes()
}

func Polygon(name string, pts ...[2]float64) *Node {
	return N(name, "Polygon2", coords(pts))
}

func Polyline(name string, pts ...[2]float64) *Node {
	return N(name, "Polyline2", coords(pts))
}

func Point(name string, x, y float64) *Node {
	return N(name, "Point2", coords([][2]float64{{x, y}}))
}

func Rectangle(name string, cx, cy, width, height float64) *Node {
	data := Enc().Float64(cx).Float64(cy).Float64(width).Float64(height).Float64(0).Bytes()
	return N(name, "Rectangle2", data)
}

func Ellipse(name string, cx, cy, a, b float64) *Node {
	data := Enc().Float64(cx).Float64(cy).Float64(a).Float64(b).Float64(0).Bytes()
	return N(name, "Ellipse2", data)
}

// Object wraps one element tree, and optional projection nodes, in the
// Eaoi_AoiObjectType / AOIantObject / antInfo / ElementList chain.
func Object(element *Node, headerChildren ...*Node) *Node {
	list := N("ElementList", "ElementNode_Eant", Enc().Int32(1).Bytes(), element)
	header := N("antInfo", "AntHeader_Eant", Enc().Int32(1).Bytes(), append([]*Node{list}, headerChildren...)...)
	ant := N("AOIantObject", "Eaoi_AntAoiInfo", Enc().Int32(0).Bytes(), header)
	return N("object", "Eaoi_AoiObjectType", Enc().Int32(0).Bytes(), ant)
}

// AOI builds a complete container root with the given objects under AOInode.
func AOI(objects ...*Node) []byte {
	aoiNode := N("AOInode", "Eaoi_AreaOfInterest", Enc().Int32(1).Bytes(), objects...)
	return Build(AOIDictionary, N("root", "root", nil, aoiNode))
}

// Projection builds a Projection node (with nested Datum) for an antInfo header.
func Projection(proNumber, zone int32, proName, datumName, sphereName string, a, b float64, params []float64) *Node {
	sph := Enc().Text(sphereName).Float64(a).Float64(b).Float64(1 - (b*b)/(a*a)).Float64(a).Bytes()
	data := Enc().Uint16(0).Int32(proNumber).Text("").Text(proName).Int32(zone).Doubles(params...).Object(sph).Bytes()
	datum := Enc().Text(datumName).Uint16(0).Doubles(0, 0, 0, 0, 0, 0, 0).Text("").Bytes()
	return N("Projection", "Eprj_ProParameters", data, N("Datum", "Eprj_Datum", datum))
}

// MapInfo builds a Map_Info node.
func MapInfo(proName string, ulx, uly, lrx, lry, pw, ph float64, units string) *Node {
	data := Enc().Text(proName).
		Object(Enc().Float64(ulx).Float64(uly).Bytes()).
		Object(Enc().Float64(lrx).Float64(lry).Bytes()).
		Object(Enc().Float64(pw).Float64(ph).Bytes()).
		Text(units).Bytes()
	return N("Map_Info", "Eprj_MapInfo", data)
}

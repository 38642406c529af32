package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/log"
)

// ERDAS projection numbers (Eprj_ProParameters.proNumber).
const (
	ProjLatLong          = 0
	ProjUTM              = 1
	ProjStatePlane       = 2
	ProjAlbers           = 3
	ProjLambertConformal = 4
	ProjMercator         = 5
	ProjPolarStereo      = 6
	ProjPolyconic        = 7
	ProjEquidistantConic = 8
	ProjTransverseMerc   = 9
	ProjStereographic    = 10
	ProjLambertAzimuthal = 11
	ProjAzimuthalEquidis = 12
	ProjGnomonic         = 13
	ProjOrthographic     = 14
	ProjSinusoidal       = 16
	ProjEquirectangular  = 17
	ProjMillerCylinder   = 18
	ProjVanDerGrinten    = 19
)

// ErrUnsupportedProjection is returned for projections with no PROJ.4 mapping.
var ErrUnsupportedProjection = errors.New("unsupported projection")

const (
	rad2deg    = 180 / math.Pi
	rad2arcsec = rad2deg * 3600
)

// Proj4Builder builds spatial references by translating the projection
// records to a PROJ.4 definition.
type Proj4Builder struct {
	Logger *zap.Logger
}

// BuildSRS implements SRSBuilder.
func (b Proj4Builder) BuildSRS(info ProjectionInfo) (*SpatialReference, error) {
	def, err := Proj4String(info)
	if err != nil {
		return nil, err
	}
	srs := &SpatialReference{
		Name:  info.Name(),
		Proj4: def,
		Info:  info,
	}
	if srs.SR, err = proj.Parse(def); err != nil {
		log.Or(b.Logger).Debug("PROJ.4 definition not parseable, reprojection unavailable",
			zap.String("proj4", def), zap.Error(err))
		srs.SR = nil
	}
	return srs, nil
}

type proj4Params []string

func (p *proj4Params) add(key string, v float64) {
	*p = append(*p, "+"+key+"="+strconv.FormatFloat(v, 'f', -1, 64))
}

func (p *proj4Params) flag(s string) {
	*p = append(*p, "+"+s)
}

// Proj4String translates projection records to a PROJ.4 definition.
func Proj4String(info ProjectionInfo) (string, error) {
	pro := info.Projection
	if pro == nil {
		return "", fmt.Errorf("%w: no projection parameters", ErrUnsupportedProjection)
	}
	if pro.Type == ProjectionExternal {
		return "", fmt.Errorf("%w: external projection %q", ErrUnsupportedProjection, pro.Name)
	}

	p := pro.Params
	deg := func(i int) float64 { return p[i] * rad2deg }
	var out proj4Params
	falseOrigin := func() {
		out.add("x_0", p[6])
		out.add("y_0", p[7])
	}

	switch pro.Number {
	case ProjLatLong:
		out.flag("proj=longlat")
	case ProjUTM:
		out.flag("proj=utm")
		out.add("zone", float64(pro.Zone))
		if p[3] < 0 {
			out.flag("south")
		}
	case ProjAlbers, ProjLambertConformal:
		name := "aea"
		if pro.Number == ProjLambertConformal {
			name = "lcc"
		}
		out.flag("proj=" + name)
		out.add("lat_1", deg(2))
		out.add("lat_2", deg(3))
		out.add("lat_0", deg(5))
		out.add("lon_0", deg(4))
		falseOrigin()
	case ProjMercator:
		out.flag("proj=merc")
		out.add("lat_ts", deg(5))
		out.add("lon_0", deg(4))
		falseOrigin()
	case ProjPolarStereo:
		lat0 := 90.0
		if p[5] < 0 {
			lat0 = -90
		}
		out.flag("proj=stere")
		out.add("lat_0", lat0)
		out.add("lat_ts", deg(5))
		out.add("lon_0", deg(4))
		out.add("k", 1)
		falseOrigin()
	case ProjPolyconic:
		out.flag("proj=poly")
		out.add("lat_0", deg(5))
		out.add("lon_0", deg(4))
		falseOrigin()
	case ProjEquidistantConic:
		lat2 := deg(2)
		if p[8] != 0 {
			lat2 = deg(3)
		}
		out.flag("proj=eqdc")
		out.add("lat_1", deg(2))
		out.add("lat_2", lat2)
		out.add("lat_0", deg(5))
		out.add("lon_0", deg(4))
		falseOrigin()
	case ProjTransverseMerc:
		out.flag("proj=tmerc")
		out.add("lat_0", deg(5))
		out.add("lon_0", deg(4))
		out.add("k", p[2])
		falseOrigin()
	case ProjStereographic, ProjLambertAzimuthal, ProjAzimuthalEquidis, ProjGnomonic, ProjOrthographic:
		name := map[int]string{
			ProjStereographic:    "stere",
			ProjLambertAzimuthal: "laea",
			ProjAzimuthalEquidis: "aeqd",
			ProjGnomonic:         "gnom",
			ProjOrthographic:     "ortho",
		}[pro.Number]
		out.flag("proj=" + name)
		out.add("lat_0", deg(5))
		out.add("lon_0", deg(4))
		if pro.Number == ProjStereographic {
			out.add("k", 1)
		}
		falseOrigin()
	case ProjSinusoidal, ProjMillerCylinder, ProjVanDerGrinten:
		name := map[int]string{
			ProjSinusoidal:     "sinu",
			ProjMillerCylinder: "mill",
			ProjVanDerGrinten:  "vandg",
		}[pro.Number]
		out.flag("proj=" + name)
		out.add("lon_0", deg(4))
		falseOrigin()
	case ProjEquirectangular:
		out.flag("proj=eqc")
		out.add("lat_ts", deg(5))
		out.add("lon_0", deg(4))
		falseOrigin()
	default:
		return "", fmt.Errorf("%w: ERDAS projection number %d (%s)", ErrUnsupportedProjection, pro.Number, pro.Name)
	}

	datumParams(&out, info.Datum, pro.Spheroid)
	if pro.Number != ProjLatLong {
		if u := proj4Units(info.Units()); u != "" {
			out.flag("units=" + u)
		}
	}
	out.flag("no_defs")
	return strings.Join(out, " "), nil
}

func datumParams(out *proj4Params, d *Datum, sph Spheroid) {
	if d != nil {
		switch normalizeName(d.Name) {
		case "wgs84":
			out.flag("datum=WGS84")
			return
		case "nad83":
			out.flag("datum=NAD83")
			return
		case "nad27":
			out.flag("datum=NAD27")
			return
		}
	}

	if e := ellipsoidCode(sph.Name); e != "" {
		out.flag("ellps=" + e)
	} else if sph.A > 0 && sph.B > 0 {
		out.add("a", sph.A)
		out.add("b", sph.B)
	} else {
		out.flag("ellps=WGS84")
	}

	if d != nil && d.Type == DatumParametric && d.Params != [7]float64{} {
		v := []float64{
			d.Params[0], d.Params[1], d.Params[2],
			negate(d.Params[3] * rad2arcsec), negate(d.Params[4] * rad2arcsec), negate(d.Params[5] * rad2arcsec),
			d.Params[6] * 1e6,
		}
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = strconv.FormatFloat(x, 'f', -1, 64)
		}
		out.flag("towgs84=" + strings.Join(parts, ","))
	}
}

// negate flips the sign without producing negative zero.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

func ellipsoidCode(name string) string {
	switch normalizeName(name) {
	case "wgs84":
		return "WGS84"
	case "wgs72":
		return "WGS72"
	case "grs1980", "grs80":
		return "GRS80"
	case "clarke1866":
		return "clrk66"
	case "clarke1880":
		return "clrk80"
	case "international1909", "international1924":
		return "intl"
	case "bessel", "bessel1841":
		return "bessel"
	case "airy", "airy1830":
		return "airy"
	case "modifiedairy":
		return "mod_airy"
	case "australiannational":
		return "aust_SA"
	case "krasovsky", "krassovsky":
		return "krass"
	case "everest":
		return "evrst30"
	}
	return ""
}

func proj4Units(units string) string {
	switch normalizeName(units) {
	case "", "meters", "meter", "metres", "metre":
		return "m"
	case "feet", "ussurveyfeet", "usfeet":
		return "us-ft"
	case "internationalfeet":
		return "ft"
	case "kilometers", "kilometres":
		return "km"
	}
	return ""
}

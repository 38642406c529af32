//go:build gdal

package gdalsrs

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/ctessum/geom/proj"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/log"
	"github.com/beetlebugorg/aoi/pkg/aoi"
)

// ErrNoAuthority is returned by EPSG when OGR cannot identify the CRS.
var ErrNoAuthority = errors.New("no EPSG authority for spatial reference")

// Builder is an aoi.SRSBuilder backed by OGR.
type Builder struct {
	Logger *zap.Logger

	// OGR spatial reference handles are not safe for concurrent use.
	mu sync.Mutex
}

var _ aoi.SRSBuilder = (*Builder)(nil)

// BuildSRS translates info to PROJ.4, imports it into OGR and exports WKT.
// A missing EPSG code is not an error.
func (b *Builder) BuildSRS(info aoi.ProjectionInfo) (*aoi.SpatialReference, error) {
	def, err := aoi.Proj4String(info)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ref := gdal.CreateSpatialReference("")
	defer ref.Destroy()
	if err := ref.FromProj4(def); err != nil {
		return nil, fmt.Errorf("import %q: %w", def, err)
	}
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)

	wkt, err := ref.ToWKT()
	if err != nil {
		return nil, fmt.Errorf("export WKT: %w", err)
	}

	srs := &aoi.SpatialReference{
		Name:  info.Name(),
		Proj4: def,
		WKT:   wkt,
		Info:  info,
	}

	logger := log.Or(b.Logger)
	if code, err := epsg(ref, logger.With(zap.String("proj4", def))); err == nil {
		srs.EPSG = code
	} else {
		logger.Debug("EPSG code not identified", zap.String("proj4", def), zap.Error(err))
	}

	if sr, err := proj.Parse(def); err == nil {
		srs.SR = sr
	} else {
		logger.Warn("PROJ.4 definition not usable for reprojection",
			zap.String("proj4", def), zap.Error(err))
	}
	return srs, nil
}

func epsg(ref gdal.SpatialReference, logger *zap.Logger) (int, error) {
	// fails for custom projections, which then carry no AUTHORITY node
	if err := ref.AutoIdentifyEPSG(); err != nil {
		logger.Debug("EPSG auto-identification failed", zap.Error(err))
	}
	raw, ok := ref.AttrValue("AUTHORITY", 1)
	if !ok || raw == "" {
		return 0, ErrNoAuthority
	}
	return strconv.Atoi(raw)
}

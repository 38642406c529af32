package aoi

import (
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/parser"
)

// Options configures how a file is opened.
type Options struct {
	// EllipseSteps is the number of perimeter samples per ellipse.
	// Zero selects the default of 36.
	EllipseSteps int

	// Logger receives diagnostics about skipped shapes and objects.
	// nil uses a no-op logger unless the process logger was replaced.
	Logger *zap.Logger

	// SRSBuilder builds the layer's spatial reference from the projection
	// records. nil translates them to PROJ.4.
	SRSBuilder SRSBuilder
}

// DefaultOptions returns options with defaults.
func DefaultOptions() Options {
	return Options{EllipseSteps: parser.DefaultEllipseSteps}
}

// OptionsFromEnv returns DefaultOptions with EllipseSteps read from the
// AOI_ELLIPSIS_STEPS environment variable. Invalid values log a warning and
// keep the default.
func OptionsFromEnv() Options {
	return Options{EllipseSteps: parser.OptionsFromEnv().EllipseSteps}
}

func (o Options) internal(logger *zap.Logger) parser.Options {
	return parser.Options{
		EllipseSteps: o.EllipseSteps,
		Logger:       logger,
		SRSBuilder:   o.SRSBuilder,
	}
}

// SpatialReference is the coordinate reference system of a layer.
type SpatialReference = parser.SpatialReference

// ProjectionInfo holds the raw projection records of a file.
type ProjectionInfo = parser.ProjectionInfo

// SRSBuilder turns projection records into a SpatialReference.
type SRSBuilder = parser.SRSBuilder

// Proj4Builder is the default SRSBuilder.
type Proj4Builder = parser.Proj4Builder

// Schema describes the attribute fields and geometry type of a layer.
type Schema = parser.Schema

// FieldDefn describes one attribute field.
type FieldDefn = parser.FieldDefn

// Stats counts decoded and dropped shapes and objects.
type Stats = parser.Stats

// AttributeFilter accepts or rejects a feature by its attributes.
type AttributeFilter = parser.AttributeFilter

// Attribute names of the AOI schema.
const (
	AttrName        = parser.AttrName
	AttrDescription = parser.AttrDescription
)

// AttributeEquals matches features whose attribute equals value.
func AttributeEquals(name string, value interface{}) AttributeFilter {
	return parser.AttributeEquals(name, value)
}

// AttributeContains matches features whose string attribute contains substr, ignoring case.
func AttributeContains(name, substr string) AttributeFilter {
	return parser.AttributeContains(name, substr)
}

// Proj4String translates projection records to a PROJ.4 definition.
func Proj4String(info ProjectionInfo) (string, error) {
	return parser.Proj4String(info)
}

// Errors returned by Open.
var (
	ErrNotAOI    = parser.ErrNotAOI
	ErrNoAOINode = parser.ErrNoAOINode
)

package parser

import (
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/log"
)

// FieldDefn describes one attribute field of the layer schema.
type FieldDefn struct {
	Name string
	Type string
}

// Schema describes the features of a layer.
type Schema struct {
	Name         string
	Fields       []FieldDefn
	GeometryType string
}

// Layer yields the annotation objects below one AOInode as features.
//
// A Layer holds cursor state and is not safe for concurrent use.
type Layer struct {
	name    string
	root    Node
	logger  *zap.Logger
	builder SRSBuilder
	walker  walker
	cursor  objectCursor
	nextFID int64

	spatialFilter *orb.Bound
	attrFilter    AttributeFilter

	srs     *SpatialReference
	srsDone bool

	stats Stats
	// set by the first NextFeature after a reset; the counters restart then
	passStarted bool
}

// NewLayer creates a layer reading the annotation objects below root.
func NewLayer(name string, root Node, opts Options) *Layer {
	logger := log.Or(opts.Logger)
	steps := opts.EllipseSteps
	if steps < 0 {
		logger.Warn("ellipse steps must be positive, using default",
			zap.Int("steps", steps), zap.Int("default", DefaultEllipseSteps))
	}
	if steps <= 0 {
		steps = DefaultEllipseSteps
	}
	builder := opts.SRSBuilder
	if builder == nil {
		builder = Proj4Builder{Logger: logger}
	}

	l := &Layer{
		name:    name,
		root:    root,
		logger:  logger.With(zap.String("layer", name)),
		builder: builder,
		cursor:  objectCursor{root: root},
	}
	l.walker = walker{ellipseSteps: steps, logger: l.logger, stats: &l.stats}
	return l
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// EllipseSteps returns the number of perimeter samples used for ellipses.
func (l *Layer) EllipseSteps() int { return l.walker.ellipseSteps }

// Schema returns the fixed AOI schema: Name and Description strings plus a
// geometry collection.
func (l *Layer) Schema() Schema {
	return Schema{
		Name: l.name,
		Fields: []FieldDefn{
			{Name: AttrName, Type: "String"},
			{Name: AttrDescription, Type: "String"},
		},
		GeometryType: "GeometryCollection",
	}
}

// ResetReading restarts reading at the first annotation object and rewinds
// feature ids to 0. Stats keep describing the previous pass until the next
// NextFeature call.
func (l *Layer) ResetReading() {
	l.cursor.reset()
	l.nextFID = 0
	l.passStarted = false
}

// SetSpatialFilter keeps only features intersecting b. nil clears the filter.
func (l *Layer) SetSpatialFilter(b *orb.Bound) {
	if b == nil {
		l.spatialFilter = nil
		return
	}
	bound := *b
	l.spatialFilter = &bound
}

// SetAttributeFilter keeps only features accepted by f. nil clears the filter.
func (l *Layer) SetAttributeFilter(f AttributeFilter) {
	l.attrFilter = f
}

// Stats returns the decode counters of the current reading pass, or of the
// last one when reading was reset since.
func (l *Layer) Stats() Stats { return l.stats }

// TestCapability reports optional layer capabilities. AOI layers are
// read-only and offer no random access or fast counts.
func (l *Layer) TestCapability(string) bool { return false }

package aoi

import (
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/log"
	"github.com/beetlebugorg/aoi/internal/parser"
)

// Identify reports whether path looks like an AOI file, without parsing it.
func Identify(path string) bool {
	return parser.Identify(path)
}

// Open opens an AOI file with default options.
func Open(path string) (*Dataset, error) {
	return OpenWithOptions(path, DefaultOptions())
}

// OpenWithOptions opens an AOI file.
//
// The file name must end in .aoi (optionally followed by .gz or .zst), the
// file must be an HFA container, and its root must hold an AOInode.
func OpenWithOptions(path string, opts Options) (*Dataset, error) {
	id := uuid.New()
	logger := log.Or(opts.Logger).With(zap.String("dataset", id.String()))

	internal, err := parser.Open(path, opts.internal(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("opened AOI dataset",
		zap.String("path", path), zap.Int32("version", internal.File.Version()))

	return &Dataset{
		id:       id,
		path:     path,
		internal: internal,
		layer:    &Layer{internal: internal.Layer},
	}, nil
}

// Dataset is an opened AOI file. It always has exactly one layer.
type Dataset struct {
	id       uuid.UUID
	path     string
	internal *parser.Dataset
	layer    *Layer
}

// ID returns a random identifier attached to every log entry of the dataset.
func (d *Dataset) ID() string { return d.id.String() }

// Name returns the dataset name, the file's base name without extensions.
func (d *Dataset) Name() string { return d.internal.Name }

// Path returns the path the dataset was opened from.
func (d *Dataset) Path() string { return d.path }

// Version returns the HFA container version.
func (d *Dataset) Version() int32 { return d.internal.File.Version() }

// LayerCount returns 1.
func (d *Dataset) LayerCount() int { return 1 }

// Layer returns the dataset's only layer.
func (d *Dataset) Layer() *Layer { return d.layer }

// Close releases the file. Features already read stay valid.
func (d *Dataset) Close() error {
	return d.internal.Close()
}

// Layer reads the annotation objects of a dataset as features.
//
// Methods may be called from several goroutines; they are serialised.
type Layer struct {
	mu       sync.Mutex
	internal *parser.Layer

	spatialFilter *orb.Bound
	attrFilter    AttributeFilter

	// built on first use from an unfiltered scan
	index  *featureIndex
	extent orb.Bound
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.internal.Name() }

// Schema returns the fixed AOI schema.
func (l *Layer) Schema() Schema { return l.internal.Schema() }

// ResetReading restarts NextFeature at the first feature.
func (l *Layer) ResetReading() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.internal.ResetReading()
}

// NextFeature returns the next feature passing the filters, or nil at the end.
func (l *Layer) NextFeature() *Feature {
	l.mu.Lock()
	defer l.mu.Unlock()
	return newFeature(l.internal.NextFeature())
}

// SpatialReference returns the layer's coordinate reference system, or nil
// when the file does not describe a usable one.
func (l *Layer) SpatialReference() *SpatialReference {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.internal.SpatialReference()
}

// SetSpatialFilter keeps only features intersecting b. nil clears the filter.
func (l *Layer) SetSpatialFilter(b *orb.Bound) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b != nil {
		bound := *b
		b = &bound
	}
	l.spatialFilter = b
	l.internal.SetSpatialFilter(b)
}

// SetAttributeFilter keeps only features accepted by f. nil clears the filter.
func (l *Layer) SetAttributeFilter(f AttributeFilter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attrFilter = f
	l.internal.SetAttributeFilter(f)
}

// Features reads every feature passing the filters. Reading restarts from
// the first feature afterwards.
func (l *Layer) Features() []*Feature {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll()
}

// FeatureCount returns the number of features passing the filters. AOI files
// have no feature count, so this reads the whole layer.
func (l *Layer) FeatureCount() int {
	return len(l.Features())
}

// Extent returns the bound of all features, ignoring filters. Like
// FeaturesInBounds, the first call reads the whole layer and restarts reading.
func (l *Layer) Extent() orb.Bound {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buildIndex()
	return l.extent
}

// Stats returns counters of decoded and dropped shapes and objects.
func (l *Layer) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.internal.Stats()
}

// TestCapability reports optional capabilities. AOI layers have none.
func (l *Layer) TestCapability(name string) bool {
	return l.internal.TestCapability(name)
}

func (l *Layer) readAll() []*Feature {
	l.internal.ResetReading()
	var out []*Feature
	for f := l.internal.NextFeature(); f != nil; f = l.internal.NextFeature() {
		out = append(out, newFeature(f))
	}
	l.internal.ResetReading()
	return out
}

// scanUnfiltered reads every feature with the filters lifted.
func (l *Layer) scanUnfiltered() []*Feature {
	l.internal.SetSpatialFilter(nil)
	l.internal.SetAttributeFilter(nil)
	defer func() {
		l.internal.SetSpatialFilter(l.spatialFilter)
		l.internal.SetAttributeFilter(l.attrFilter)
	}()
	return l.readAll()
}

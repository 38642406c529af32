package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/hfa"
	"github.com/beetlebugorg/aoi/internal/log"
)

// EllipseStepsEnv names the environment variable OptionsFromEnv reads.
const EllipseStepsEnv = "AOI_ELLIPSIS_STEPS"

// aoiNodeName is the child of the container root holding the annotation objects.
const aoiNodeName = "AOInode"

// Options configures layer construction
type Options struct {
	// EllipseSteps is the number of perimeter samples per ellipse.
	// Zero selects DefaultEllipseSteps.
	EllipseSteps int

	// Logger receives diagnostics. nil uses the process logger.
	Logger *zap.Logger

	// SRSBuilder turns projection records into a spatial reference.
	// nil uses Proj4Builder.
	SRSBuilder SRSBuilder
}

// DefaultOptions returns options with defaults
func DefaultOptions() Options {
	return Options{EllipseSteps: DefaultEllipseSteps}
}

// ParseEllipseSteps parses a step count the way atol does: optional leading
// space and sign, then digits up to the first non-digit. Values that are not
// positive are rejected.
func ParseEllipseSteps(s string) (int, error) {
	t := strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if t != "" && (t[0] == '+' || t[0] == '-') {
		neg = t[0] == '-'
		t = t[1:]
	}
	n := 0
	for _, r := range t {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return 0, fmt.Errorf("ellipse steps %q too large", s)
		}
	}
	if neg {
		n = -n
	}
	if n <= 0 {
		return 0, fmt.Errorf("ellipse steps %q must be a positive integer", s)
	}
	return n, nil
}

// OptionsFromEnv returns DefaultOptions with EllipseSteps taken from
// AOI_ELLIPSIS_STEPS when set. An invalid value logs a warning and keeps the
// default.
func OptionsFromEnv() Options {
	opts := DefaultOptions()
	if v, ok := os.LookupEnv(EllipseStepsEnv); ok {
		n, err := ParseEllipseSteps(v)
		if err != nil {
			log.Warn("invalid "+EllipseStepsEnv+", using default",
				zap.String("value", v), zap.Int("default", DefaultEllipseSteps), zap.Error(err))
		} else {
			opts.EllipseSteps = n
		}
	}
	return opts
}

// Dataset is an opened AOI file. It has exactly one layer.
type Dataset struct {
	Name  string
	File  *hfa.File
	Layer *Layer
}

// Close releases the underlying file.
func (d *Dataset) Close() error {
	return d.File.Close()
}

// stripCompression removes a trailing .gz or .zst.
func stripCompression(name string) string {
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

func hasAOIExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(stripCompression(filename)), ".aoi")
}

// LayerName derives the layer name from a file path: its base name without
// extensions.
func LayerName(filename string) string {
	base := filepath.Base(stripCompression(filename))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Identify reports whether filename looks like an AOI file: it has the .aoi
// extension and, for uncompressed files, starts with the HFA header tag.
func Identify(filename string) bool {
	if !hasAOIExtension(filename) {
		return false
	}
	if stripCompression(filename) != filename {
		return true
	}
	f, err := os.Open(filename)
	if err != nil {
		return false
	}
	defer f.Close()
	header := make([]byte, len(hfa.HeaderTag))
	if _, err := f.Read(header); err != nil {
		return false
	}
	return hfa.IsHFA(header)
}

// Open opens an AOI file and builds its layer.
func Open(filename string, opts Options) (*Dataset, error) {
	if !hasAOIExtension(filename) {
		return nil, fmt.Errorf("%s: %w", filename, ErrNotAOI)
	}

	f, err := hfa.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	f.SetLogger(opts.Logger)

	aoiNode := f.Root().NamedChild(aoiNodeName)
	if aoiNode == nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", filename, ErrNoAOINode)
	}

	name := LayerName(filename)
	return &Dataset{
		Name:  name,
		File:  f,
		Layer: NewLayer(name, WrapEntry(aoiNode), opts),
	}, nil
}

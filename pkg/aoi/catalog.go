package aoi

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/paulmach/orb"
)

// Catalog summarises the AOI files of a directory tree, so the files covering
// an area can be found without reading them again.
type Catalog struct {
	Entries []CatalogEntry
}

// CatalogEntry describes one AOI file.
type CatalogEntry struct {
	Path         string
	Name         string
	FeatureCount int
	Extent       orb.Bound // empty when the file has no features
	SRS          string    // PROJ.4 definition, "" when unknown
	Stats        Stats
}

// ScanDir builds a catalog of every AOI file under dir. Files that look like
// AOI files but fail to open are skipped; their errors are returned alongside
// the catalog.
//
// Example:
//
//	catalog, errs := aoi.ScanDir("annotations", aoi.DefaultLoadOptions())
//	for _, e := range catalog.Query(viewport) {
//	    fmt.Println(e.Path, e.FeatureCount)
//	}
func ScanDir(dir string, opts LoadOptions) (*Catalog, []error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && Identify(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return &Catalog{}, []error{fmt.Errorf("scan %s: %w", dir, err)}
	}

	opts.SkipErrors = true
	datasets, errs := OpenParallel(paths, opts)

	catalog := &Catalog{Entries: make([]CatalogEntry, 0, len(datasets))}
	for _, ds := range datasets {
		catalog.Entries = append(catalog.Entries, newCatalogEntry(ds))
		ds.Close()
	}
	sort.Slice(catalog.Entries, func(i, j int) bool {
		return catalog.Entries[i].Path < catalog.Entries[j].Path
	})
	return catalog, errs
}

func newCatalogEntry(ds *Dataset) CatalogEntry {
	layer := ds.Layer()
	entry := CatalogEntry{
		Path:         ds.Path(),
		Name:         ds.Name(),
		FeatureCount: layer.FeatureCount(),
	}
	if entry.FeatureCount > 0 {
		entry.Extent = layer.Extent()
	}
	if srs := layer.SpatialReference(); srs != nil {
		entry.SRS = srs.Proj4
	}
	entry.Stats = layer.Stats()
	return entry
}

// Query returns the entries whose extent intersects b. Entries without
// features never match. Extents are compared as given, so b must be in the
// files' coordinate system.
func (c *Catalog) Query(b orb.Bound) []CatalogEntry {
	var matches []CatalogEntry
	for _, e := range c.Entries {
		if e.FeatureCount > 0 && e.Extent.Intersects(b) {
			matches = append(matches, e)
		}
	}
	return matches
}

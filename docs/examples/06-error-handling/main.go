package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func safeOpen(path string) (*aoi.Dataset, error) {
	ds, err := aoi.Open(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("annotation file not found: %s", path)
	case errors.Is(err, aoi.ErrNotAOI):
		return nil, fmt.Errorf("%s is not an AOI file", path)
	case errors.Is(err, aoi.ErrNoAOINode):
		return nil, fmt.Errorf("%s is an HFA file without annotations", path)
	default:
		return nil, err
	}

	layer := ds.Layer()
	if layer.FeatureCount() == 0 {
		log.Printf("Warning: %s contains no features", path)
	}

	// Malformed shapes and objects are dropped, not fatal
	if stats := layer.Stats(); stats.ShapesSkipped > 0 || stats.ObjectsSkipped > 0 {
		log.Printf("Warning: %s: %d shapes and %d objects skipped",
			path, stats.ShapesSkipped, stats.ObjectsSkipped)
	}
	return ds, nil
}

func main() {
	ds, err := safeOpen("fields.aoi")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	defer ds.Close()
	fmt.Printf("Successfully opened %s: %d features\n", ds.Name(), ds.Layer().FeatureCount())

	if _, err := safeOpen("missing.aoi"); err != nil {
		log.Printf("Expected error: %v", err)
	}
}

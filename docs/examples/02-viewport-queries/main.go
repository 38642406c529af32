package main

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func main() {
	ds, err := aoi.Open("fields.aoi")
	if err != nil {
		log.Fatal(err)
	}
	defer ds.Close()

	// Viewport in the file's map coordinates
	viewport := orb.Bound{
		Min: orb.Point{500000, 4000000},
		Max: orb.Point{505000, 4005000},
	}

	// The first query builds an R-tree over all features
	features := ds.Layer().FeaturesInBounds(viewport)

	fmt.Printf("Visible features: %d\n", len(features))

	for _, f := range features {
		for _, g := range f.Geometry() {
			fmt.Printf("  %s: %s\n", f.Name(), g.GeoJSONType())
		}
	}
}

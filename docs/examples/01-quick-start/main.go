package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func main() {
	ds, err := aoi.Open("fields.aoi")
	if err != nil {
		log.Fatal(err)
	}
	defer ds.Close()

	layer := ds.Layer()
	fmt.Printf("Layer: %s\n", layer.Name())
	fmt.Printf("Features: %d\n", layer.FeatureCount())

	extent := layer.Extent()
	fmt.Printf("Extent: [%.2f,%.2f] to [%.2f,%.2f]\n",
		extent.Min[0], extent.Min[1],
		extent.Max[0], extent.Max[1])

	for f := layer.NextFeature(); f != nil; f = layer.NextFeature() {
		fmt.Printf("  %d %s: %s\n", f.ID(), f.Name(), f.WKT())
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func main() {
	ds, err := aoi.Open("fields.aoi")
	if err != nil {
		log.Fatal(err)
	}
	defer ds.Close()

	layer := ds.Layer()
	srs := layer.SpatialReference()
	if srs == nil {
		log.Fatal("fields.aoi has no coordinate reference system")
	}
	fmt.Fprintf(os.Stderr, "Source CRS: %s (%s)\n", srs.Name, srs.Proj4)

	toWGS84, err := srs.ToWGS84()
	if err != nil {
		log.Fatal(err)
	}

	fc := geojson.NewFeatureCollection()
	for f := layer.NextFeature(); f != nil; f = layer.NextFeature() {
		geo, err := f.Reproject(toWGS84)
		if err != nil {
			log.Printf("feature %d: %v", f.ID(), err)
			continue
		}
		fc.Append(geo.GeoJSON())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		log.Fatal(err)
	}
}

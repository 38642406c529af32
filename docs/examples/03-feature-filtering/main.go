package main

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

// Features whose name mentions a field
func fields(layer *aoi.Layer) []*aoi.Feature {
	layer.SetAttributeFilter(aoi.AttributeContains(aoi.AttrName, "field"))
	defer layer.SetAttributeFilter(nil)
	return layer.Features()
}

// Features with a description, in the western half of the layer
func describedInWest(layer *aoi.Layer) []*aoi.Feature {
	extent := layer.Extent()
	west := orb.Bound{
		Min: extent.Min,
		Max: orb.Point{(extent.Min[0] + extent.Max[0]) / 2, extent.Max[1]},
	}
	layer.SetSpatialFilter(&west)
	layer.SetAttributeFilter(func(attrs map[string]interface{}) bool {
		d, _ := attrs[aoi.AttrDescription].(string)
		return d != ""
	})
	defer func() {
		layer.SetSpatialFilter(nil)
		layer.SetAttributeFilter(nil)
	}()
	return layer.Features()
}

func main() {
	ds, err := aoi.Open("fields.aoi")
	if err != nil {
		log.Fatal(err)
	}
	defer ds.Close()

	layer := ds.Layer()
	fmt.Printf("Fields: %d\n", len(fields(layer)))

	// ids are stable under filtering
	for _, f := range describedInWest(layer) {
		fmt.Printf("  %d %s: %s\n", f.ID(), f.Name(), f.Description())
	}
}

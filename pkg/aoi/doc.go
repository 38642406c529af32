// Package aoi reads ERDAS IMAGINE annotation (AOI) files as vector features.
//
// An AOI file is an HFA container holding a tree of annotation objects. Each
// object becomes one feature whose geometry is a collection of the shapes it
// carries (polygons, rectangles, ellipses, polylines and points), warped into
// map coordinates by the transform stored on each element.
//
// # Basic Usage
//
//	ds, err := aoi.Open("fields.aoi")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ds.Close()
//
//	layer := ds.Layer()
//	for f := layer.NextFeature(); f != nil; f = layer.NextFeature() {
//	    fmt.Println(f.ID(), f.Name(), f.WKT())
//	}
//
// # Filtering
//
// Spatial and attribute filters apply to NextFeature, Features and
// FeatureCount. Feature ids are assigned before filtering, so a feature keeps
// its id whatever filters are set:
//
//	layer.SetSpatialFilter(&orb.Bound{Min: orb.Point{500000, 4000000}, Max: orb.Point{510000, 4010000}})
//	layer.SetAttributeFilter(aoi.AttributeContains(aoi.AttrName, "field"))
//
// # Spatial Queries
//
// FeaturesInBounds answers viewport queries from an R-tree built on first use:
//
//	visible := layer.FeaturesInBounds(viewport)
//
// # Coordinate Reference System
//
// SpatialReference translates the projection records of the file into a
// PROJ.4 definition. Features can be reprojected with the returned
// transformer:
//
//	srs := layer.SpatialReference()
//	if srs != nil {
//	    toWGS84, err := srs.ToWGS84()
//	    ...
//	    geo, err := f.Reproject(toWGS84)
//	}
//
// # Configuration
//
// The number of points used to approximate an ellipse defaults to 36 and can
// be set with Options.EllipseSteps or the AOI_ELLIPSIS_STEPS environment
// variable through OptionsFromEnv.
//
// # Many Files
//
// OpenParallel opens a list of files with a worker pool, ScanDir summarises a
// directory tree into a Catalog that can be queried by area, and
// FeatureCache keeps the features of recently read files in memory.
package aoi

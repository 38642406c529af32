// Package gdalsrs builds AOI spatial references with GDAL/OGR, adding OGC
// WKT and an EPSG code to the PROJ.4 definition.
//
// The builder is compiled with -tags gdal; cgo and the GDAL headers are
// required:
//
//	opts := aoi.DefaultOptions()
//	opts.SRSBuilder = &gdalsrs.Builder{}
//	ds, err := aoi.OpenWithOptions("fields.aoi", opts)
package gdalsrs

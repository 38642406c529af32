package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func newFeaturesCmd(a *app) *cobra.Command {
	var (
		bbox     string
		name     string
		wgs84    bool
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "features FILE",
		Short: "List the features of an AOI file",
		Long: `List the features of an AOI file as text, GeoJSON or WKT.

--bbox is given in the file's coordinates, before any --wgs84 reprojection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer ds.Close()

			layer := ds.Layer()
			if bbox != "" {
				b, err := parseBBox(bbox)
				if err != nil {
					return err
				}
				layer.SetSpatialFilter(&b)
			}
			if name != "" {
				layer.SetAttributeFilter(aoi.AttributeContains(aoi.AttrName, name))
			}

			features := layer.Features()
			if wgs84 {
				if features, err = toWGS84(layer, features); err != nil {
					return err
				}
			}
			if validate {
				reportInvalid(cmd.ErrOrStderr(), features, wgs84)
			}
			return writeFeatures(cmd.OutOrStdout(), a.cfg.Format, features)
		},
	}

	cmd.Flags().StringVar(&a.flags.format, "format", formatText, "output format: text, geojson or wkt")
	cmd.Flags().StringVar(&bbox, "bbox", "", "keep features intersecting minx,miny,maxx,maxy")
	cmd.Flags().StringVar(&name, "name", "", "keep features whose name contains this text (case-insensitive)")
	cmd.Flags().BoolVar(&wgs84, "wgs84", false, "reproject to WGS84 longitude/latitude")
	cmd.Flags().BoolVar(&validate, "validate", false, "report features with degenerate or out-of-range geometry")
	return cmd
}

var errNoSRS = errors.New("file has no usable spatial reference")

func toWGS84(layer *aoi.Layer, features []*aoi.Feature) ([]*aoi.Feature, error) {
	srs := layer.SpatialReference()
	if srs == nil {
		return nil, errNoSRS
	}
	transform, err := srs.ToWGS84()
	if err != nil {
		return nil, fmt.Errorf("reproject from %s: %w", srs.Name, err)
	}
	out := make([]*aoi.Feature, len(features))
	for i, f := range features {
		if out[i], err = f.Reproject(transform); err != nil {
			return nil, fmt.Errorf("feature %d: %w", f.ID(), err)
		}
	}
	return out, nil
}

// reportInvalid writes one warning per feature breaking geometry rules.
func reportInvalid(w io.Writer, features []*aoi.Feature, lonLat bool) {
	for _, f := range features {
		err := f.Validate()
		if err == nil && lonLat {
			err = f.ValidateLonLat()
		}
		if err != nil {
			fmt.Fprintf(w, "warning: %s: %v\n", f.Name(), err)
		}
	}
}

func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox %q: want minx,miny,maxx,maxy", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("bbox %q: minimum exceeds maximum", s)
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

func writeFeatures(out io.Writer, format string, features []*aoi.Feature) error {
	switch format {
	case formatGeoJSON:
		fc := geojson.NewFeatureCollection()
		for _, f := range features {
			fc.Append(f.GeoJSON())
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(fc)
	case formatWKT:
		for _, f := range features {
			fmt.Fprintf(out, "%d\t%s\t%s\n", f.ID(), f.Name(), f.WKT())
		}
	default:
		for _, f := range features {
			fmt.Fprintf(out, "#%d %s", f.ID(), f.Name())
			if d := f.Description(); d != "" {
				fmt.Fprintf(out, " (%s)", d)
			}
			fmt.Fprintf(out, ": %d geometries, %s\n", len(f.Geometry()), formatBound(f.Bound()))
		}
	}
	return nil
}

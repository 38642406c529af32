package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func newSRSCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "srs FILE",
		Short: "Print the spatial reference of an AOI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer ds.Close()

			srs := ds.Layer().SpatialReference()
			if srs == nil {
				return errNoSRS
			}
			printSRS(cmd.OutOrStdout(), srs)
			return nil
		},
	}
}

func printSRS(out io.Writer, srs *aoi.SpatialReference) {
	fmt.Fprintf(out, "name:  %s\n", srs.Name)
	fmt.Fprintf(out, "proj4: %s\n", srs.Proj4)
	if srs.EPSG != 0 {
		fmt.Fprintf(out, "epsg:  %d\n", srs.EPSG)
	}
	if srs.WKT != "" {
		fmt.Fprintf(out, "wkt:   %s\n", srs.WKT)
	}

	info := srs.Info
	if d := info.Datum; d != nil {
		fmt.Fprintf(out, "datum: %s (type %d, params %v)\n", d.Name, d.Type, d.Params)
	}
	if p := info.Projection; p != nil {
		fmt.Fprintf(out, "projection: %s (number %d, zone %d)\n", p.Name, p.Number, p.Zone)
		fmt.Fprintf(out, "spheroid: %s a=%g b=%g\n", p.Spheroid.Name, p.Spheroid.A, p.Spheroid.B)
	}
	if m := info.MapInfo; m != nil {
		fmt.Fprintf(out, "map info: %s, upper left (%g, %g), lower right (%g, %g), pixel %gx%g %s\n",
			m.ProName, m.UpperLeftCenter.X, m.UpperLeftCenter.Y,
			m.LowerRightCenter.X, m.LowerRightCenter.Y, m.PixelWidth, m.PixelHeight, m.Units)
	} else if m := info.MapInformation; m != nil {
		fmt.Fprintf(out, "map information: %s %s\n", m.Projection, m.Units)
	}
}

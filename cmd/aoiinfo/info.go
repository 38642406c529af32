package main

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Summarise AOI files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := aoi.DefaultLoadOptions()
			opts.Options = a.options()
			if a.cfg.Workers > 0 {
				opts.Workers = a.cfg.Workers
			}
			opts.ErrorLog = cmd.ErrOrStderr()

			datasets, errs := aoi.OpenParallel(args, opts)
			defer func() {
				for _, ds := range datasets {
					ds.Close()
				}
			}()

			out := cmd.OutOrStdout()
			for i, ds := range datasets {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printInfo(out, ds)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d file(s) could not be opened", len(errs), len(args))
			}
			return nil
		},
	}
}

func printInfo(out io.Writer, ds *aoi.Dataset) {
	layer := ds.Layer()
	count := layer.FeatureCount()
	stats := layer.Stats()

	fmt.Fprintf(out, "%s (HFA version %d)\n", ds.Name(), ds.Version())
	fmt.Fprintf(out, "  features: %d\n", count)
	if count > 0 {
		fmt.Fprintf(out, "  extent:   %s\n", formatBound(layer.Extent()))
	}
	if srs := layer.SpatialReference(); srs != nil {
		fmt.Fprintf(out, "  srs:      %s (%s)\n", srs.Name, srs.Proj4)
	} else {
		fmt.Fprintln(out, "  srs:      none")
	}
	fmt.Fprintf(out, "  shapes:   %d decoded, %d skipped\n", stats.ShapesDecoded, stats.ShapesSkipped)
	if stats.ObjectsSkipped > 0 {
		fmt.Fprintf(out, "  objects:  %d skipped\n", stats.ObjectsSkipped)
	}
}

func formatBound(b orb.Bound) string {
	return fmt.Sprintf("(%g, %g) - (%g, %g)", b.Min[0], b.Min[1], b.Max[0], b.Max[1])
}

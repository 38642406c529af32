package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func newCatalogCmd(a *app) *cobra.Command {
	var bbox string

	cmd := &cobra.Command{
		Use:   "catalog DIR",
		Short: "List the AOI files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := aoi.DefaultLoadOptions()
			opts.Options = a.options()
			if a.cfg.Workers > 0 {
				opts.Workers = a.cfg.Workers
			}
			opts.ErrorLog = cmd.ErrOrStderr()

			catalog, errs := aoi.ScanDir(args[0], opts)
			entries := catalog.Entries
			if bbox != "" {
				b, err := parseBBox(bbox)
				if err != nil {
					return err
				}
				entries = catalog.Query(b)
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s\t%d\t", e.Path, e.FeatureCount)
				if e.FeatureCount > 0 {
					fmt.Fprint(out, formatBound(e.Extent))
				}
				fmt.Fprintln(out)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d file(s) could not be read", len(errs))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bbox, "bbox", "", "keep files whose extent intersects minx,miny,maxx,maxy")
	return cmd
}

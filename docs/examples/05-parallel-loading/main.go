package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/beetlebugorg/aoi/pkg/aoi"
)

func main() {
	paths, err := filepath.Glob("annotations/*.aoi*")
	if err != nil {
		log.Fatal(err)
	}

	opts := aoi.DefaultLoadOptions()
	opts.Workers = 8
	opts.ErrorLog = os.Stderr
	opts.Progress = func(loaded, total int) {
		fmt.Printf("\rOpening: %d/%d", loaded, total)
	}

	datasets, errs := aoi.OpenParallel(paths, opts)
	fmt.Println()
	defer func() {
		for _, ds := range datasets {
			ds.Close()
		}
	}()

	total := 0
	for _, ds := range datasets {
		n := ds.Layer().FeatureCount()
		stats := ds.Layer().Stats()
		fmt.Printf("%-30s %5d features, %d shapes skipped\n", ds.Name(), n, stats.ShapesSkipped)
		total += n
	}
	fmt.Printf("Opened %d files (%d failed), %d features\n", len(datasets), len(errs), total)
}

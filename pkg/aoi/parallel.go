package aoi

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// LoadOptions controls parallel opening and error handling.
type LoadOptions struct {
	// Options is applied to every file.
	Options Options

	// Workers specifies the number of opener goroutines.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors causes opening to continue when individual files fail.
	// Failed files are skipped and their errors collected.
	// When false, the first error closes every dataset opened so far and is
	// returned alone.
	SkipErrors bool

	// Progress is called after each file is processed, successfully or not.
	Progress func(loaded, total int)

	// ErrorLog receives one line per failed file.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Options:    DefaultOptions(),
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// OpenParallel opens many AOI files with a pool of workers.
//
// Datasets are returned in the order of paths, with failed files left out.
// The caller closes the returned datasets.
//
// Example:
//
//	datasets, errs := aoi.OpenParallel(paths, aoi.LoadOptions{
//	    Workers:    8,
//	    SkipErrors: true,
//	    Progress: func(loaded, total int) {
//	        fmt.Printf("\rOpening: %d/%d", loaded, total)
//	    },
//	    ErrorLog: os.Stderr,
//	})
func OpenParallel(paths []string, opts LoadOptions) ([]*Dataset, []error) {
	if len(paths) == 0 {
		return []*Dataset{}, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type openResult struct {
		index int
		ds    *Dataset
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan openResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				ds, err := OpenWithOptions(paths[index], opts.Options)
				results <- openResult{index: index, ds: ds, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	opened := make(map[int]*Dataset)
	var errs []error
	var firstErr error
	loaded := 0

	for result := range results {
		loaded++
		if opts.Progress != nil {
			opts.Progress(loaded, len(paths))
		}

		if result.err != nil {
			err := fmt.Errorf("%s: %w", paths[result.index], result.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error opening AOI file: %v\n", err)
			}
			errs = append(errs, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		opened[result.index] = result.ds
	}

	if firstErr != nil && !opts.SkipErrors {
		for _, ds := range opened {
			ds.Close()
		}
		return nil, []error{firstErr}
	}

	datasets := make([]*Dataset, 0, len(opened))
	for i := range paths {
		if ds, ok := opened[i]; ok {
			datasets = append(datasets, ds)
		}
	}
	return datasets, errs
}

package aoi

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/hfa/hfatest"
)

func testLoadOptions() LoadOptions {
	opts := DefaultLoadOptions()
	opts.Options.Logger = zap.NewNop()
	opts.Workers = 3
	return opts
}

func TestOpenParallel(t *testing.T) {
	var paths []string
	for i := 0; i < 5; i++ {
		paths = append(paths, fieldsFile(t))
	}
	bad := hfatest.WriteFile(t, "broken.aoi", []byte("not a container"))
	paths = append(paths[:2], append([]string{bad}, paths[2:]...)...)

	var progress atomic.Int32
	var errLog bytes.Buffer
	opts := testLoadOptions()
	opts.Progress = func(loaded, total int) {
		progress.Add(1)
		if total != 6 {
			t.Errorf("Expected total=6, got %d", total)
		}
	}
	opts.ErrorLog = &errLog

	datasets, errs := OpenParallel(paths, opts)
	defer func() {
		for _, ds := range datasets {
			ds.Close()
		}
	}()

	if len(datasets) != 5 {
		t.Fatalf("Expected 5 datasets, got %d", len(datasets))
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "broken.aoi") {
		t.Errorf("Expected one error naming broken.aoi, got %v", errs)
	}
	if progress.Load() != 6 {
		t.Errorf("Expected 6 progress calls, got %d", progress.Load())
	}
	if !strings.Contains(errLog.String(), "broken.aoi") {
		t.Errorf("Expected error log entry, got %q", errLog.String())
	}

	ids := make(map[string]bool)
	for _, ds := range datasets {
		if ds.Layer().FeatureCount() != 3 {
			t.Errorf("Expected 3 features in %s", ds.Name())
		}
		ids[ds.ID()] = true
	}
	if len(ids) != 5 {
		t.Errorf("Expected distinct dataset ids, got %d", len(ids))
	}
}

func TestOpenParallelStopOnError(t *testing.T) {
	paths := []string{
		fieldsFile(t),
		filepath.Join(t.TempDir(), "missing.aoi"),
	}
	opts := testLoadOptions()
	opts.SkipErrors = false

	datasets, errs := OpenParallel(paths, opts)
	if datasets != nil {
		t.Errorf("Expected no datasets, got %d", len(datasets))
	}
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %v", errs)
	}
}

func TestOpenParallelEmpty(t *testing.T) {
	datasets, errs := OpenParallel(nil, testLoadOptions())
	if len(datasets) != 0 || errs != nil {
		t.Errorf("Expected nothing, got %v %v", datasets, errs)
	}
}

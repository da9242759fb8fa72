// Package batch scans directory trees for plugin files and decodes them
// in parallel. Files are independent, so the only serialization is the
// final merge of results, which is sorted by file name.
package batch

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/modforge/espdec/internal/esp"
)

// Result is the per-file outcome of a scan. Err is set when a file
// could not be decoded at all; decode warnings surface through
// WarningCount instead.
type Result struct {
	File         string         `json:"file"`
	Path         string         `json:"path"`
	Masters      []string       `json:"masters"`
	RecordCount  int            `json:"record_count"`
	GroupCount   int            `json:"group_count"`
	TypeCounts   map[string]int `json:"type_counts"`
	IsESM        bool           `json:"is_esm"`
	IsESL        bool           `json:"is_esl"`
	Incomplete   bool           `json:"incomplete"`
	WarningCount int            `json:"warning_count"`
	Err          error          `json:"-"`
	Error        string         `json:"error,omitempty"`
}

func pluginExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".esp", ".esm", ".esl":
		return true
	}
	return false
}

// Scan walks root, decodes every plugin file found and returns one
// Result per file, sorted by file name. A file that fails to decode
// produces a Result with Err set rather than failing the scan; only a
// cancelled context aborts early.
func Scan(ctx context.Context, root string, workers int, opts ...esp.Option) ([]Result, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && pluginExt(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = scanOne(path, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

func scanOne(path string, opts ...esp.Option) Result {
	res := Result{File: filepath.Base(path), Path: path}
	p, err := esp.Open(path, opts...)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}
	defer p.Close()

	res.Masters = append([]string(nil), p.Masters...)
	res.RecordCount = p.DecodedRecords
	res.GroupCount = p.GroupCount
	res.TypeCounts = p.TypeCounts
	res.IsESM = p.IsESM
	res.IsESL = p.IsESL
	res.Incomplete = p.Incomplete
	res.WarningCount = len(p.Warnings)
	return res
}

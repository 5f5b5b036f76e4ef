package scanner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/languages"
	"github.com/jenian/envguard/internal/logging"
)

// maxWorkers bounds concurrent file reads
const maxWorkers = 10

// Result is the outcome of scanning a project
type Result struct {
	Files    []string           // Files scanned, in scan order
	Keys     []analyzer.CodeKey // Keys in first-seen order
	Warnings []error            // Files that could not be read
}

// Scan finds every environment read in text. path selects the dialect and
// is recorded on each usage. Keys are returned in first-seen order.
func Scan(text, path string) []analyzer.CodeKey {
	dialect := languages.ForFile(path)
	acc := newAccumulator()

	for i, line := range strings.Split(text, "\n") {
		lineNum := i + 1
		line = strings.TrimSuffix(line, "\r")

		for _, m := range dialect.MatchLine(line) {
			usage := analyzer.Usage{
				File:   path,
				Line:   lineNum,
				Column: m.Start + 1,
				Kind:   analyzer.UsageKind(m.Kind),
				Raw:    m.Raw,
			}
			name := m.Key
			if m.Kind == languages.KindDynamic {
				name = analyzer.DynamicKeyName(path, lineNum, usage.Column)
			}
			acc.add(name, []analyzer.Usage{usage}, m.Optional)
		}
	}
	return acc.keys
}

// ScanFile reads and scans a single file
func ScanFile(path string) ([]analyzer.CodeKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Scan(string(data), path), nil
}

// ScanFiles scans files concurrently and folds the per-file results in
// input order. Unreadable files are skipped and returned as warnings.
func ScanFiles(ctx context.Context, paths []string) ([]analyzer.CodeKey, []error) {
	perFile := make([][]analyzer.CodeKey, len(paths))
	failures := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys, err := ScanFile(path)
			if err != nil {
				logging.WithFile(path).Warn("skipping unreadable file", "error", err)
				failures[i] = err
				return nil
			}
			logging.WithFile(path).Debug("scanned file", "keys", len(keys))
			perFile[i] = keys
			return nil
		})
	}

	var warnings []error
	if err := g.Wait(); err != nil {
		warnings = append(warnings, err)
	}

	acc := newAccumulator()
	for i := range paths {
		if failures[i] != nil {
			warnings = append(warnings, failures[i])
			continue
		}
		for _, k := range perFile[i] {
			acc.add(k.Name, k.Usages, k.IsOptional)
		}
	}
	return acc.keys, warnings
}

// ScanMany resolves the configured patterns under rootPath and scans every
// matching file
func (s *Scanner) ScanMany(ctx context.Context, rootPath string) (*Result, error) {
	files, err := s.Resolve(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve files under %s: %w", rootPath, err)
	}
	logging.Logger.Debug("resolved files", "root", rootPath, "count", len(files))

	keys, warnings := ScanFiles(ctx, files)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Files: files, Keys: keys, Warnings: warnings}, nil
}

// accumulator merges usages by key name, keeping first-seen order
type accumulator struct {
	keys  []analyzer.CodeKey
	index map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

func (a *accumulator) add(name string, usages []analyzer.Usage, optional bool) {
	i, ok := a.index[name]
	if !ok {
		a.index[name] = len(a.keys)
		a.keys = append(a.keys, analyzer.CodeKey{Name: name, IsOptional: optional})
		i = len(a.keys) - 1
	} else if optional {
		a.keys[i].IsOptional = true
	}
	a.keys[i].Usages = append(a.keys[i].Usages, usages...)
}

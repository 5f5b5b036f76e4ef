package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/config"
	"github.com/jenian/envguard/internal/envfile"
	"github.com/jenian/envguard/internal/languages"
	"github.com/jenian/envguard/internal/logging"
	"github.com/jenian/envguard/internal/scanner"
)

// project is one scan root with its configuration
type project struct {
	root    string
	cfg     *config.Config
	scanner *scanner.Scanner
}

// projectOptions are the flags shared by commands that scan code
type projectOptions struct {
	configPath string
	envFiles   []string
	excludes   []string
}

func loadProject(path string, opts projectOptions) (*project, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	cfg, err := config.Load(root, opts.configPath)
	if err != nil {
		return nil, err
	}
	if len(opts.envFiles) > 0 {
		cfg.EnvFiles = opts.envFiles
	}

	s := scanner.NewScanner()
	s.SetIncludeGlobs(cfg.Paths)
	if len(opts.excludes) > 0 {
		s.SetExcludeGlobs(opts.excludes)
	}
	if len(cfg.ExcludeDirs) > 0 {
		s.AddExcludeDirs(cfg.ExcludeDirs)
	}

	return &project{root: root, cfg: cfg, scanner: s}, nil
}

// envPaths resolves the configured env files against the project root
func (p *project) envPaths() []string {
	paths := make([]string, 0, len(p.cfg.EnvFiles))
	for _, f := range p.cfg.EnvFiles {
		if !filepath.IsAbs(f) {
			f = filepath.Join(p.root, f)
		}
		paths = append(paths, f)
	}
	return paths
}

// rel shortens path for display
func (p *project) rel(path string) string {
	if rel, err := filepath.Rel(p.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

// scan collects code keys with usage paths relative to the root
func (p *project) scan(ctx context.Context) (*scanner.Result, error) {
	res, err := p.scanner.ScanMany(ctx, p.root)
	if err != nil {
		return nil, err
	}
	for i := range res.Keys {
		for j := range res.Keys[i].Usages {
			u := &res.Keys[i].Usages[j]
			u.File = p.rel(u.File)
		}
	}
	return res, nil
}

// loadEnv reads every env file, logging diagnostics and shortening sources
func (p *project) loadEnv() (map[string]envfile.Entry, []*envfile.File) {
	entries, files := envfile.LoadAll(p.envPaths())
	for _, f := range files {
		for _, d := range f.Diagnostics {
			logging.WithFile(p.rel(f.Path)).Warn(d.Message, "line", d.Line)
		}
	}
	for k, e := range entries {
		e.Source = p.rel(e.Source)
		entries[k] = e
	}
	return entries, files
}

// checkResult is everything a check produces
type checkResult struct {
	analyzer.ValidationResult
	scan    *scanner.Result
	entries map[string]envfile.Entry
}

func (p *project) check(ctx context.Context) (*checkResult, error) {
	res, err := p.scan(ctx)
	if err != nil {
		return nil, err
	}
	entries, _ := p.loadEnv()
	return &checkResult{
		ValidationResult: analyzer.Reconcile(res.Keys, entries, p.cfg),
		scan:             res,
		entries:          entries,
	}, nil
}

// exitCodeFor maps a result to the process exit code
func (p *project) exitCodeFor(result analyzer.ValidationResult) int {
	if !p.cfg.ExitOnError || result.Summary.TotalIssues == 0 {
		return ExitOK
	}
	if len(result.Missing) > 0 {
		return ExitMissing
	}
	return ExitIssues
}

// reportFileCounts summarizes scanned files by dialect
func reportFileCounts(files []string) string {
	counts := make(map[string]int)
	for _, f := range files {
		counts[languages.ForFile(f).Name]++
	}
	if len(counts) == 0 {
		return fmt.Sprintf("Found %d files to scan", len(files))
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, counts[name]))
	}
	return fmt.Sprintf("Found %d files (%s)", len(files), strings.Join(parts, ", "))
}

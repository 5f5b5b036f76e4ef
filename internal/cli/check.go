package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/config"
	"github.com/jenian/envguard/internal/logging"
	"github.com/jenian/envguard/internal/output"
	"github.com/jenian/envguard/internal/watch"
)

type checkOptions struct {
	projectOptions
	json     bool
	format   string
	verbose  bool
	noColors bool
	noHeader bool
	watch    bool
}

func newCheckCmd(version string) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Validate env files against code usage",
		Long:  "Scan the project for environment variable usages and report keys that are missing, unused or empty in the env files.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), path, version, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().StringSliceVar(&opts.envFiles, "env", nil, "Env files to check (overrides config)")
	cmd.Flags().StringSliceVar(&opts.excludes, "exclude", nil, "Glob patterns to exclude from scanning")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&opts.format, "format", "", "Report format: table, json or minimal (overrides config)")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Show usage sites and values")
	cmd.Flags().BoolVar(&opts.noColors, "no-colors", false, "Disable colored output")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "Skip printing the header")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run the check whenever source or env files change")
	return cmd
}

func runCheck(ctx context.Context, out, errOut io.Writer, path, version string, opts checkOptions) error {
	p, err := loadProject(path, opts.projectOptions)
	if err != nil {
		return &ExitError{Code: ExitIssues, Err: err}
	}
	if opts.format != "" {
		p.cfg.ReportFormat = opts.format
	}
	if opts.json {
		p.cfg.ReportFormat = config.FormatJSON
	}
	if err := p.cfg.Validate(); err != nil {
		return &ExitError{Code: ExitIssues, Err: fmt.Errorf("invalid configuration: %w", err)}
	}

	reportOpts := output.Options{
		Format:  p.cfg.ReportFormat,
		Colors:  useColors(out, opts.noColors),
		Verbose: opts.verbose,
	}

	if !opts.noHeader && reportOpts.Format == config.FormatTable {
		printHeader(errOut, version)
	}

	code, err := checkOnce(ctx, out, errOut, p, reportOpts)
	if err != nil {
		return &ExitError{Code: ExitIssues, Err: err}
	}
	if !opts.watch {
		return exitCode(code)
	}

	return watchProject(ctx, out, errOut, p, reportOpts)
}

func checkOnce(ctx context.Context, out, errOut io.Writer, p *project, opts output.Options) (int, error) {
	if opts.Format == config.FormatTable {
		fmt.Fprintf(errOut, "Scanning %s...\n", p.root)
	}

	res, err := p.check(ctx)
	if err != nil {
		return ExitIssues, err
	}
	if opts.Format == config.FormatTable {
		fmt.Fprintf(errOut, "%s\n\n", reportFileCounts(res.scan.Files))
	}

	if opts.Verbose {
		missing := analyzer.MissingDetails(res.scan.Keys, res.Missing)
		unused := analyzer.UnusedDetails(res.entries, res.Unused)
		err = output.FormatDetailed(out, res.ValidationResult, missing, unused, opts)
	} else {
		err = output.Format(out, res.ValidationResult, opts)
	}
	if err != nil {
		return ExitIssues, fmt.Errorf("failed to format output: %w", err)
	}

	return p.exitCodeFor(res.ValidationResult), nil
}

// watchProject re-runs the check on changes until ctx is cancelled
func watchProject(ctx context.Context, out, errOut io.Writer, p *project, opts output.Options) error {
	envNames := make(map[string]bool)
	for _, f := range p.envPaths() {
		envNames[filepath.Clean(f)] = true
	}

	w, err := watch.New(watch.Options{
		Root:    p.root,
		SkipDir: func(path string) bool { return p.scanner.SkipDir(p.root, path) },
		Match: func(path string) bool {
			return envNames[filepath.Clean(path)] || p.scanner.Matches(p.root, path)
		},
	}, logging.Logger)
	if err != nil {
		return &ExitError{Code: ExitIssues, Err: err}
	}

	fmt.Fprintf(errOut, "Watching %s for changes (Ctrl+C to stop)\n", p.root)
	return w.Run(ctx, func(ctx context.Context) {
		fmt.Fprintf(errOut, "\nChange detected, re-running check\n")
		if _, err := checkOnce(ctx, out, errOut, p, opts); err != nil {
			logging.WithError(err).Error("check failed")
		}
	})
}

func printHeader(w io.Writer, version string) {
	header := `                                           _ 
  ___ _ ____   ____ _ _   _  __ _ _ __ __| |
 / _ \ '_ \ \ / / _` + "`" + ` | | | |/ _` + "`" + ` | '__/ _` + "`" + ` |
|  __/ | | \ V / (_| | |_| | (_| | | | (_| |
 \___|_| |_|\_/ \__, |\__,_|\__,_|_|  \__,_|
                |___/                       
`
	fmt.Fprint(w, header)
	fmt.Fprintf(w, "Version: %s\n\n", version)
}

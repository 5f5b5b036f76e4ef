package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/envfile"
)

func newCleanCmd() *cobra.Command {
	var (
		opts   projectOptions
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "clean [path]",
		Short: "Remove unused keys from env files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			p, err := loadProject(path, opts)
			if err != nil {
				return &ExitError{Code: ExitIssues, Err: err}
			}

			res, err := p.check(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitIssues, Err: err}
			}

			out := cmd.OutOrStdout()
			if len(res.Unused) == 0 {
				fmt.Fprintln(out, "✅ No unused keys found in environment files.")
				return nil
			}

			fmt.Fprintf(out, "Found %d unused keys:\n", len(res.Unused))
			for _, key := range res.Unused {
				fmt.Fprintf(out, "  - %s\n", key)
			}

			if dryRun {
				fmt.Fprintln(out, "\n🔍 Dry run mode - no files will be modified.")
				return nil
			}
			if !force {
				fmt.Fprintln(out, "\n⚠️  Use --force to actually remove these keys.")
				fmt.Fprintln(out, "💡 Use --dry-run to preview changes without modifying files.")
				return nil
			}

			for _, envPath := range p.envPaths() {
				name := p.rel(envPath)
				if !fileExists(envPath) {
					fmt.Fprintf(out, "⚠️  Skipping %s (file not found)\n", name)
					continue
				}
				if !envfile.IsDotenv(envPath) {
					fmt.Fprintf(out, "⚠️  Skipping %s (not a dotenv file)\n", name)
					continue
				}
				removed, err := envfile.RemoveKeys(envPath, res.Unused)
				if err != nil {
					return &ExitError{Code: ExitIssues, Err: err}
				}
				if removed > 0 {
					fmt.Fprintf(out, "✅ Cleaned %s\n", name)
				}
			}

			fmt.Fprintln(out, "\n🎉 Cleanup completed!")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().StringSliceVar(&opts.envFiles, "env", nil, "Env files to clean (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without removing it")
	cmd.Flags().BoolVar(&force, "force", false, "Remove the keys without asking")
	return cmd
}

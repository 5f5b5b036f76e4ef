package cli

import (
	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/envfile"
	"github.com/jenian/envguard/internal/output"
)

func newDiffCmd() *cobra.Command {
	var (
		jsonOutput bool
		noColors   bool
	)

	cmd := &cobra.Command{
		Use:   "diff <file1> <file2>",
		Short: "Compare keys across two env files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first := envfile.ParseFile(args[0])
			second := envfile.ParseFile(args[1])
			reportDiagnostics(cmd.ErrOrStderr(), first)
			reportDiagnostics(cmd.ErrOrStderr(), second)

			out := cmd.OutOrStdout()
			opts := output.Options{Colors: useColors(out, noColors)}
			if jsonOutput {
				opts.Format = output.FormatJSON
			}

			d := envfile.Compare(first.Keys, second.Keys)
			if err := output.FormatDiff(out, args[0], args[1], d, opts); err != nil {
				return &ExitError{Code: ExitIssues, Err: err}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "Disable colored output")
	return cmd
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/envfile"
)

const exampleHeader = "# Environment variables used in code\n# Generated by envguard\n\n"

func newExportCmd() *cobra.Command {
	var (
		opts            projectOptions
		outputPath      string
		includeOptional bool
	)

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Generate .env.example from code usage",
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
			if includeOptional {
				p.cfg.IncludeOptional = true
			}

			res, err := p.scan(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitIssues, Err: err}
			}

			body, err := envfile.Serialize(exampleEntries(res.Keys, p.cfg.IncludeOptional))
			if err != nil {
				return &ExitError{Code: ExitIssues, Err: err}
			}
			if err := os.WriteFile(outputPath, []byte(exampleHeader+body), 0644); err != nil {
				return &ExitError{Code: ExitIssues, Err: fmt.Errorf("failed to write %s: %w", outputPath, err)}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Generated %s\n", outputPath)
			fmt.Fprintln(out, "📝 Copy this file to .env and fill in the values")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&outputPath, "output", ".env.example", "Output file path")
	cmd.Flags().BoolVar(&includeOptional, "include-optional", false, "Include keys that have a fallback in code")
	return cmd
}

// exampleEntries lists code keys with empty values. Dynamic accesses are
// never included.
func exampleEntries(keys []analyzer.CodeKey, includeOptional bool) map[string]envfile.Entry {
	out := make(map[string]envfile.Entry)
	for _, k := range keys {
		if k.IsDynamic() || (k.IsOptional && !includeOptional) {
			continue
		}
		out[k.Name] = envfile.Entry{Key: k.Name, IsEmpty: true}
	}
	return out
}

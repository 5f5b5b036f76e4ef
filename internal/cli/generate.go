package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/schema"
)

func newGenerateCmd() *cobra.Command {
	var (
		schemaPath string
		configPath string
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate .env.example from the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaPath, configPath)
			if err != nil {
				return &ExitError{Code: ExitMissing, Err: err}
			}

			if fileExists(outputPath) && !force {
				return &ExitError{Code: ExitMissing, Err: fmt.Errorf("file %s already exists. Use --force to overwrite", outputPath)}
			}

			content := schema.NewValidator(s).GenerateEnvExample()
			if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
				return &ExitError{Code: ExitMissing, Err: fmt.Errorf("failed to write %s: %w", outputPath, err)}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Generated %s from schema\n", outputPath)
			fmt.Fprintf(out, "   %d environment variables defined\n", s.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to schema file (default: auto-detect)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&outputPath, "output", ".env.example", "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

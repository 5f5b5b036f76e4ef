package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/config"
	"github.com/jenian/envguard/internal/schema"
)

func newInitCmd() *cobra.Command {
	var (
		template   string
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a schema file from a template",
		Long:  "Create a .envschema.json (or .yaml) file from the basic or comprehensive template.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fileExists(outputPath) && !force {
				return &ExitError{Code: ExitMissing, Err: fmt.Errorf("file %s already exists. Use --force to overwrite", outputPath)}
			}

			s, err := schema.Template(template)
			if err != nil {
				return &ExitError{Code: ExitMissing, Err: err}
			}
			data, err := s.Encode(outputPath)
			if err != nil {
				return &ExitError{Code: ExitMissing, Err: fmt.Errorf("failed to encode schema: %w", err)}
			}
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return &ExitError{Code: ExitMissing, Err: fmt.Errorf("failed to write %s: %w", outputPath, err)}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Created %s with %s template\n", outputPath, template)
			fmt.Fprintf(out, "   %d environment variables defined\n\n", s.Len())
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. Edit the schema to match your project needs")
			fmt.Fprintln(out, "  2. Run envguard generate to create .env.example")
			fmt.Fprintln(out, "  3. Run envguard validate to validate your .env file")
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", schema.TemplateBasic, "Template to use: basic or comprehensive")
	cmd.Flags().StringVar(&outputPath, "output", schema.DefaultFiles[0], "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create an .envguardrc file with the default configuration",
		Long:  "Creates an .envguardrc file in the current directory. The extension of --output picks JSON, YAML or TOML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fileExists(outputPath) && !force {
				return &ExitError{Code: ExitMissing, Err: fmt.Errorf("%s already exists in the current directory", outputPath)}
			}

			data, err := config.Default().Encode(outputPath)
			if err != nil {
				return &ExitError{Code: ExitIssues, Err: fmt.Errorf("failed to encode config: %w", err)}
			}
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return &ExitError{Code: ExitIssues, Err: fmt.Errorf("failed to create %s: %w", outputPath, err)}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s in the current directory\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", ".envguardrc.json", "Output file path (.json, .yaml, .yml or .toml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

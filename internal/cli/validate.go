package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/config"
	"github.com/jenian/envguard/internal/envfile"
	"github.com/jenian/envguard/internal/output"
	"github.com/jenian/envguard/internal/schema"
)

var errNoSchema = errors.New("No schema found. Create a .envschema.json file or specify --schema path")

// loadSchema reads the schema at path. Without a path it takes the schema
// named by the configuration of the working directory, then the default
// schema files. An empty schema is an error here.
func loadSchema(path, configPath string) (*schema.Schema, error) {
	if path == "" {
		cfg, err := config.Load(".", configPath)
		if err != nil {
			return nil, err
		}
		path = cfg.Schema
	}

	var (
		s   *schema.Schema
		err error
	)
	if path != "" {
		s, err = schema.Load(path)
	} else {
		s, _, err = schema.LoadDefault(".")
	}
	if err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, errNoSchema
	}
	return s, nil
}

func newValidateCmd() *cobra.Command {
	var (
		schemaPath string
		configPath string
		envPath    string
		jsonOutput bool
		verbose    bool
		noColors   bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an env file against the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			s, err := loadSchema(schemaPath, configPath)
			if err != nil {
				return &ExitError{Code: ExitMissing, Err: err}
			}

			f := envfile.ParseFile(envPath)
			reportDiagnostics(cmd.ErrOrStderr(), f)

			result := schema.NewValidator(s).Validate(f.Values())

			opts := output.Options{Colors: useColors(out, noColors), Verbose: verbose}
			if jsonOutput {
				opts.Format = output.FormatJSON
			}
			if err := output.FormatSchema(out, result, opts); err != nil {
				return &ExitError{Code: ExitMissing, Err: err}
			}

			if result.HasIssues() {
				return exitCode(ExitMissing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to schema file (default: auto-detect)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&envPath, "env", ".env", "Env file to validate")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show field descriptions")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "Disable colored output")
	return cmd
}

// reportDiagnostics prints the parse problems of one env file
func reportDiagnostics(w io.Writer, f *envfile.File) {
	if len(f.Diagnostics) == 0 {
		return
	}
	fmt.Fprintf(w, "Errors in %s:\n", f.Path)
	for _, d := range f.Diagnostics {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

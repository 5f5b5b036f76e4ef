// Package cli wires the envguard commands together.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/logging"
	"github.com/jenian/envguard/internal/output"
)

// Exit codes
const (
	ExitOK      = 0
	ExitMissing = 1
	ExitIssues  = 2
)

// ExitError carries a process exit code out of a command. Err, when set, is
// printed before exiting.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitCode(code int) error {
	if code == ExitOK {
		return nil
	}
	return &ExitError{Code: code}
}

// NewRootCmd builds the envguard command tree
func NewRootCmd(version string) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "envguard",
		Short:         "Validate environment variables against code usage",
		Long:          "Scans source code for environment variable usages and compares them with .env files and an optional schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := logging.LoadSettings()
			if err != nil {
				return err
			}
			level := settings.Level
			if debug {
				level = "debug"
			}
			logging.InitLogger(cmd.ErrOrStderr(), level, settings.Format)
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newCheckCmd(version),
		newValidateCmd(),
		newGenerateCmd(),
		newInitCmd(),
		newInitConfigCmd(),
		newExportCmd(),
		newCleanCmd(),
		newDiffCmd(),
		newVersionCmd(version),
	)
	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// useColors decides on ANSI output for w
func useColors(w io.Writer, noColors bool) bool {
	if noColors || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return output.ColorSupported(w)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

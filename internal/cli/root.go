package cli

import (
	"github.com/ralt/repology/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultReposDir = "repos.d"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repology",
		Short: "Process and compare package records from many repositories",
		Long: `Repology reads dumps of package records produced for each repository,
checks and normalizes them, and compares versions of the same project
across repositories.

Dumps are JSON objects, one per line or as a single array, optionally
compressed with gzip, xz or zstd.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewProcessCmd())
	rootCmd.AddCommand(NewClassifyCmd())
	rootCmd.AddCommand(NewCompareCmd())

	return rootCmd
}

// newAuditLogger returns a logger appending to path, or writing to stderr
// when path is empty
func newAuditLogger(path string) logger.Logger {
	if path == "" {
		return logger.NewStderrLogger()
	}
	return logger.NewFileLogger(path)
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/ralt/repology/internal/dump"
	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/scanner"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	var config models.CheckConfig

	cmd := &cobra.Command{
		Use:   "check FILE|DIR...",
		Short: "Check record dumps for sanity problems",
		Long: `Decodes every record of the given dumps and runs the sanity checks.
Fails if any record has a structural failure or a content problem.
Directories are searched for dumps.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Files = args

			if config.Normalize && config.Output == "" {
				return &models.ProcessError{
					Type: models.ErrInvalidConfig,
					Err:  fmt.Errorf("normalize requires output"),
				}
			}

			return runCheck(cmd.Context(), &config, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&config.Transformed, "transformed", false, "Require effname on every record")
	cmd.Flags().BoolVar(&config.Normalize, "normalize", false, "Normalize records before writing them to output")
	cmd.Flags().StringVarP(&config.Output, "output", "o", "", "Write records passing the checks to this dump")
	cmd.Flags().StringVarP(&config.LogFile, "logfile", "L", "", "Append sanity log to file instead of stderr")

	return cmd
}

func runCheck(ctx context.Context, config *models.CheckConfig, out io.Writer) error {
	files, err := scanner.ExpandPaths(ctx, scanner.NewFileSystemScanner(), config.Files)
	if err != nil {
		return err
	}

	audit := newAuditLogger(config.LogFile)

	var result *multierror.Error
	var passed []*models.Package

	for _, file := range files {
		loaded, err := dump.Load(file, dump.LoadOptions{
			Transformed: config.Transformed,
			Logger:      audit.GetPrefixed(file + ": "),
		})
		if err != nil {
			fmt.Fprintf(out, "%s: FAILED: %v\n", file, err)
			result = multierror.Append(result, err)
			continue
		}

		for _, problem := range loaded.Problems {
			result = multierror.Append(result, fmt.Errorf("%s: %w", file, problem))
		}

		fmt.Fprintf(out, "%s: %d records ok, %d problems\n", file, len(loaded.Packages), len(loaded.Problems))

		if config.Normalize {
			for _, pkg := range loaded.Packages {
				pkg.Normalize()
			}
		}
		passed = append(passed, loaded.Packages...)
	}

	if config.Output != "" {
		if err := dump.WritePackages(config.Output, passed); err != nil {
			return err
		}
	}

	return result.ErrorOrNil()
}

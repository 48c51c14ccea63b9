package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ralt/repology/internal/dump"
	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/packageset"
	"github.com/ralt/repology/internal/repoman"
	"github.com/ralt/repology/internal/scanner"
	"github.com/ralt/repology/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	var config models.ClassifyConfig

	cmd := &cobra.Command{
		Use:   "classify FILE|DIR...",
		Short: "Assign version classes to records of processed dumps",
		Long: `Groups records of the given dumps by effname and compares versions
within each group, marking every record as newest, outdated, legacy and
so on. Prints one line per record. Directories are searched for dumps.

With --repos-dir, a group whose repositories share a version scheme is
compared with that scheme; other groups use --scheme.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Files = args
			return runClassify(cmd.Context(), &config, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&config.Scheme, "scheme", version.SchemeLibversion, "Version scheme (libversion, rpm, deb)")
	cmd.Flags().StringVarP(&config.ReposDir, "repos-dir", "E", "", "Path to directory with repository configs")
	cmd.Flags().IntVar(&config.Workers, "workers", 0, "Number of concurrent workers (default: number of CPUs)")
	cmd.Flags().StringVarP(&config.Output, "output", "o", "", "Write classified records to this dump")

	return cmd
}

func runClassify(ctx context.Context, config *models.ClassifyConfig, out io.Writer) error {
	cmp, err := version.ForScheme(config.Scheme)
	if err != nil {
		return &models.ProcessError{Type: models.ErrInvalidConfig, Err: err}
	}

	resolve := packageset.FixedComparator(cmp)
	if config.ReposDir != "" {
		repos, err := repoman.Load(config.ReposDir)
		if err != nil {
			return &models.ProcessError{Type: models.ErrInvalidConfig, Err: err}
		}
		resolve = packageset.RepositoryComparator(repos, cmp)
	}

	files, err := scanner.ExpandPaths(ctx, scanner.NewFileSystemScanner(), config.Files)
	if err != nil {
		return err
	}

	var pkgs []*models.Package
	for _, file := range files {
		loaded, err := dump.Load(file, dump.LoadOptions{})
		if err != nil {
			return err
		}
		logrus.Debugf("Loaded %d records from %s", len(loaded.Packages), file)
		pkgs = append(pkgs, loaded.Packages...)
	}

	groups := packageset.GroupByEffname(pkgs)
	logrus.Infof("Classifying %d records in %d groups", len(pkgs), len(groups))

	if err := packageset.Classify(ctx, groups, resolve, config.Workers); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, group := range groups {
		for _, pkg := range group.Packages {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", group.EffName, pkg.Repo, pkg.Version, pkg.VersionClass)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if config.Output != "" {
		var classified []*models.Package
		for _, group := range groups {
			classified = append(classified, group.Packages...)
		}
		return dump.WritePackages(config.Output, classified)
	}

	return nil
}

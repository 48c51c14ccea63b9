package cli

import (
	"fmt"

	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/repoman"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var reposDir string

	cmd := &cobra.Command{
		Use:   "list [repo|tag...]",
		Short: "List configured repositories",
		Long: `Prints names of the repositories matching any of the given names or
tags, ordered by sort name. Without arguments all repositories are listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := repoman.Load(reposDir)
			if err != nil {
				return &models.ProcessError{Type: models.ErrInvalidConfig, Source: reposDir, Err: err}
			}

			names := manager.AllNames()
			if len(args) > 0 {
				names = manager.GetNames(args)
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&reposDir, "repos-dir", "E", defaultReposDir, "Directory with repository definitions")

	return cmd
}

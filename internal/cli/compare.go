package cli

import (
	"fmt"
	"io"

	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/version"
	"github.com/spf13/cobra"
)

// NewCompareCmd creates the compare command
func NewCompareCmd() *cobra.Command {
	var config models.CompareConfig

	cmd := &cobra.Command{
		Use:   "compare V1 V2",
		Short: "Compare two versions",
		Long: `Prints -1, 0 or 1 if V1 is older, equal or newer than V2. Flags are
taken into account the same way as for records: rolling versions are
newer and outdated versions older than any other.

Flags are given as comma separated names, e.g. --flags1 rolling,p_is_patch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Version1, config.Version2 = args[0], args[1]
			return runCompare(&config, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Var(&config.Flags1, "flags1", "Flags of the first version")
	cmd.Flags().Var(&config.Flags2, "flags2", "Flags of the second version")
	cmd.Flags().StringVar(&config.Scheme, "scheme", version.SchemeLibversion, "Version scheme (libversion, rpm, deb)")

	return cmd
}

func runCompare(config *models.CompareConfig, out io.Writer) error {
	cmp, err := version.ForScheme(config.Scheme)
	if err != nil {
		return &models.ProcessError{Type: models.ErrInvalidConfig, Err: err}
	}

	a := models.NewPackage()
	a.Version = config.Version1
	a.Flags = config.Flags1

	b := models.NewPackage()
	b.Version = config.Version2
	b.Flags = config.Flags2

	_, err = fmt.Fprintln(out, a.CompareWith(cmp, b))
	return err
}

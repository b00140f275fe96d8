package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/prompter/pkg/version"
)

func NewVersionCmd() *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if details {
				mustN(fmt.Fprint(cmd.OutOrStdout(), version.Details()))

				return nil
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), version.String()))

			return nil
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "Include build details")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewListCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [filter]",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Long: `List all profiles in alphabetical order.

With a filter, only profiles that fuzzy-match it are listed, best match first.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: profileCompletion(ra),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter string
			if len(args) > 0 {
				filter = args[0]
			}

			c, err := ra.Source(isTerminal(cmd.ErrOrStderr())).Open(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped by the source.
			}

			for _, name := range c.Filter(filter) {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), name))
			}

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}

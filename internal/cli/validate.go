package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	validMessage   = "All profiles valid"
	invalidMessage = "Validation errors:"
)

func NewValidateCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every profile against the library",
		Long: `Resolve every profile and check that each referenced file exists.

All problems are reported, one per line, and the command exits non-zero when
any are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := ra.Source(isTerminal(cmd.ErrOrStderr())).Open(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped by the source.
			}

			issues := c.Validate()
			if len(issues) == 0 {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), validMessage))

				return nil
			}

			w := cmd.ErrOrStderr()
			mustN(fmt.Fprintln(w, invalidMessage))
			for _, issue := range issues {
				mustN(fmt.Fprintln(w, issue.Error()))
			}

			return &ExitError{
				Err:    fmt.Errorf("%d validation errors", len(issues)),
				Code:   ExitFailure,
				Silent: true,
			}
		},
	}

	bindEnvVars(cmd)

	return cmd
}

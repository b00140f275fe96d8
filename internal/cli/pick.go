package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("pick needs an interactive terminal, use \"prompter run <profile>\" instead")

const pickHeight = 12

func NewPickCmd(rootArgs *RootArgs) *cobra.Command {
	pa := NewRunArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a profile interactively and render it",
		Long: `Choose a profile from a filterable list, then render it exactly like
"prompter run". All run flags are accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.ErrOrStderr()) {
				return errNotInteractive
			}

			c, err := pa.Source(true).Open(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped by the source.
			}

			cfg := c.Config()
			names := c.Profiles()

			options := make([]huh.Option[string], 0, len(names))
			for _, name := range names {
				p, _ := cfg.Get(name)
				options = append(options, huh.NewOption(fmt.Sprintf("%s (%d)", name, len(p.DependsOn)), name))
			}

			err = huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Profile").
						Options(options...).
						Filtering(true).
						Height(pickHeight).
						Value(&pa.Profile),
				),
			).
				WithInput(cmd.InOrStdin()).
				WithOutput(cmd.ErrOrStderr()).
				RunWithContext(cmd.Context())
			if err != nil {
				return fmt.Errorf("pick profile: %w", err)
			}

			return run(cmd, pa)
		},
	}

	pa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

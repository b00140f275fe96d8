package cli

import (
	"fmt"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/macropower/prompter/api/v1beta1/configs"
	"github.com/macropower/prompter/pkg/config"
	"github.com/macropower/prompter/pkg/highlight"
)

func NewConfigCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newConfigShowCmd(ra), newConfigPathCmd(ra), newConfigDiffCmd(ra))

	return cmd
}

func newConfigShowCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := ra.Source(isTerminal(cmd.ErrOrStderr())).Open(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped by the source.
			}

			b, err := c.Document().MarshalYAML()
			if err != nil {
				return fmt.Errorf("show config: %w", err)
			}

			out := string(b)

			if isTerminal(cmd.OutOrStdout()) {
				pretty, err := highlight.New(highlight.WithLanguage("yaml")).Render(out)
				if err == nil {
					out = pretty
				}
			}

			mustN(fmt.Fprint(cmd.OutOrStdout(), out))

			return nil
		},
	}

	return cmd
}

func newConfigPathCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration and library locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source := ra.Source(false)
			paths := source.Paths()

			c, err := source.Open(cmd.Context())
			if err == nil {
				paths = c.Paths()
			} else {
				paths.Library = config.ResolveLibraryPath(ra.LibraryPath, "", paths.Config, ra.ConfigPath != "")
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "config: %s\nlibrary: %s\n", paths.Config, paths.Library))

			return nil
		},
	}

	return cmd
}

func newConfigDiffCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how the active configuration differs from the default",
		Long: `Print a unified diff from the default configuration to the active one.

Both documents are normalized first, so comments and formatting are ignored.
Nothing is printed when they are equivalent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := ra.Source(isTerminal(cmd.ErrOrStderr())).Open(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped by the source.
			}

			def, err := config.LoadYAML(configs.DefaultYAML())
			if err != nil {
				return fmt.Errorf("load default config: %w", err)
			}

			before, err := def.MarshalYAML()
			if err != nil {
				return fmt.Errorf("diff config: %w", err)
			}

			after, err := c.Document().MarshalYAML()
			if err != nil {
				return fmt.Errorf("diff config: %w", err)
			}

			diff := udiff.Unified("default", c.Paths().Config, string(before), string(after))
			mustN(fmt.Fprint(cmd.OutOrStdout(), diff))

			return nil
		},
	}

	return cmd
}

package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// profileCompletion completes the first positional argument with profile
// names, described by their dependencies.
func profileCompletion(ra *RootArgs) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		return tryGetProfileNames(ra), cobra.ShellCompDirectiveNoFileComp
	}
}

// Try to load config to get available profiles.
func tryGetProfileNames(ra *RootArgs) []cobra.Completion {
	c, err := ra.Source(false).Open(context.Background())
	if err != nil {
		return nil
	}

	cfg := c.Config()
	names := c.Profiles()

	completions := make([]cobra.Completion, 0, len(names))
	for _, name := range names {
		p, _ := cfg.Get(name)
		completions = append(completions, cobra.CompletionWithDesc(name, strings.Join(p.DependsOn, ", ")))
	}

	return completions
}

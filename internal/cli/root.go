package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/prompter/pkg/compose"
	"github.com/macropower/prompter/pkg/log"
)

const (
	cmdName = "prompter"
	cmdDesc = `Compose LLM prompts from a library of markdown snippets.`

	cmdExamples = `  # Render the "python.api" profile:
  prompter python.api

  # Use a custom separator between files:
  prompter run python.api -s '\n---\n'

  # Write the prompt to a file and re-render when anything changes:
  prompter run python.api -o prompt.md --watch

  # List profiles matching "py":
  prompter list py

  # Check every profile against the library:
  prompter validate

  # Write the default configuration and sample library:
  prompter init`
)

type RootArgs struct {
	LogLevel    string
	LogFormat   string
	ConfigPath  string
	LibraryPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", string(log.DefaultLevel), fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", string(log.DefaultFormat), fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the prompter configuration file")
	cmd.PersistentFlags().
		StringVar(&ra.LibraryPath, "library", "", "Path to the snippet library directory")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml", "toml"))
	must(cmd.MarkPersistentFlagDirname("library"))
}

// Source returns the configuration source selected by the flags.
func (ra *RootArgs) Source(color bool) compose.FileSource {
	return compose.FileSource{
		ConfigPath:  ra.ConfigPath,
		LibraryPath: ra.LibraryPath,
		Color:       color,
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:               cmdName + " [profile]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: profileCompletion(args),
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			if len(posArgs) == 0 {
				return cmd.Help()
			}

			return runCmd.RunE(cmd, posArgs)
		},
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)

	cmd.AddCommand(
		runCmd,
		NewPickCmd(args),
		NewListCmd(args),
		NewValidateCmd(args),
		NewInitCmd(args),
		NewDoctorCmd(args),
		NewConfigCmd(args),
		NewMCPCmd(args),
		NewVersionCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		err := log.Setup(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.Debug("logging configured",
			slog.String("command", cmd.CommandPath()),
			slog.String("level", ra.LogLevel),
		)

		return nil
	}
}

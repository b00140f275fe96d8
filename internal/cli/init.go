package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/macropower/prompter/api"
	"github.com/macropower/prompter/api/v1beta1/configs"
	"github.com/macropower/prompter/pkg/config"
	"github.com/macropower/prompter/pkg/library"
)

type InitArgs struct {
	*RootArgs

	Force bool
}

func NewInitCmd(rootArgs *RootArgs) *cobra.Command {
	ia := &InitArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration and sample library",
		Long: `Write the default configuration, its JSON schema and a sample snippet
library.

Existing files are kept unless --force is given, in which case the
configuration and schema are backed up and replaced. Library files are never
overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), ia)
		},
	}

	cmd.Flags().BoolVarP(&ia.Force, "force", "f", false, "Back up and replace an existing configuration")

	bindEnvVars(cmd)

	return cmd
}

func runInit(w io.Writer, ia *InitArgs) error {
	cfgPath, err := initConfig(w, ia)
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(filepath.Dir(cfgPath), configs.SchemaFileName)

	written, err := configs.WriteSchema(schemaPath, ia.Force)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	report(w, written, "schema", schemaPath)

	libPath := config.ResolveLibraryPath(ia.LibraryPath, "", cfgPath, ia.ConfigPath != "")

	err = library.New(libPath).Scaffold()
	if err != nil {
		return fmt.Errorf("init library: %w", err)
	}

	mustN(fmt.Fprintf(w, "Library: %s\n", libPath))

	return nil
}

// initConfig writes the default configuration and returns its path. Without
// --config, a legacy TOML configuration in the default directory is kept,
// since a new YAML file would take precedence over it.
func initConfig(w io.Writer, ia *InitArgs) (string, error) {
	cfgPath := configs.GetPath()
	if ia.ConfigPath != "" {
		cfgPath = api.ExpandHome(ia.ConfigPath)
	}

	if ia.ConfigPath == "" {
		active := config.ResolveConfigPath("")
		if config.IsTOML(active) {
			if !ia.Force {
				report(w, false, "configuration", active)

				return active, nil
			}

			slog.Warn("legacy configuration is shadowed by the new configuration",
				slog.String("legacy", active),
				slog.String("path", cfgPath),
			)
		}
	}

	written, err := configs.WriteDefault(cfgPath, ia.Force)
	if err != nil {
		return "", fmt.Errorf("init: %w", err)
	}

	report(w, written, "configuration", cfgPath)

	return cfgPath, nil
}

func report(w io.Writer, written bool, kind, path string) {
	if written {
		mustN(fmt.Fprintf(w, "Wrote %s: %s\n", kind, path))

		return
	}

	mustN(fmt.Fprintf(w, "Kept existing %s: %s\n", kind, path))
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/macropower/prompter/pkg/log"
	"github.com/macropower/prompter/pkg/mcp"
	"github.com/macropower/prompter/pkg/telemetry"
)

const telemetryShutdownTimeout = 5 * time.Second

type MCPArgs struct {
	*RootArgs

	Address string
}

func NewMCPCmd(rootArgs *RootArgs) *cobra.Command {
	ma := &MCPArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve profiles over the Model Context Protocol",
		Long: `Serve the list_profiles, resolve_profile, render_profile and
validate_config tools over MCP.

Without --address the server speaks over stdio. The configuration is re-read
for every tool call. Traces are exported over OTLP when
OTEL_EXPORTER_OTLP_ENDPOINT is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd, ma)
		},
	}

	cmd.Flags().StringVar(&ma.Address, "address", "", "Serve over streamable HTTP at this address, e.g. 127.0.0.1:8080")

	bindEnvVars(cmd)

	return cmd
}

func runMCP(cmd *cobra.Command, ma *MCPArgs) error {
	ctx := cmd.Context()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()

		err := shutdown(ctx)
		if err != nil {
			slog.Error("shutdown telemetry", slog.Any("error", err))
		}
	}()

	var opts []mcp.ServerOpt
	if ma.LogLevel == string(log.LevelDebug) {
		opts = append(opts, mcp.WithProtocolLog(cmd.ErrOrStderr()))
	}

	server := mcp.NewServer(ma.Address, ma.Source(false), opts...)

	err = server.Serve(ctx)
	if err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}

	return nil
}

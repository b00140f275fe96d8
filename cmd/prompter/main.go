package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/macropower/prompter/internal/cli"
	"github.com/macropower/prompter/pkg/version"
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	err := fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithCommit(version.Revision),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithColorSchemeFunc(cli.ColorScheme),
		fang.WithNotifySignal(os.Interrupt),
	)

	return cli.ExitCode(err)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/macropower/prompter/pkg/compose"
	"github.com/macropower/prompter/pkg/log"
	"github.com/macropower/prompter/pkg/prompt"
	"github.com/macropower/prompter/pkg/watch"
)

const suggestionLimit = 3

type RunArgs struct {
	*RootArgs

	Profile    string
	Separator  string
	PrePrompt  string
	PostPrompt string
	Output     string
	Watch      bool
	Copy       bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Separator, "separator", "s", "", `Separator written between files (escapes such as \n are expanded)`)
	cmd.Flags().StringVarP(&ra.PrePrompt, "pre-prompt", "p", "", "Text written before the system info line")
	cmd.Flags().StringVarP(&ra.PostPrompt, "post-prompt", "P", "", "Text written after the files, overrides the configured post-prompt")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", "", "Write the prompt to a file instead of stdout")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the configuration and library and re-render on changes")
	cmd.Flags().BoolVarP(&ra.Copy, "copy", "c", false, "Also copy the prompt to the system clipboard")

	must(cmd.MarkFlagFilename("output"))
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run <profile>",
		Short:             "Render a profile to a prompt",
		Example:           cmdExamples,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileCompletion(ra.RootArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.Profile = args[0]

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

// request builds the render request. Escapes are expanded in user-supplied
// text, and pre/post prompts are only overridden when their flags are set.
func (ra *RunArgs) request(cmd *cobra.Command, styled bool) compose.Request {
	req := compose.Request{
		Profile:   ra.Profile,
		Separator: prompt.Unescape(ra.Separator),
		Styled:    styled,
	}

	if flagSet(cmd, "pre-prompt") {
		pre := prompt.Unescape(ra.PrePrompt)
		req.PrePrompt = &pre
	}
	if flagSet(cmd, "post-prompt") {
		post := prompt.Unescape(ra.PostPrompt)
		req.PostPrompt = &post
	}

	return req
}

// flagSet reports whether a flag was given on the command line or through
// its environment variable.
func flagSet(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}

	_, ok := os.LookupEnv(flagToEnvName(name))

	return ok
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	styled := ra.Output == "" && isTerminal(stdout)
	source := ra.Source(isTerminal(cmd.ErrOrStderr()))
	req := ra.request(cmd, styled)

	err := render(ctx, cmd, source, ra, req)
	if err != nil && !ra.Watch {
		return err
	}
	if err != nil {
		slog.Error("render failed", slog.Any("error", err))
	}

	if !ra.Watch {
		return nil
	}

	return watchAndRender(ctx, cmd, source, ra, req)
}

// render composes the profile and writes it to the output.
func render(ctx context.Context, cmd *cobra.Command, source compose.Source, ra *RunArgs, req compose.Request) error {
	c, err := source.Open(ctx)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped by the source.
	}

	res, err := c.Compose(ctx, req)
	if err != nil {
		hintSuggestions(cmd.ErrOrStderr(), c, err)

		return err //nolint:wrapcheck // Diagnostics are printed verbatim.
	}

	if ra.Copy {
		copyToClipboard(res)
	}

	if ra.Output == "" {
		_, err = res.WriteTo(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("write prompt: %w", err)
		}

		return nil
	}

	err = writeFile(ra.Output, res)
	if err != nil {
		return err
	}

	slog.Info("wrote prompt",
		slog.String("path", ra.Output),
		slog.Int("files", len(res.Files)),
	)

	return nil
}

func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path) //nolint:gosec // G304: Path is chosen by the user.
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	_, err = w.WriteTo(f)
	if err != nil {
		return errors.Join(fmt.Errorf("write output: %w", err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	return nil
}

// copyToClipboard copies the unstyled prompt. Failures are logged, since the
// prompt is still written to the output.
func copyToClipboard(res *compose.Result) {
	plain := *res
	plain.Options.SystemInfo = ansi.Strip(plain.Options.SystemInfo)

	err := clipboard.WriteAll(plain.String())
	if err != nil {
		slog.Warn("could not copy prompt to clipboard", slog.Any("error", err))

		return
	}

	slog.Info("copied prompt to clipboard")
}

// hintSuggestions prints similar profile names when an unknown profile was
// requested from a terminal.
func hintSuggestions(w io.Writer, c *compose.Composer, err error) {
	name, ok := compose.IsUnknownTopLevel(err)
	if !ok || !isTerminal(w) {
		return
	}

	suggestions := c.Suggest(name, suggestionLimit)
	if len(suggestions) == 0 {
		return
	}

	mustN(fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(suggestions, ", ")))
}

// watchAndRender re-renders whenever the configuration or library changes,
// until ctx is done. While rendering to a terminal, logs are buffered and
// written when watching stops so they do not interleave with the prompt.
func watchAndRender(ctx context.Context, cmd *cobra.Command, source compose.FileSource, ra *RunArgs, req compose.Request) error {
	var opts []watch.Option
	if ra.Output != "" {
		opts = append(opts, watch.WithIgnore(ra.Output))
	}

	w, err := watch.New(opts...)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		err := w.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("error", err))
		}
	}()

	err = addWatches(ctx, w, source)
	if err != nil {
		return err
	}

	toTerminal := ra.Output == "" && isTerminal(cmd.OutOrStdout())
	if toTerminal {
		logBuf := log.NewCircularBuffer(log.DefaultBufferCapacity)

		err := log.Setup(logBuf, ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		defer func() {
			flushLogs(cmd.ErrOrStderr(), logBuf)
			must(log.Setup(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat))
		}()
	}

	slog.Info("watching for changes")

	err = w.Run(ctx, func(ctx context.Context, events []fsnotify.Event) {
		slog.Debug("change detected", slog.Int("events", len(events)))

		if toTerminal {
			mustN(fmt.Fprint(cmd.OutOrStdout(), ansi.CursorHomePosition+ansi.EraseEntireScreen))
		}

		err := render(ctx, cmd, source, ra, req)
		if err != nil {
			slog.Error("render failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}

// addWatches watches the configuration file and the library tree. A library
// that does not exist yet is skipped.
func addWatches(ctx context.Context, w *watch.Watcher, source compose.FileSource) error {
	paths := source.Paths()

	err := w.AddFile(paths.Config)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	c, err := source.Open(ctx)
	if err != nil {
		slog.Warn("library is not watched", slog.Any("error", err))

		return nil
	}

	err = w.AddTree(c.Library().Root())
	if err != nil {
		slog.Warn("library is not watched", slog.Any("error", err))
	}

	return nil
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Len()),
		slog.Int("max", buf.Capacity()),
		slog.Int("dropped", buf.Dropped()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

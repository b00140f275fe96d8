package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/macropower/prompter/pkg/config"
	"github.com/macropower/prompter/pkg/library"
	"github.com/macropower/prompter/pkg/version"
)

var errDoctor = errors.New("doctor found problems")

type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkFail
)

// checkPrinter writes one line per check, marked by its status.
type checkPrinter struct {
	w     io.Writer
	marks map[checkStatus]string
	fails int
}

func newCheckPrinter(w io.Writer) *checkPrinter {
	r := lipgloss.NewRenderer(w)

	return &checkPrinter{
		w: w,
		marks: map[checkStatus]string{
			checkOK:   r.NewStyle().Foreground(lipgloss.Color("10")).Render("✓"),
			checkWarn: r.NewStyle().Foreground(lipgloss.Color("11")).Render("!"),
			checkFail: r.NewStyle().Foreground(lipgloss.Color("9")).Render("✗"),
		},
	}
}

func (p *checkPrinter) print(status checkStatus, format string, args ...any) {
	if status == checkFail {
		p.fails++
	}

	mustN(fmt.Fprintf(p.w, "%s %s\n", p.marks[status], fmt.Sprintf(format, args...)))
}

func NewDoctorCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the installation",
		Long: `Check that the configuration exists and is valid, and that the library
directory exists.

Problems with individual profiles are reported as warnings; run "prompter
validate" for details.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, ra)
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func runDoctor(cmd *cobra.Command, ra *RootArgs) error {
	p := newCheckPrinter(cmd.OutOrStdout())

	p.print(checkOK, "%s", version.String())

	source := ra.Source(false)
	cfgPath := source.Paths().Config

	c, err := source.Open(cmd.Context())
	switch {
	case errors.Is(err, config.ErrNotFound):
		p.print(checkFail, "Configuration not found: %s (run \"prompter init\")", cfgPath)

	case err != nil:
		p.print(checkFail, "Configuration is invalid: %v", err)

	default:
		p.print(checkOK, "Configuration: %s (%s)", cfgPath,
			english.Plural(c.Config().Len(), "profile", "profiles"))

		checkLibrary(p, c.Library())

		issues := c.Validate()
		if len(issues) > 0 {
			p.print(checkWarn, "%s found (run \"prompter validate\")",
				english.Plural(len(issues), "profile issue", "profile issues"))
		}
	}

	if p.fails > 0 {
		return &ExitError{Err: errDoctor, Code: ExitFailure, Silent: true}
	}

	return nil
}

func checkLibrary(p *checkPrinter, lib *library.Library) {
	err := lib.Check()
	if err != nil {
		p.print(checkFail, "Library is not usable: %v", err)

		return
	}

	stats, err := lib.Stats()
	if err != nil {
		p.print(checkFail, "Library is not readable: %v", err)

		return
	}

	status := checkOK
	if stats.Files == 0 {
		status = checkWarn
	}

	p.print(status, "Library: %s (%s, %s)", lib.Root(),
		english.Plural(stats.Files, "file", "files"),
		humanize.Bytes(uint64(stats.Bytes))) //nolint:gosec // G115: Sizes are never negative.
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
)

const (
	// ExitFailure is the exit code for failed commands.
	ExitFailure = 1
	// ExitUsage is the exit code for invalid arguments or flags.
	ExitUsage = 2
)

// ExitError ends the program with Code. When Silent is set the error has
// already been reported and is not printed again.
type ExitError struct {
	Err    error
	Code   int
	Silent bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	exitErr := &ExitError{}
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if isUsageError(err) {
		return ExitUsage
	}

	return ExitFailure
}

// ErrorHandler prints err to w. On a terminal it uses fang's styles, and
// otherwise it prints the bare message so that diagnostics stay stable for
// scripts.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	exitErr := &ExitError{}
	if errors.As(err, &exitErr) && exitErr.Silent {
		return
	}

	if !isTerminal(w) {
		mustN(fmt.Fprintln(w, err.Error()))

		return
	}

	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))
	if isUsageError(err) {
		mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Try"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		)))
		mustN(fmt.Fprintln(w))
	}
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
		"requires at least",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}

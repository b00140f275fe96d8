// Package highlight renders source text with terminal syntax highlighting.
package highlight

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"

	// FormatterNoop emits the source without escape sequences.
	FormatterNoop = "noop"
)

// Highlighter renders text in a single language.
type Highlighter struct {
	lexer           chroma.Lexer
	formatter       chroma.Formatter
	style           *chroma.Style
	lineNumberStyle lipgloss.Style
	lineNumbers     bool
}

// Option configures a [Highlighter].
type Option func(*options)

type options struct {
	language    string
	style       string
	formatter   string
	darkBg      func() bool
	lineNumbers bool
}

// WithLanguage sets the chroma lexer by name, e.g. "yaml" or "markdown".
func WithLanguage(name string) Option {
	return func(o *options) {
		o.language = name
	}
}

// WithStyle sets the chroma style by name. "auto" (the default) picks
// "github-dark" or "github" from the terminal background; "dark" and "light"
// select them directly.
func WithStyle(name string) Option {
	return func(o *options) {
		o.style = name
	}
}

// WithFormatter sets the chroma formatter by name. By default it is chosen
// from the terminal's color profile.
func WithFormatter(name string) Option {
	return func(o *options) {
		o.formatter = name
	}
}

// WithLineNumbers prefixes each line with its number.
func WithLineNumbers(enabled bool) Option {
	return func(o *options) {
		o.lineNumbers = enabled
	}
}

// New creates a new [Highlighter].
func New(opts ...Option) *Highlighter {
	o := &options{
		language: "yaml",
		style:    StyleAuto,
		darkBg:   termenv.HasDarkBackground,
	}
	for _, opt := range opts {
		opt(o)
	}

	lexer := lexers.Get(o.language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatterName := o.formatter
	if formatterName == "" {
		formatterName = FormatterForProfile(termenv.ColorProfile())
	}

	formatter := formatters.Get(formatterName)

	darkBg := o.darkBg
	if formatterName == FormatterNoop {
		// Colors are discarded, so skip querying the terminal.
		darkBg = nil
	}

	style := styles.Get(StyleName(o.style, darkBg))

	return &Highlighter{
		lexer:       chroma.Coalesce(lexer),
		formatter:   formatter,
		style:       style,
		lineNumbers: o.lineNumbers,
		lineNumberStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(style.Get(chroma.Comment).Colour.String())), //nolint:misspell // Chroma naming.
	}
}

// FormatterForProfile returns the chroma formatter matching a terminal color
// profile.
func FormatterForProfile(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal8"
	case termenv.Ascii:
		return FormatterNoop
	}

	return FormatterNoop
}

// StyleName resolves the "auto", "dark" and "light" aliases to chroma style
// names. Other names are returned unchanged.
func StyleName(name string, darkBackground func() bool) string {
	switch name {
	case StyleDark:
		return "github-dark"
	case StyleLight:
		return "github"
	case StyleAuto, "":
		if darkBackground != nil && darkBackground() {
			return "github-dark"
		}

		return "github"
	}

	return name
}

// Render highlights src.
func (h *Highlighter) Render(src string) (string, error) {
	iterator, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = h.formatter.Format(buf, h.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	if !h.lineNumbers {
		return buf.String(), nil
	}

	return h.numberLines(buf.String()), nil
}

func (h *Highlighter) numberLines(content string) string {
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	var sb strings.Builder

	for i, line := range lines {
		sb.WriteString(h.lineNumberStyle.Render(fmt.Sprintf("%4d  ", i+1)))
		sb.WriteString(line)

		if i+1 < len(lines) || trailingNewline {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

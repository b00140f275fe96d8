// Package compose renders prompts for profiles.
//
// A [Composer] combines a profile configuration with a library: it resolves
// a profile, reads the resolved files and frames them with [prompt.Render].
// It is shared by the command line interface, the watcher and the MCP
// server.
package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/macropower/prompter/api/v1beta1/configs"
	"github.com/macropower/prompter/pkg/config"
	"github.com/macropower/prompter/pkg/library"
	"github.com/macropower/prompter/pkg/log"
	"github.com/macropower/prompter/pkg/profile"
	"github.com/macropower/prompter/pkg/prompt"
)

// Composer renders profiles from one configuration and library. It is safe
// for concurrent use.
type Composer struct {
	config   *profile.Config
	library  *library.Library
	document *configs.Config
	platform func() prompt.Platform
	paths    config.Paths
}

// Option configures a [Composer].
type Option func(*Composer)

// WithPlatform sets the source of the system info line.
func WithPlatform(fn func() prompt.Platform) Option {
	return func(c *Composer) {
		c.platform = fn
	}
}

// WithDocument records the configuration document the profiles came from.
func WithDocument(doc *configs.Config) Option {
	return func(c *Composer) {
		c.document = doc
	}
}

// WithPaths records where the configuration and library were found.
func WithPaths(paths config.Paths) Option {
	return func(c *Composer) {
		c.paths = paths
	}
}

// New creates a new [Composer].
func New(cfg *profile.Config, lib *library.Library, opts ...Option) *Composer {
	c := &Composer{
		config:   cfg,
		library:  lib,
		platform: prompt.CurrentPlatform,
		paths:    config.Paths{Library: lib.Root()},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Config returns the profile configuration.
func (c *Composer) Config() *profile.Config {
	return c.config
}

// Library returns the library.
func (c *Composer) Library() *library.Library {
	return c.library
}

// Document returns the configuration document, or nil if the [Composer]
// was not created from one.
func (c *Composer) Document() *configs.Config {
	return c.document
}

// Paths returns the configuration and library locations.
func (c *Composer) Paths() config.Paths {
	return c.paths
}

// Profiles returns all profile names in lexical order.
func (c *Composer) Profiles() []string {
	names := c.config.Names()
	slices.Sort(names)

	return names
}

// Filter returns the profile names that fuzzy-match pattern, best match
// first. An empty pattern returns [Composer.Profiles].
func (c *Composer) Filter(pattern string) []string {
	names := c.Profiles()
	if pattern == "" {
		return names
	}

	matches := fuzzy.Find(pattern, names)
	out := make([]string, 0, len(matches))

	for _, m := range matches {
		out = append(out, m.Str)
	}

	return out
}

// Suggest returns up to limit profile names similar to name.
func (c *Composer) Suggest(name string, limit int) []string {
	matches := c.Filter(name)
	if len(matches) == 0 {
		// Try the last dotted segment, e.g. "api" for "pyhton.api".
		if i := strings.LastIndex(name, "."); i >= 0 && i+1 < len(name) {
			matches = c.Filter(name[i+1:])
		}
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches
}

// Resolve resolves the named profile. Errors are returned unwrapped, so that
// their messages can be shown as they are.
func (c *Composer) Resolve(name string) (profile.Files, error) {
	return profile.Resolve(c.config, name) //nolint:wrapcheck // Diagnostics are printed verbatim.
}

// Validate checks every profile against the library.
func (c *Composer) Validate() []profile.Issue {
	return profile.Validate(c.config, c.library.Exists)
}

// Request describes a single render.
type Request struct {
	// PrePrompt and PostPrompt override the defaults when set.
	PrePrompt  *string
	PostPrompt *string
	// Profile is the profile to render.
	Profile string
	// Separator is written between files.
	Separator string
	// Styled highlights the system info line for a terminal.
	Styled bool
}

// Result is a composed prompt, ready to be written.
type Result struct {
	Files     profile.Files
	Documents []prompt.Document
	Options   prompt.Options
}

// WriteTo writes the rendered prompt to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	err := prompt.Render(cw, r.Documents, r.Options)

	return cw.n, err
}

// String returns the rendered prompt.
func (r *Result) String() string {
	return prompt.RenderString(r.Documents, r.Options)
}

// Compose resolves the requested profile and reads its files. Resolution
// errors and missing files are returned unwrapped.
func (c *Composer) Compose(ctx context.Context, req Request) (*Result, error) {
	logger := log.WithContext(ctx)

	files, err := c.Resolve(req.Profile)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "resolved profile",
		slog.String("profile", req.Profile),
		slog.Int("files", len(files)),
	)

	err = ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("compose %q: %w", req.Profile, err)
	}

	docs, err := c.library.Load(files)
	if err != nil {
		return nil, err //nolint:wrapcheck // Diagnostics are printed verbatim.
	}

	return &Result{
		Files:     files,
		Documents: docs,
		Options:   c.options(req),
	}, nil
}

// Render composes the requested profile and writes it to w.
func (c *Composer) Render(ctx context.Context, w io.Writer, req Request) error {
	res, err := c.Compose(ctx, req)
	if err != nil {
		return err
	}

	_, err = res.WriteTo(w)
	if err != nil {
		return fmt.Errorf("render %q: %w", req.Profile, err)
	}

	return nil
}

func (c *Composer) options(req Request) prompt.Options {
	pre := prompt.DefaultPrePrompt
	if req.PrePrompt != nil {
		pre = *req.PrePrompt
	}

	configured, ok := c.config.PostPrompt()

	p := c.platform()

	info := prompt.SystemInfo(p)
	if req.Styled {
		info = prompt.StyledSystemInfo(p)
	}

	return prompt.Options{
		PrePrompt:  pre,
		SystemInfo: info,
		Separator:  req.Separator,
		PostPrompt: prompt.PostPrompt(req.PostPrompt, configured, ok),
	}
}

// IsUnknownTopLevel reports whether err is an unknown profile error for the
// profile that was requested directly.
func IsUnknownTopLevel(err error) (string, bool) {
	var unknown *profile.UnknownProfileError
	if errors.As(err, &unknown) && unknown.ReferencedBy == profile.TopLevel {
		return unknown.Name, true
	}

	return "", false
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err //nolint:wrapcheck // Wrapped by the caller.
}

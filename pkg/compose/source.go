package compose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/macropower/prompter/pkg/config"
	"github.com/macropower/prompter/pkg/library"
	"github.com/macropower/prompter/pkg/log"
)

// Source opens a [Composer].
type Source interface {
	Open(ctx context.Context) (*Composer, error)
}

// FileSource loads the configuration from disk each time it is opened, so
// that edits are picked up by long-running commands.
type FileSource struct {
	// ConfigPath is the explicitly chosen configuration file, if any.
	ConfigPath string
	// LibraryPath is the explicitly chosen library directory, if any.
	LibraryPath string
	// Color enables ANSI styling in configuration errors.
	Color bool
}

// Paths returns the configuration file location. The library location
// depends on the configuration contents, so it is only known after
// [FileSource.Open].
func (s FileSource) Paths() config.Paths {
	return config.Paths{Config: config.ResolveConfigPath(s.ConfigPath)}
}

// Open implements [Source].
func (s FileSource) Open(ctx context.Context) (*Composer, error) {
	cfgPath := config.ResolveConfigPath(s.ConfigPath)

	doc, err := config.Load(cfgPath, config.WithColor(s.Color))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	pc, err := doc.ToProfileConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	libPath := config.ResolveLibraryPath(s.LibraryPath, doc.Library, cfgPath, s.ConfigPath != "")

	log.WithContext(ctx).DebugContext(ctx, "opened configuration",
		slog.String("config", cfgPath),
		slog.String("library", libPath),
		slog.Int("profiles", pc.Len()),
	)

	return New(pc, library.New(libPath),
		WithDocument(doc),
		WithPaths(config.Paths{Config: cfgPath, Library: libPath}),
	), nil
}

// StaticSource always returns the same [Composer].
type StaticSource struct {
	Composer *Composer
}

// Open implements [Source].
func (s StaticSource) Open(context.Context) (*Composer, error) {
	return s.Composer, nil
}

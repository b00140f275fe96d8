package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/prompter/pkg/compose"
	"github.com/macropower/prompter/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Server implements the MCP server for prompter.
type Server struct {
	source  compose.Source
	server  *mcp.Server
	tracer  trace.Tracer
	logs    io.Writer
	address string
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithTracer sets the tracer used for tool calls. The global tracer
// provider is used by default.
func WithTracer(tracer trace.Tracer) ServerOpt {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithProtocolLog writes every stdio message to w.
func WithProtocolLog(w io.Writer) ServerOpt {
	return func(s *Server) {
		s.logs = w
	}
}

// NewServer creates a new MCP server. The configuration is opened from
// source for every tool call, so edits take effect without a restart.
// An empty address serves over stdio.
func NewServer(address string, source compose.Source, opts ...ServerOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		source:  source,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:  otel.Tracer("github.com/macropower/prompter/pkg/mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	profileProperty := &jsonschema.Schema{
		Type:        "string",
		Description: "The exact profile name, as returned by list_profiles.",
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the names of all profiles, sorted alphabetically. With a filter, only fuzzy matches are returned, best match first.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"filter": {
					Type:        "string",
					Description: "Optional fuzzy filter, e.g. \"py\" or \"testing\".",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleListProfiles))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_profile",
		Description: "List the library files a profile expands to, in the order they are rendered, each with the profile that referenced it.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"profile": profileProperty,
			},
			Required: []string{"profile"},
		},
	}, WithTracing(s.tracer, s.handleResolveProfile))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_profile",
		Description: "Render the full prompt for a profile: the pre-prompt, the system info line, every resolved file and the post-prompt.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"profile": profileProperty,
				"separator": {
					Type:        "string",
					Description: "Text written between files. Escapes such as \\n are expanded.",
				},
				"prePrompt": {
					Type:        "string",
					Description: "Replaces the default pre-prompt. Escapes are expanded.",
				},
				"postPrompt": {
					Type:        "string",
					Description: "Replaces the configured or default post-prompt. Escapes are expanded.",
				},
			},
			Required: []string{"profile"},
		},
	}, WithTracing(s.tracer, s.handleRenderProfile))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_config",
		Description: "Check every profile for unknown profile references, dependency cycles and missing library files.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(s.tracer, s.handleValidateConfig))
}

// Server returns the underlying SDK server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve serves MCP requests until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server failed: %w", err)
		}

		return nil

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	var t mcp.Transport = mcp.NewStdioTransport()
	if s.logs != nil {
		t = mcp.NewLoggingTransport(t, s.logs)
	}

	err := s.server.Run(ctx, t)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

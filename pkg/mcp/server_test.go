package mcp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/macropower/prompter/pkg/compose"
	"github.com/macropower/prompter/pkg/library"
	"github.com/macropower/prompter/pkg/mcp"
	"github.com/macropower/prompter/pkg/profile"
	"github.com/macropower/prompter/pkg/prompt"
)

func fixedPlatform() prompt.Platform {
	return prompt.Platform{
		Now:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Arch: "arm64",
		OS:   "darwin",
	}
}

func newComposer(t *testing.T) *compose.Composer {
	t.Helper()

	root := t.TempDir()
	for rel, content := range map[string]string{
		"a/b/c.md": "C\n",
		"a/b/d.md": "D\n",
		"f/g/h.md": "H\n",
	} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}

	cfg := profile.MustNewConfig([]profile.Profile{
		profile.New("python.api", "a/b/c.md", "f/g/h.md"),
		profile.New("general.testing", "python.api", "a/b/d.md"),
	}, profile.WithPostPrompt("POST"))

	return compose.New(cfg, library.New(root), compose.WithPlatform(fixedPlatform))
}

type errSource struct{}

func (errSource) Open(context.Context) (*compose.Composer, error) {
	return nil, errors.New("load config: configuration not found")
}

// connect starts a client session against a server for source.
func connect(t *testing.T, source compose.Source, opts ...mcp.ServerOpt) *sdk.ClientSession {
	t.Helper()

	ctx := t.Context()

	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	server := mcp.NewServer("", source, opts...)

	serverSession, err := server.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, clientSession.Close())
		assert.NoError(t, serverSession.Wait())
	})

	return clientSession
}

func textContent(t *testing.T, r *sdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, r.Content)

	text, ok := r.Content[0].(*sdk.TextContent)
	require.True(t, ok, "expected text content, got %T", r.Content[0])

	return text.Text
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	session := connect(t, compose.StaticSource{Composer: newComposer(t)})

	res, err := session.ListTools(t.Context(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	required := map[string][]string{}
	for _, tool := range res.Tools {
		names = append(names, tool.Name)

		require.NotNil(t, tool.InputSchema, tool.Name)
		assert.Equal(t, "object", tool.InputSchema.Type, tool.Name)

		required[tool.Name] = tool.InputSchema.Required
	}

	assert.ElementsMatch(t,
		[]string{"list_profiles", "resolve_profile", "render_profile", "validate_config"},
		names,
	)

	assert.Empty(t, required["list_profiles"])
	assert.Equal(t, []string{"profile"}, required["resolve_profile"])
	assert.Equal(t, []string{"profile"}, required["render_profile"])
	assert.Empty(t, required["validate_config"])
}

func TestServer_Tools(t *testing.T) {
	t.Parallel()

	session := connect(t, compose.StaticSource{Composer: newComposer(t)})

	tcs := map[string]struct {
		params   *sdk.CallToolParams
		want     map[string]any
		wantText string
		isError  bool
	}{
		"list_profiles": {
			params: &sdk.CallToolParams{
				Name:      "list_profiles",
				Arguments: map[string]any{},
			},
			want: map[string]any{
				"message":  "Found 2 profiles.",
				"profiles": []any{"general.testing", "python.api"},
				"count":    float64(2),
			},
		},
		"list_profiles_filter": {
			params: &sdk.CallToolParams{
				Name:      "list_profiles",
				Arguments: map[string]any{"filter": "api"},
			},
			want: map[string]any{
				"message":  `Found 1 profiles matching "api".`,
				"profiles": []any{"python.api"},
				"count":    float64(1),
			},
		},
		"resolve_profile": {
			params: &sdk.CallToolParams{
				Name:      "resolve_profile",
				Arguments: map[string]any{"profile": "general.testing"},
			},
			want: map[string]any{
				"profile": "general.testing",
				"message": `Profile "general.testing" resolves to 3 files.`,
				"files": []any{
					map[string]any{"path": "a/b/c.md", "referencedBy": "python.api"},
					map[string]any{"path": "f/g/h.md", "referencedBy": "python.api"},
					map[string]any{"path": "a/b/d.md", "referencedBy": "general.testing"},
				},
				"count": float64(3),
			},
			wantText: "Profile \"general.testing\" resolves to 3 files.\na/b/c.md\nf/g/h.md\na/b/d.md",
		},
		"resolve_profile_unknown": {
			params: &sdk.CallToolParams{
				Name:      "resolve_profile",
				Arguments: map[string]any{"profile": "pyhton.api"},
			},
			want: map[string]any{
				"profile": "pyhton.api",
				"error":   "Unknown profile: pyhton.api (referenced by [top-level])",
				"message": "INVALID INPUT ERROR: Unknown profile: pyhton.api (referenced by [top-level]). " +
					"Use an EXACT name from the list_profiles tool. Did you mean: python.api?",
				"files":       []any{},
				"suggestions": []any{"python.api"},
				"count":       float64(0),
			},
			isError: true,
		},
		"render_profile": {
			params: &sdk.CallToolParams{
				Name: "render_profile",
				Arguments: map[string]any{
					"profile":   "python.api",
					"separator": `\n---\n`,
					"prePrompt": "PRE",
				},
			},
			want: map[string]any{
				"profile": "python.api",
				"message": `Rendered profile "python.api" from 2 files.`,
				"prompt": "PRE\n\nToday is 2024-01-02, and you are running on a arm64/darwin system.\n\n" +
					"C\n\n---\nH\n\n\nPOST",
				"fileCount": float64(2),
			},
			wantText: "PRE\n\nToday is 2024-01-02, and you are running on a arm64/darwin system.\n\n" +
				"C\n\n---\nH\n\n\nPOST",
		},
		"validate_config": {
			params: &sdk.CallToolParams{
				Name:      "validate_config",
				Arguments: map[string]any{},
			},
			want: map[string]any{
				"message": "All profiles valid",
				"library": "",
				"issues":  []any{},
				"valid":   true,
			},
			wantText: "All profiles valid",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			r, err := session.CallTool(t.Context(), tc.params)
			require.NoError(t, err)
			require.NotNil(t, r)

			assert.Equal(t, tc.isError, r.IsError)

			got, ok := r.StructuredContent.(map[string]any)
			require.True(t, ok, "expected structured content, got %T", r.StructuredContent)

			// The library root is a temp dir.
			if _, ok := tc.want["library"]; ok {
				assert.NotEmpty(t, got["library"])
				got["library"] = ""
			}

			assert.Equal(t, tc.want, got)

			if tc.wantText != "" {
				assert.Equal(t, tc.wantText, textContent(t, r))
			}
		})
	}
}

func TestServer_ValidateIssues(t *testing.T) {
	t.Parallel()

	cfg := profile.MustNewConfig([]profile.Profile{
		profile.New("a", "b", "gone.md"),
		profile.New("b", "a"),
	})
	c := compose.New(cfg, library.New(t.TempDir()))

	session := connect(t, compose.StaticSource{Composer: c})

	r, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "validate_config",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.False(t, r.IsError)

	assert.Equal(t,
		"Validation errors:\n"+
			"Cycle detected: a -> b -> a\n"+
			"Missing file: gone.md (referenced by [a])\n"+
			"Cycle detected: b -> a -> b",
		textContent(t, r),
	)

	got, ok := r.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, got["valid"])
	assert.Len(t, got["issues"], 3)
}

func TestServer_SourceError(t *testing.T) {
	t.Parallel()

	session := connect(t, errSource{})

	for _, tool := range []string{"list_profiles", "validate_config"} {
		r, err := session.CallTool(t.Context(), &sdk.CallToolParams{
			Name:      tool,
			Arguments: map[string]any{},
		})
		require.NoError(t, err)
		assert.True(t, r.IsError, tool)
		assert.Equal(t, "CONFIGURATION ERROR: load config: configuration not found", textContent(t, r))
	}
}

func TestServer_Tracing(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	session := connect(t,
		compose.StaticSource{Composer: newComposer(t)},
		mcp.WithTracer(provider.Tracer("test")),
	)

	_, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "resolve_profile",
		Arguments: map[string]any{"profile": "missing"},
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "resolve_profile", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())
}

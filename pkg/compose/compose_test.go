package compose_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/prompter/pkg/compose"
	"github.com/macropower/prompter/pkg/library"
	"github.com/macropower/prompter/pkg/profile"
	"github.com/macropower/prompter/pkg/prompt"
)

const sysInfo = "Today is 2024-01-02, and you are running on a amd64/linux system."

func fixedPlatform() prompt.Platform {
	return prompt.Platform{
		Now:  time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
		Arch: "amd64",
		OS:   "linux",
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func newComposer(t *testing.T, opts ...profile.ConfigOpt) *compose.Composer {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "a/b/c.md", "C\n")
	writeFile(t, root, "a/b/d.md", "D\n")
	writeFile(t, root, "f/g/h.md", "H\n")

	cfg := profile.MustNewConfig([]profile.Profile{
		profile.New("python.api", "a/b/c.md", "f/g/h.md"),
		profile.New("general.testing", "python.api", "a/b/d.md"),
		profile.New("broken", "a/b/c.md", "gone.md"),
		profile.New("loop", "loop"),
	}, opts...)

	return compose.New(cfg, library.New(root), compose.WithPlatform(fixedPlatform))
}

func ptr[T any](v T) *T {
	return &v
}

func TestComposer_Render(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		configOpts []profile.ConfigOpt
		req        compose.Request
		want       string
	}{
		"defaults": {
			req: compose.Request{Profile: "general.testing"},
			want: prompt.DefaultPrePrompt + "\n\n" + sysInfo + "\n\n" +
				"C\nH\nD\n" + "\n\n" + prompt.DefaultPostPrompt,
		},
		"separator": {
			req:  compose.Request{Profile: "python.api", Separator: "---\n"},
			want: prompt.DefaultPrePrompt + "\n\n" + sysInfo + "\n\nC\n---\nH\n\n\n" + prompt.DefaultPostPrompt,
		},
		"overrides": {
			req: compose.Request{
				Profile:    "python.api",
				PrePrompt:  ptr("PRE"),
				PostPrompt: ptr("POST"),
			},
			want: "PRE\n\n" + sysInfo + "\n\nC\nH\n\n\nPOST",
		},
		"configured post prompt": {
			configOpts: []profile.ConfigOpt{profile.WithPostPrompt("CONFIGURED")},
			req:        compose.Request{Profile: "python.api", PrePrompt: ptr("")},
			want:       "\n\n" + sysInfo + "\n\nC\nH\n\n\nCONFIGURED",
		},
		"flag beats configured post prompt": {
			configOpts: []profile.ConfigOpt{profile.WithPostPrompt("CONFIGURED")},
			req:        compose.Request{Profile: "python.api", PrePrompt: ptr(""), PostPrompt: ptr("")},
			want:       "\n\n" + sysInfo + "\n\nC\nH\n\n\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newComposer(t, tc.configOpts...)

			var buf bytes.Buffer

			err := c.Render(t.Context(), &buf, tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, buf.String())

			res, err := c.Compose(t.Context(), tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.String())
		})
	}
}

func TestComposer_RenderErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		profile string
		is      error
		msg     string
	}{
		"unknown profile": {
			profile: "nope",
			is:      profile.ErrUnknownProfile,
			msg:     "Unknown profile: nope (referenced by [top-level])",
		},
		"missing file": {
			profile: "broken",
			is:      profile.ErrMissingFile,
			msg:     "Missing file: gone.md (referenced by [broken])",
		},
		"cycle": {
			profile: "loop",
			is:      profile.ErrCycle,
			msg:     "Cycle detected: loop -> loop",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newComposer(t)

			var buf bytes.Buffer

			err := c.Render(t.Context(), &buf, compose.Request{Profile: tc.profile})
			require.ErrorIs(t, err, tc.is)
			require.EqualError(t, err, tc.msg)
			assert.Empty(t, buf.String(), "nothing is written on error")
		})
	}
}

func TestComposer_ComposeCanceled(t *testing.T) {
	t.Parallel()

	c := newComposer(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := c.Compose(ctx, compose.Request{Profile: "python.api"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestComposer_Result(t *testing.T) {
	t.Parallel()

	c := newComposer(t)

	res, err := c.Compose(t.Context(), compose.Request{Profile: "general.testing", Styled: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"a/b/c.md", "f/g/h.md", "a/b/d.md"}, res.Files.Paths())
	require.Len(t, res.Documents, 3)
	assert.Equal(t, "a/b/d.md", res.Documents[2].Path)
	assert.Contains(t, res.Options.SystemInfo, "2024-01-02")

	var buf bytes.Buffer

	n, err := res.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
}

func TestComposer_PlatformReadOnce(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		styled bool
	}{
		"plain":  {styled: false},
		"styled": {styled: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeFile(t, root, "x.md", "X\n")

			calls := 0
			c := compose.New(
				profile.MustNewConfig([]profile.Profile{profile.New("p", "x.md")}),
				library.New(root),
				compose.WithPlatform(func() prompt.Platform {
					calls++

					return fixedPlatform()
				}),
			)

			_, err := c.Compose(t.Context(), compose.Request{Profile: "p", Styled: tc.styled})
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestComposer_Profiles(t *testing.T) {
	t.Parallel()

	c := newComposer(t)

	assert.Equal(t, []string{"broken", "general.testing", "loop", "python.api"}, c.Profiles())
	assert.Equal(t, c.Profiles(), c.Filter(""))
	assert.Equal(t, []string{"python.api"}, c.Filter("api"))
	assert.Empty(t, c.Filter("zzz"))

	assert.Equal(t, []string{"python.api"}, c.Suggest("pyhton.api", 3))
	assert.Empty(t, c.Suggest("zzz", 3))
	assert.Len(t, c.Suggest("o", 2), 2)
}

func TestComposer_Validate(t *testing.T) {
	t.Parallel()

	c := newComposer(t)

	err := profile.Errors(c.Validate())
	require.Error(t, err)
	assert.Equal(t,
		"Missing file: gone.md (referenced by [broken])\nCycle detected: loop -> loop",
		err.Error(),
	)
}

func TestIsUnknownTopLevel(t *testing.T) {
	t.Parallel()

	c := newComposer(t)

	_, err := c.Resolve("nope")
	name, ok := compose.IsUnknownTopLevel(err)
	assert.True(t, ok)
	assert.Equal(t, "nope", name)

	_, ok = compose.IsUnknownTopLevel(&profile.UnknownProfileError{Name: "x", ReferencedBy: "a"})
	assert.False(t, ok)

	_, ok = compose.IsUnknownTopLevel(nil)
	assert.False(t, ok)
}

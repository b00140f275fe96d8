package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/prompter/internal/cli"
)

func TestRun_Watch(t *testing.T) {
	t.Parallel()

	cfgPath := fixture(t, testConfig)
	libFile := filepath.Join(filepath.Dir(cfgPath), "lib", "a", "b", "c.md")
	out := filepath.Join(t.TempDir(), "prompt.md")

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	cmd := cli.NewRootCmd()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"run", "python.api", "--watch", "-o", out, "-P", "END",
		"--config", cfgPath, "--log-level=error",
	})

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	readOutput := func() string {
		b, err := os.ReadFile(out)
		if err != nil {
			return ""
		}

		return string(b)
	}

	require.Eventually(t, func() bool {
		return strings.HasSuffix(readOutput(), "C\nH\n\n\nEND")
	}, 5*time.Second, 20*time.Millisecond)

	// Keep writing until the watcher is ready and picks up a change.
	require.Eventually(t, func() bool {
		if err := os.WriteFile(libFile, []byte("CHANGED\n"), 0o600); err != nil {
			return false
		}

		return strings.HasSuffix(readOutput(), "CHANGED\nH\n\n\nEND")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	assert.Empty(t, stdout.String())
}

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/macropower/prompter/internal/cli"
)

const testConfig = `apiVersion: prompter.macropower.dev/v1beta1
kind: Configuration
library: lib
profiles:
  python.api:
    dependsOn: [a/b/c.md, f/g/h.md]
  general.testing:
    dependsOn: [python.api, a/b/d.md]
`

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// fixture writes a configuration and a library with the files used by
// testConfig, and returns the configuration path.
func fixture(t *testing.T, config string) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "lib/a/b/c.md", "C\n")
	writeFile(t, dir, "lib/a/b/d.md", "D\n")
	writeFile(t, dir, "lib/f/g/h.md", "H\n")

	return writeFile(t, dir, "config.yaml", config)
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level=error"))

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/prompter/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantLogFormat string
		args          []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"PROMPTER_LOG_LEVEL":  "debug",
				"PROMPTER_LOG_FORMAT": "json",
			},
			args:          []string{},
			wantLogLevel:  "debug",
			wantLogFormat: "json",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"PROMPTER_LOG_LEVEL":  "debug",
				"PROMPTER_LOG_FORMAT": "json",
			},
			args:          []string{"--log-level", "error", "--log-format", "text"},
			wantLogLevel:  "error",
			wantLogFormat: "text",
		},
		"partial environment variable override": {
			envVars: map[string]string{
				"PROMPTER_LOG_LEVEL": "error",
			},
			args:          []string{"--log-format", "json"},
			wantLogLevel:  "error",
			wantLogFormat: "json",
		},
		"invalid values are logged and ignored": {
			envVars: map[string]string{
				"PROMPTER_WATCH": "maybe",
			},
			args:          []string{},
			wantLogLevel:  "warn",
			wantLogFormat: "text",
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "warn", // Default value.
			wantLogFormat: "text", // Default value.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			// Parse flags (this triggers environment variable binding).
			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			// Check flag values.
			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)
		})
	}
}

// Test that flag usage strings are updated to include environment variable names.
func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$PROMPTER_LOG_LEVEL")

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Contains(t, configFlag.Usage, "$PROMPTER_CONFIG")

	separatorFlag := cmd.Flags().Lookup("separator")
	require.NotNil(t, separatorFlag)
	assert.Contains(t, separatorFlag.Usage, "$PROMPTER_SEPARATOR")
}

func TestEnvironmentVariableRun(t *testing.T) {
	cfgPath := fixture(t, testConfig)

	t.Setenv("PROMPTER_CONFIG", cfgPath)
	t.Setenv("PROMPTER_POST_PROMPT", `one\ntwo`)

	stdout, _, err := execute(t, "python.api")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stdout, "C\nH\n\n\none\ntwo"), "got %q", stdout)
}

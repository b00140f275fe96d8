package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/prompter/pkg/yaml"
)

func TestMappingKeys(t *testing.T) {
	t.Parallel()

	profilesPath := yaml.NewPathBuilder().Root().Child("profiles").Build()

	tcs := map[string]struct {
		input   string
		want    []string
		wantErr bool
	}{
		"document order": {
			input: "profiles:\n  zeta: {}\n  alpha: {}\n  python.api: {}\n",
			want:  []string{"zeta", "alpha", "python.api"},
		},
		"single key": {
			input: "profiles:\n  only: {}\n",
			want:  []string{"only"},
		},
		"quoted key": {
			input: "profiles:\n  \"a b\": {}\n",
			want:  []string{"a b"},
		},
		"flow mapping": {
			input: "profiles: {b: {}, a: {}}\n",
			want:  []string{"b", "a"},
		},
		"missing": {
			input: "kind: Configuration\n",
		},
		"null": {
			input: "profiles:\n",
		},
		"not a mapping": {
			input:   "profiles: [a, b]\n",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := yaml.MappingKeys([]byte(tc.input), profilesPath)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

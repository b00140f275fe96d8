package version_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/prompter/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	s := version.String()
	assert.True(t, strings.HasPrefix(s, "prompter "), s)
	assert.NotEqual(t, "prompter ", s)
}

func TestDetails(t *testing.T) {
	t.Parallel()

	d := version.Details()
	assert.True(t, strings.HasPrefix(d, version.String()+"\n"))
	assert.Contains(t, d, "revision: "+version.Revision)
	assert.Contains(t, d, version.GoOS)
	assert.Contains(t, d, version.GoArch)
}

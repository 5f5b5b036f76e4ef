package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEnvExample(t *testing.T) {
	content := newTestValidator(t).GenerateEnvExample()

	assert.True(t, strings.HasPrefix(content, "# Generated from schema by envguard\n# Copy this file to .env and fill in the values\n\n"))
	assert.Contains(t, content, "NODE_ENV=development\n")
	assert.Contains(t, content, "PORT=3000\n")
	assert.Contains(t, content, "DATABASE_URL=\n")
	assert.Contains(t, content, "API_KEY=\n")
	assert.Contains(t, content, "DEBUG=false\n")
	assert.Contains(t, content, "# Application environment\n")
	assert.Contains(t, content, "# (type: enum, choices: development | production | test)\n")
	assert.Contains(t, content, "# (type: number, min: 1, max: 65535, optional)\n")
	assert.Contains(t, content, "# (type: url, sensitive)\n")
	assert.Contains(t, content, "# (pattern: ^[a-zA-Z0-9]{32}$, sensitive)\n")
}

func TestGenerateEnvExampleExact(t *testing.T) {
	s, err := Parse([]byte(`
TEST_VAR:
  type: string
  required: true
RATIO:
  type: number
  description: Sampling ratio
  default: 0.25
  required: false
`))
	require.NoError(t, err)

	want := "# Generated from schema by envguard\n" +
		"# Copy this file to .env and fill in the values\n" +
		"\n" +
		"TEST_VAR=\n" +
		"\n" +
		"# Sampling ratio\n" +
		"# (type: number, optional)\n" +
		"RATIO=0.25\n"
	assert.Equal(t, want, NewValidator(s).GenerateEnvExample())
}

func TestGenerateEnvExampleHidesSensitiveDefault(t *testing.T) {
	s, err := Parse([]byte(`{"SECRET": {"type": "string", "isSensitive": true, "default": "changeme"}}`))
	require.NoError(t, err)

	content := NewValidator(s).GenerateEnvExample()
	assert.Contains(t, content, "SECRET=\n")
	assert.NotContains(t, content, "changeme")
}

func TestGenerateEnvExampleJSONDefault(t *testing.T) {
	s, err := Parse([]byte(`{"CFG": {"type": "json", "default": {"a": 1}}}`))
	require.NoError(t, err)

	assert.Contains(t, NewValidator(s).GenerateEnvExample(), `CFG={"a":1}`)
}

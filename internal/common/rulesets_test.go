package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRulesets(t *testing.T) {
	data := []byte(`
rulesets:
  - name: tone
    rules:
      - value: Be concise
      - value: Never speculate
  - name: format
    rules:
      - value: Answer in markdown
`)

	rulesets, err := ParseRulesets(data)
	require.NoError(t, err)
	require.Len(t, rulesets, 2)

	assert.Equal(t, "tone", rulesets[0].Name)
	assert.Equal(t, "Never speculate", rulesets[0].Rules[1].Value)
	assert.Equal(t, "Ruleset name: format\n- Answer in markdown", rulesets[1].Render())
}

func TestParseRulesets_Invalid(t *testing.T) {
	_, err := ParseRulesets([]byte("rulesets:\n  - rules:\n      - value: x\n"))
	assert.Error(t, err, "unnamed ruleset")

	_, err = ParseRulesets([]byte("rulesets:\n  - name: empty\n"))
	assert.Error(t, err, "ruleset without rules")

	_, err = ParseRulesets([]byte("rulesets: ["))
	assert.Error(t, err, "malformed yaml")
}

func TestLoadRulesets_EmptyPath(t *testing.T) {
	rulesets, err := LoadRulesets("")
	require.NoError(t, err)
	assert.Nil(t, rulesets)
}

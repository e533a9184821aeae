package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestReplaceKeyReferences(t *testing.T) {
	logger := arbor.NewLogger()
	kvMap := map[string]string{
		"gemini_api_key": "sk-12345",
		"host":           "qdrant.internal",
		"port-suffix":    "6334",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "{gemini_api_key}", "sk-12345"},
		{"embedded", "https://{host}:{port-suffix}/", "https://qdrant.internal:6334/"},
		{"repeated", "{host}/{host}", "qdrant.internal/qdrant.internal"},
		{"missing key left unchanged", "{unknown}", "{unknown}"},
		{"invalid syntax ignored", "{not valid} {}", "{not valid} {}"},
		{"no references", "plain value", "plain value"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceKeyReferences(tt.input, kvMap, logger))
		})
	}
}

func TestReplaceInStruct_Config(t *testing.T) {
	config := NewDefaultConfig()
	config.Gemini.APIKey = "{gemini_api_key}"
	config.Claude.APIKey = "{anthropic_api_key}"
	config.Qdrant.Host = "{qdrant_host}"
	config.Scraper.ExcludeIDs = []string{"{banner_id}", "nav"}

	kvMap := map[string]string{
		"gemini_api_key": "g-key",
		"qdrant_host":    "vectors.local",
		"banner_id":      "cookie-banner",
	}

	require.NoError(t, ReplaceInStruct(config, kvMap, arbor.NewLogger()))

	assert.Equal(t, "g-key", config.Gemini.APIKey)
	assert.Equal(t, "{anthropic_api_key}", config.Claude.APIKey)
	assert.Equal(t, "vectors.local", config.Qdrant.Host)
	assert.Equal(t, []string{"cookie-banner", "nav"}, config.Scraper.ExcludeIDs)
	assert.Equal(t, DriverGemini, config.Drivers.Prompt)
}

func TestReplaceInStruct_PointerAndUnexportedFields(t *testing.T) {
	type inner struct {
		Value string
	}
	type outer struct {
		Inner   *inner
		Nil     *inner
		private string
	}

	v := &outer{Inner: &inner{Value: "{key}"}, private: "{key}"}
	require.NoError(t, ReplaceInStruct(v, map[string]string{"key": "value"}, arbor.NewLogger()))

	assert.Equal(t, "value", v.Inner.Value)
	assert.Equal(t, "{key}", v.private)
	assert.Nil(t, v.Nil)
}

func TestReplaceInStruct_RequiresStructPointer(t *testing.T) {
	logger := arbor.NewLogger()

	assert.Error(t, ReplaceInStruct(Config{}, nil, logger))
	s := "text"
	assert.Error(t, ReplaceInStruct(&s, nil, logger))
	var nilConfig *Config
	assert.Error(t, ReplaceInStruct(nilConfig, nil, logger))
}

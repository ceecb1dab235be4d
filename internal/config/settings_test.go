package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	s, err := LoadFrom(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5003", s.Addr)
	assert.Equal(t, "http://schema-server:5001", s.SchemaServiceURL)
	assert.Equal(t, "http://values-server:5002", s.ValuesServiceURL)
	assert.Equal(t, "http://ollama:11434", s.ModelGatewayURL)
	assert.Equal(t, GatewayAPIGenerate, s.ModelGatewayAPI)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.BotConfigPath)
}

func TestLoadFrom_Overrides(t *testing.T) {
	s, err := LoadFrom(envOf(map[string]string{
		"SCHEMA_SERVICE_URL": "http://localhost:6001/",
		"OLLAMA_URL":         "https://llm.internal",
		"MODEL_GATEWAY_API":  "OpenAI",
		"OPENAI_API_KEY":     "sk-test",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:6001", s.SchemaServiceURL)
	assert.Equal(t, "https://llm.internal", s.ModelGatewayURL)
	assert.Equal(t, GatewayAPIOpenAI, s.ModelGatewayAPI)
	assert.Equal(t, "sk-test", s.ModelGatewayKey)
}

func TestLoadFrom_Rejects(t *testing.T) {
	_, err := LoadFrom(envOf(map[string]string{"VALUES_SERVICE_URL": "values-server:5002"}))
	assert.ErrorContains(t, err, "VALUES_SERVICE_URL")

	_, err = LoadFrom(envOf(map[string]string{"MODEL_GATEWAY_API": "grpc"}))
	assert.ErrorContains(t, err, "MODEL_GATEWAY_API")
}

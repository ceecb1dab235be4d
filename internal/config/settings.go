package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Gateway API flavours understood by the bot-server.
const (
	GatewayAPIGenerate = "generate"
	GatewayAPIOpenAI   = "openai"
)

// Settings holds the bot-server process settings read from the environment.
type Settings struct {
	Addr             string
	SchemaServiceURL string
	ValuesServiceURL string
	ModelGatewayURL  string
	ModelGatewayAPI  string
	// ModelGatewayKey is only sent by the openai gateway flavour.
	ModelGatewayKey string
	BotConfigPath   string
	LogLevel        string
}

// Load reads Settings from the environment, applying defaults.
func Load() (Settings, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with an injectable lookup, used by tests.
func LoadFrom(lookup func(string) string) (Settings, error) {
	getenv := func(k, def string) string {
		v := strings.TrimSpace(lookup(k))
		if v == "" {
			return def
		}
		return v
	}

	s := Settings{
		Addr:             getenv("BOT_SERVER_ADDR", ":5003"),
		SchemaServiceURL: strings.TrimSuffix(getenv("SCHEMA_SERVICE_URL", "http://schema-server:5001"), "/"),
		ValuesServiceURL: strings.TrimSuffix(getenv("VALUES_SERVICE_URL", "http://values-server:5002"), "/"),
		ModelGatewayURL:  strings.TrimSuffix(getenv("OLLAMA_URL", "http://ollama:11434"), "/"),
		ModelGatewayAPI:  strings.ToLower(getenv("MODEL_GATEWAY_API", GatewayAPIGenerate)),
		ModelGatewayKey:  lookup("OPENAI_API_KEY"),
		BotConfigPath:    getenv("BOT_CONFIG_PATH", ""),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}

	for name, raw := range map[string]string{
		"SCHEMA_SERVICE_URL": s.SchemaServiceURL,
		"VALUES_SERVICE_URL": s.ValuesServiceURL,
		"OLLAMA_URL":         s.ModelGatewayURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return Settings{}, fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
		}
	}

	switch s.ModelGatewayAPI {
	case GatewayAPIGenerate, GatewayAPIOpenAI:
	default:
		return Settings{}, fmt.Errorf("MODEL_GATEWAY_API must be %q or %q, got %q", GatewayAPIGenerate, GatewayAPIOpenAI, s.ModelGatewayAPI)
	}
	return s, nil
}

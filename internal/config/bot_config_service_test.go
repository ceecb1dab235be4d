package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confbot/internal/features/config/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBotConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := NewBotConfigService("").LoadBotConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"tournament", "matchmaking", "chat"}, cfg.Identifiers())
	assert.Equal(t, "qwen2.5-coder:1.5b", cfg.PreferredModel())
	assert.Equal(t, 30*time.Second, cfg.Resolver.Timeout)
	assert.Equal(t, 180*time.Second, cfg.Edit.Timeout)
}

func TestLoadBotConfig_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, "bot.yaml", `
applications:
  - name: lobby
    keywords: [lobby, "waiting room"]
  - name: chat
    keywords: [chat, messaging]
resolver:
  model: phi3:mini
  timeout: 10s
edit:
  timeout: 1m
  candidates:
    - name: mistral:7b
      description: only choice
`)

	cfg, err := NewBotConfigService(path).LoadBotConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"lobby", "chat"}, cfg.Identifiers())
	assert.Equal(t, "phi3:mini", cfg.Resolver.Model)
	assert.Equal(t, 0.1, cfg.Resolver.Temperature)
	assert.Equal(t, 10*time.Second, cfg.Resolver.Timeout)
	assert.Equal(t, time.Minute, cfg.Edit.Timeout)
	assert.Equal(t, 4096, cfg.Edit.NumPredict)
	assert.Equal(t, "mistral:7b", cfg.PreferredModel())
}

func TestLoadBotConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    filepath.Join(t.TempDir(), "nope.yaml"),
			wantErr: "failed to read bot config file",
		},
		{
			name:    "bad yaml",
			path:    writeFile(t, "bad.yaml", "applications: [\n"),
			wantErr: "failed to unmarshal bot config",
		},
		{
			name:    "empty ladder",
			path:    writeFile(t, "ladder.yaml", "edit:\n  candidates: []\n"),
			wantErr: "at least one edit model candidate is required",
		},
		{
			name:    "uppercase application",
			path:    writeFile(t, "apps.yaml", "applications:\n  - name: Chat\n"),
			wantErr: "must contain only lowercase letters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBotConfigService(tt.path).LoadBotConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBotConfig_Validate(t *testing.T) {
	cfg := domain.DefaultBotConfig()
	require.NoError(t, cfg.Validate())

	dup := domain.DefaultBotConfig()
	dup.Applications = append(dup.Applications, domain.Application{Name: "chat"})
	assert.ErrorContains(t, dup.Validate(), "duplicate application")

	noApps := domain.DefaultBotConfig()
	noApps.Applications = nil
	assert.ErrorContains(t, noApps.Validate(), "at least one application")

	assert.True(t, cfg.IsKnown("matchmaking"))
	assert.False(t, cfg.IsKnown("soccer"))
}

func TestLoadBotConfig_ShippedFileMatchesDefaults(t *testing.T) {
	cfg, err := NewBotConfigService(filepath.Join("..", "..", "config", "bot_config.yaml")).LoadBotConfig()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBotConfig(), *cfg)
}

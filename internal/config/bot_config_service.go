package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"confbot/internal/features/config/domain"
)

// BotConfigService defines the interface for loading the bot configuration.
type BotConfigService interface {
	LoadBotConfig() (*domain.BotConfig, error)
}

// botConfigService is the implementation of BotConfigService.
type botConfigService struct {
	configPath string
}

// NewBotConfigService creates a new instance of botConfigService. An empty
// path means the built-in defaults are used.
func NewBotConfigService(configPath string) BotConfigService {
	return &botConfigService{configPath: configPath}
}

// LoadBotConfig reads the YAML file over the defaults and validates the result.
// Lists in the file replace the default lists rather than extending them.
func (s *botConfigService) LoadBotConfig() (*domain.BotConfig, error) {
	botConfig := domain.DefaultBotConfig()
	if s.configPath == "" {
		return &botConfig, nil
	}

	absPath, err := filepath.Abs(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", s.configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot config file %s: %w", absPath, err)
	}

	if err := yaml.Unmarshal(data, &botConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot config from %s: %w", absPath, err)
	}

	if err := botConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bot config %s: %w", absPath, err)
	}
	return &botConfig, nil
}

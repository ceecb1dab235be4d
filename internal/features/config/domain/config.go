package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Application is one configuration domain the bot can edit, with the
// keywords that identify it in free text.
type Application struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ModelCandidate is one rung of the edit fallback ladder.
type ModelCandidate struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// ResolverParams defines how the model is asked to name an application.
type ResolverParams struct {
	Model       string        `json:"model" yaml:"model"`
	Temperature float64       `json:"temperature" yaml:"temperature"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// EditParams defines the per-attempt parameters of the edit ladder.
type EditParams struct {
	Temperature float64          `json:"temperature" yaml:"temperature"`
	Format      string           `json:"format,omitempty" yaml:"format"`
	NumPredict  int              `json:"num_predict,omitempty" yaml:"num_predict"`
	Timeout     time.Duration    `json:"timeout" yaml:"timeout"`
	Candidates  []ModelCandidate `json:"candidates" yaml:"candidates"`
}

// BotConfig is the bot-server's immutable view of applications and models.
// It is built once at startup and shared read-only by all requests.
type BotConfig struct {
	Applications []Application  `json:"applications" yaml:"applications"`
	Resolver     ResolverParams `json:"resolver" yaml:"resolver"`
	Edit         EditParams     `json:"edit" yaml:"edit"`
}

// DefaultBotConfig returns the built-in applications and model ladder.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		Applications: []Application{
			{Name: "tournament", Keywords: []string{"tournament"}},
			{Name: "matchmaking", Keywords: []string{"matchmaking"}},
			{Name: "chat", Keywords: []string{"chat"}},
		},
		Resolver: ResolverParams{
			Model:       "llama3.2",
			Temperature: 0.1,
			Timeout:     30 * time.Second,
		},
		Edit: EditParams{
			Temperature: 0.0,
			Format:      "json",
			NumPredict:  4096,
			Timeout:     180 * time.Second,
			Candidates: []ModelCandidate{
				{Name: "qwen2.5-coder:1.5b", Description: "Small, fast coder model"},
				{Name: "llama3.2:1b", Description: "Small llama model"},
				{Name: "llama3.2", Description: "Standard llama 3.2"},
				{Name: "llama3", Description: "Standard llama 3"},
			},
		},
	}
}

// Identifiers lists the known application names in configured order.
func (c BotConfig) Identifiers() []string {
	names := make([]string, 0, len(c.Applications))
	for _, app := range c.Applications {
		names = append(names, app.Name)
	}
	return names
}

// IsKnown reports whether name is one of the configured applications.
func (c BotConfig) IsKnown(name string) bool {
	for _, app := range c.Applications {
		if app.Name == name {
			return true
		}
	}
	return false
}

// PreferredModel is the first ladder candidate, the one users are told to install.
func (c BotConfig) PreferredModel() string {
	if len(c.Edit.Candidates) == 0 {
		return ""
	}
	return c.Edit.Candidates[0].Name
}

// Validate checks the invariants the bot relies on.
func (c BotConfig) Validate() error {
	if len(c.Applications) == 0 {
		return errors.New("at least one application is required")
	}
	seen := make(map[string]bool, len(c.Applications))
	for i, app := range c.Applications {
		if app.Name == "" {
			return fmt.Errorf("application %d has no name", i)
		}
		if app.Name != strings.ToLower(app.Name) || strings.IndexFunc(app.Name, func(r rune) bool { return r < 'a' || r > 'z' }) >= 0 {
			return fmt.Errorf("application name %q must contain only lowercase letters", app.Name)
		}
		if seen[app.Name] {
			return fmt.Errorf("duplicate application %q", app.Name)
		}
		seen[app.Name] = true
	}
	if c.Resolver.Model == "" {
		return errors.New("resolver model is required")
	}
	if c.Resolver.Timeout <= 0 {
		return errors.New("resolver timeout must be positive")
	}
	if len(c.Edit.Candidates) == 0 {
		return errors.New("at least one edit model candidate is required")
	}
	for i, cand := range c.Edit.Candidates {
		if cand.Name == "" {
			return fmt.Errorf("edit candidate %d has no name", i)
		}
	}
	if c.Edit.Timeout <= 0 {
		return errors.New("edit timeout must be positive")
	}
	return nil
}

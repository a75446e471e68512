package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/longkt99/scribe/internal/governance"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SCRIBE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SCRIBE_MODEL -> model, etc.
	if err := k.Load(env.Provider("SCRIBE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SCRIBE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
}

// validRoles is the set of recognized governance roles.
var validRoles = map[governance.Role]bool{
	governance.RoleAdmin:  true,
	governance.RoleEditor: true,
	governance.RoleJunior: true,
	governance.RoleClient: true,
	governance.RoleViewer: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be openai", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be within 1-65535")
	}
	if c.DefaultRole != "" && !validRoles[governance.Role(c.DefaultRole)] {
		return fmt.Errorf("invalid default_role %q: must be one of admin, editor, junior, client, viewer", c.DefaultRole)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit_rpm must be non-negative")
	}
	if c.Learning.DecayPerDay < 0 || c.Learning.DecayPerDay > 1 {
		return fmt.Errorf("learning.decay_per_day must be within [0,1]")
	}
	if c.Learning.MaxStrength < 0 || c.Learning.MaxStrength > 1 {
		return fmt.Errorf("learning.max_strength must be within [0,1]")
	}
	if c.Outcomes.MaxCount < 0 {
		return fmt.Errorf("outcomes.max_count must be non-negative")
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

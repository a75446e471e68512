package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level scribe configuration, corresponding to .scribe.yml.
type Config struct {
	Provider    ProviderType   `yaml:"provider" koanf:"provider"`
	Model       string         `yaml:"model" koanf:"model"`
	DataDir     string         `yaml:"data_dir" koanf:"data_dir"`
	Port        int            `yaml:"port" koanf:"port"`
	DefaultUser string         `yaml:"default_user" koanf:"default_user"`
	DefaultRole string         `yaml:"default_role" koanf:"default_role"`
	TeamID      string         `yaml:"team_id" koanf:"team_id"`
	RateLimit   int            `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	Gate        GateConfig     `yaml:"gate" koanf:"gate"`
	Learning    LearningConfig `yaml:"learning" koanf:"learning"`
	Outcomes    OutcomeConfig  `yaml:"outcomes" koanf:"outcomes"`
}

// GateConfig tunes the execution gate's windows, in seconds.
type GateConfig struct {
	ReplayWindowSecs int `yaml:"replay_window_secs" koanf:"replay_window_secs"`
	TokenTTLSecs     int `yaml:"token_ttl_secs" koanf:"token_ttl_secs"`
}

// LearningConfig tunes preference learning. Zero values fall back to the
// built-in defaults.
type LearningConfig struct {
	MinObservations int     `yaml:"min_observations" koanf:"min_observations"`
	DecayPerDay     float64 `yaml:"decay_per_day" koanf:"decay_per_day"`
	MaxStrength     float64 `yaml:"max_strength" koanf:"max_strength"`
	TTLDays         int     `yaml:"ttl_days" koanf:"ttl_days"`
}

// OutcomeConfig bounds the outcome ledger.
type OutcomeConfig struct {
	TTLDays  int `yaml:"ttl_days" koanf:"ttl_days"`
	MaxCount int `yaml:"max_count" koanf:"max_count"`
}

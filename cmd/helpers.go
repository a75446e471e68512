package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/longkt99/scribe/internal/audit"
	"github.com/longkt99/scribe/internal/config"
	"github.com/longkt99/scribe/internal/continuity"
	"github.com/longkt99/scribe/internal/db"
	"github.com/longkt99/scribe/internal/decision"
	"github.com/longkt99/scribe/internal/gate"
	"github.com/longkt99/scribe/internal/governance"
	"github.com/longkt99/scribe/internal/llm"
	"github.com/longkt99/scribe/internal/outcome"
	"github.com/longkt99/scribe/internal/preference"
	"github.com/longkt99/scribe/internal/recovery"
	"github.com/longkt99/scribe/internal/storage"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config (run `scribe init` to regenerate): %w", err)
	}
	return cfg, nil
}

// services is everything a command may need, built from one config.
type services struct {
	db       *db.DB
	engine   *decision.Engine
	recovery *recovery.Service
	outcomes *outcome.Store
	prefs    *preference.Store
	audit    *audit.Store
}

// openServices wires the full decision stack over the configured SQLite
// database.
func openServices(cfg *config.Config) (*services, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "scribe.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	kv := storage.NewSQLiteKV(database)
	tracker := continuity.NewTracker(kv)
	prefs := preference.NewStore(kv, cfg.Tunables())
	outcomes := outcome.NewStore(kv, cfg.Limits())
	gov := governance.NewEngine()
	auditStore := audit.NewStore(database)

	g := gate.New(gate.Options{
		ReplayWindow: cfg.ReplayWindow(),
		TokenTTL:     cfg.TokenTTL(),
	})

	return &services{
		db:       database,
		engine:   decision.NewEngine(g, tracker, prefs, outcomes, gov, auditStore),
		recovery: recovery.NewService(tracker, prefs, outcomes, gov, auditStore),
		outcomes: outcomes,
		prefs:    prefs,
		audit:    auditStore,
	}, nil
}

func (s *services) close() {
	s.db.Close()
}

// governanceContext builds the session governance context from config. An
// empty default role keeps governance inactive for solo use.
func governanceContext(cfg *config.Config, userID string) governance.Context {
	if cfg.DefaultRole == "" {
		return governance.Context{}
	}
	return governance.NewContext(userID, cfg.TeamID, governance.Role(cfg.DefaultRole))
}

// newProvider builds the configured LLM provider, rate limited if requested.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	apiKey := os.Getenv(config.APIKeyEnvVar(cfg.Provider))
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", config.APIKeyEnvVar(cfg.Provider))
	}
	var provider llm.Provider = llm.NewOpenAIProvider(apiKey, cfg.Model)
	if cfg.RateLimit > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimit)
	}
	return provider, nil
}

package config

import (
	"time"

	"github.com/longkt99/scribe/internal/outcome"
	"github.com/longkt99/scribe/internal/preference"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tun := preference.DefaultTunables()
	lim := outcome.DefaultLimits()
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		DataDir:     ".scribe",
		Port:        8470,
		DefaultUser: "local",
		Gate: GateConfig{
			ReplayWindowSecs: 300,
			TokenTTLSecs:     120,
		},
		Learning: LearningConfig{
			MinObservations: tun.MinObservations,
			DecayPerDay:     tun.DecayPerDay,
			MaxStrength:     tun.MaxStrength,
			TTLDays:         int(tun.TTL / (24 * time.Hour)),
		},
		Outcomes: OutcomeConfig{
			TTLDays:  int(lim.TTL / (24 * time.Hour)),
			MaxCount: lim.MaxCount,
		},
	}
}

// Tunables converts the learning section into preference store tunables,
// keeping built-in defaults for anything left at zero.
func (c *Config) Tunables() preference.Tunables {
	tun := preference.DefaultTunables()
	if c.Learning.MinObservations > 0 {
		tun.MinObservations = c.Learning.MinObservations
	}
	if c.Learning.DecayPerDay > 0 {
		tun.DecayPerDay = c.Learning.DecayPerDay
	}
	if c.Learning.MaxStrength > 0 {
		tun.MaxStrength = c.Learning.MaxStrength
	}
	if c.Learning.TTLDays > 0 {
		tun.TTL = time.Duration(c.Learning.TTLDays) * 24 * time.Hour
	}
	return tun
}

// Limits converts the outcomes section into ledger limits.
func (c *Config) Limits() outcome.Limits {
	lim := outcome.DefaultLimits()
	if c.Outcomes.TTLDays > 0 {
		lim.TTL = time.Duration(c.Outcomes.TTLDays) * 24 * time.Hour
	}
	if c.Outcomes.MaxCount > 0 {
		lim.MaxCount = c.Outcomes.MaxCount
	}
	return lim
}

// ReplayWindow returns the gate replay window as a duration.
func (c *Config) ReplayWindow() time.Duration {
	if c.Gate.ReplayWindowSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Gate.ReplayWindowSecs) * time.Second
}

// TokenTTL returns the gate token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	if c.Gate.TokenTTLSecs <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.Gate.TokenTTLSecs) * time.Second
}

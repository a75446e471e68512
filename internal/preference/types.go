package preference

import "time"

// Key identifies one learned preference. The set is closed: free text is
// classified into these keys and never stored itself.
type Key string

const (
	KeyShortOutput Key = "prefers_short_output"
	KeyLongOutput  Key = "prefers_long_output"
	KeyEditInPlace Key = "prefers_edit_in_place"
	KeyNewVersion  Key = "prefers_new_version"
	KeyEmoji       Key = "prefers_emoji"
	KeyPlainText   Key = "prefers_plain_text"
)

// AllKeys lists every recognized preference key.
var AllKeys = []Key{
	KeyShortOutput, KeyLongOutput,
	KeyEditInPlace, KeyNewVersion,
	KeyEmoji, KeyPlainText,
}

// Record counts observations for one preference key. Strength is always
// recomputed from these counters at read time; nothing else is derived
// eagerly or by background jobs.
type Record struct {
	PositiveCount int       `json:"positive_count"`
	NegativeCount int       `json:"negative_count"`
	FirstObserved time.Time `json:"first_observed"`
	LastObserved  time.Time `json:"last_observed"`
}

// Choice is a default UI option a bias may rank.
type Choice string

const (
	ChoiceEditInPlace Choice = "edit_in_place"
	ChoiceNewVersion  Choice = "transform_new_version"
	ChoiceCreateNew   Choice = "create_new"
)

// Bias is the aggregate, soft output of the store: a suggested default and a
// full relative ordering for UI sorting. It never overrides routing.
type Bias struct {
	DefaultChoice Choice   `json:"default_choice,omitempty"`
	Ordering      []Choice `json:"ordering"`
	Strength      float64  `json:"strength"`
	Reason        string   `json:"reason,omitempty"`
}

// Signal is one classified observation about user behavior.
type Signal struct {
	Key      Key  `json:"key"`
	Positive bool `json:"positive"`
}

// Tunables are the decay and thresholding constants. Their exact values tune
// feel rather than correctness, so they are configuration with defaults.
type Tunables struct {
	MinObservations  int
	PositiveRatioMin float64
	DecayPerDay      float64
	MaxStrength      float64
	ObservationCap   int
	ActiveThreshold  float64
	PurgeThreshold   float64
	TTL              time.Duration
	CleanupInterval  time.Duration
}

// DefaultTunables returns the reference tuning.
func DefaultTunables() Tunables {
	return Tunables{
		MinObservations:  3,
		PositiveRatioMin: 0.6,
		DecayPerDay:      0.05,
		MaxStrength:      0.85,
		ObservationCap:   10,
		ActiveThreshold:  0.3,
		PurgeThreshold:   0.1,
		TTL:              21 * 24 * time.Hour,
		CleanupInterval:  24 * time.Hour,
	}
}

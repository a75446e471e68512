// Package stability scores how repeatable a detected instruction pattern has
// proven to be. The band is consumed read-only by the continuity and
// governance layers when deciding whether a confirmation step may be skipped.
package stability

import "context"

// Band is the externally visible confidence tier for a pattern.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

var bandRank = map[Band]int{BandLow: 1, BandMedium: 2, BandHigh: 3}

// AtLeast reports whether b meets or exceeds min.
func (b Band) AtLeast(min Band) bool {
	return bandRank[b] >= bandRank[min]
}

// Assessment summarizes the track record of one pattern hash.
type Assessment struct {
	Band              Band `json:"band"`
	AutoApplyEligible bool `json:"auto_apply_eligible"`
	NegativeHighCount int  `json:"negative_high_count"`
}

// Assessor supplies stability assessments per pattern hash.
type Assessor interface {
	Assess(ctx context.Context, patternHash string) Assessment
}

// Static returns the same assessment for every pattern. Used in tests and by
// callers that already hold an externally computed signal.
type Static struct {
	Assessment Assessment
}

func (s Static) Assess(ctx context.Context, patternHash string) Assessment {
	return s.Assessment
}

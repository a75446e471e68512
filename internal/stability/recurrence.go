package stability

import (
	"context"

	"github.com/longkt99/scribe/internal/outcome"
)

// Recurrence thresholds: a pattern earns a band by being repeatedly accepted,
// and any high-severity negative outcome knocks out auto-apply.
const (
	highBandAccepted   = 5
	mediumBandAccepted = 2
)

// OutcomeAssessor derives the stability band for a pattern from its track
// record in the outcome ledger.
type OutcomeAssessor struct {
	outcomes *outcome.Store
	userID   func(ctx context.Context) string
}

// NewOutcomeAssessor creates an assessor over the given ledger. userID
// extracts the acting user from the call context; a nil func means unscoped.
func NewOutcomeAssessor(outcomes *outcome.Store, userID func(ctx context.Context) string) *OutcomeAssessor {
	return &OutcomeAssessor{outcomes: outcomes, userID: userID}
}

func (a *OutcomeAssessor) Assess(ctx context.Context, patternHash string) Assessment {
	uid := ""
	if a.userID != nil {
		uid = a.userID(ctx)
	}
	rec := a.outcomes.PatternStats(ctx, uid, patternHash)

	as := Assessment{Band: BandLow, NegativeHighCount: rec.NegativeHighCount}

	if rec.NegativeHighCount > 0 {
		// A recently undone pattern is not trusted, however often it was
		// accepted before.
		return as
	}

	switch {
	case rec.Accepted >= highBandAccepted:
		as.Band = BandHigh
	case rec.Accepted >= mediumBandAccepted:
		as.Band = BandMedium
	}
	as.AutoApplyEligible = as.Band != BandLow
	return as
}

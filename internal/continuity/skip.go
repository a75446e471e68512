package continuity

import (
	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/stability"
)

// SkipResult is the tracker's recommendation on the confirmation step.
// SkipDefault defers to the caller's baseline policy.
type SkipResult string

const (
	SkipConfirm SkipResult = "skip"
	ShowConfirm SkipResult = "show"
	SkipDefault SkipResult = "default"
)

// SkipInput bundles the context for a confirmation-skip recommendation.
type SkipInput struct {
	State             State
	Band              stability.Band
	RouteHint         intent.Route
	AutoApplyEligible bool
}

// SkipConfirmation recommends whether the confirmation step can be skipped
// for the current instruction. A correction cycle always shows it; creating
// new content is held to a stricter bar than refining, since silently
// committing to fresh content is harder to walk back than one more iteration.
func SkipConfirmation(in SkipInput) (SkipResult, string) {
	st := in.State

	if st.Mode == ModeCorrection || st.InCorrectionCycle {
		return ShowConfirm, "user is correcting recent decisions"
	}

	switch st.Mode {
	case ModeExploration, ModeUnknown:
		return SkipDefault, "no settled pattern to lean on"

	case ModeRefine:
		if in.RouteHint != intent.RouteTransform {
			return SkipDefault, "refine flow but route is not transform"
		}
		if in.Band == stability.BandLow {
			return SkipDefault, "pattern stability too low"
		}
		if in.Band == stability.BandHigh && st.ModeConfidence >= 0.7 {
			return SkipConfirm, "stable refine flow"
		}
		if in.Band == stability.BandMedium && st.ModeConfidence >= 0.8 && in.AutoApplyEligible {
			return SkipConfirm, "confident refine flow with auto-apply eligibility"
		}
		return SkipDefault, "refine flow below skip thresholds"

	case ModeCreate:
		if in.RouteHint == intent.RouteCreate && in.Band == stability.BandHigh && st.ModeConfidence >= 0.7 {
			return SkipConfirm, "stable create flow"
		}
		return SkipDefault, "create flow below skip thresholds"
	}

	return SkipDefault, "no recommendation"
}

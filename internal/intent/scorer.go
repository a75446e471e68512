package intent

import "fmt"

// Scoring thresholds and shapes. The rule order below is load-bearing: the
// first matching rule wins, and explicit user signals always beat heuristics.
const (
	longInputThreshold = 120 // runes; longer un-referenced input reads as new material

	explicitCreateConfidence    = 0.92
	explicitTransformConfidence = 0.88
	activeSourceBoost           = 0.04
	transformConfidenceCap      = 0.98

	longInputConfidence    = 0.83
	activeSourcePenalty    = 0.08
	ambiguousTransformBase = 0.58
	actionVerbBoost        = 0.08
	shortInstructionBoost  = 0.06
	shortInstructionWords  = 3
	ambiguousTransformMin  = 0.50
	ambiguousTransformMax  = 0.78
	assistantOnlyBase      = 0.52
	assistantOnlyMin       = 0.45
	assistantOnlyMax       = 0.60
	ambiguousCreateBase    = 0.45
	defaultCreateBase      = 0.45
	contextBoost           = 0.10

	highConfidenceThreshold = 0.80
	lowConfidenceThreshold  = 0.65
)

// Score maps an instruction's signals to a routing hint with a numeric
// confidence in [0,1]. It is a pure function: no clock, no I/O, no state.
func Score(in Input) Result {
	s := in.Signals

	// Rule 1: an explicit new-create signal always wins.
	if s.ExplicitNewCreate {
		return Result{
			Route:      RouteCreate,
			Confidence: explicitCreateConfidence,
			Reason:     "explicit new-create signal",
		}
	}

	// Rule 2: explicit reference to an existing draft.
	if s.ExplicitTransformRef {
		c := explicitTransformConfidence
		if in.HasActiveSource {
			c = min(c+activeSourceBoost, transformConfidenceCap)
		}
		return Result{
			Route:      RouteTransform,
			Confidence: c,
			Reason:     "explicit reference to existing content",
		}
	}

	// Rule 3: long input with no transform reference is new material.
	if s.InputLength > longInputThreshold {
		c := longInputConfidence
		reason := fmt.Sprintf("input longer than %d characters without transform reference", longInputThreshold)
		if in.HasActiveSource {
			c -= activeSourcePenalty
			reason += " (active source lowers certainty)"
		}
		return Result{Route: RouteCreate, Confidence: c, Reason: reason}
	}

	// Rules 4-6: transform-like action verb without an explicit target.
	if s.AmbiguousTransform {
		switch {
		case in.HasActiveSource:
			c := ambiguousTransformBase
			if s.HasActionVerb {
				c += actionVerbBoost
			}
			if s.WordCount > 0 && s.WordCount <= shortInstructionWords {
				c += shortInstructionBoost
			}
			return Result{
				Route:      RouteTransform,
				Confidence: clamp(c, ambiguousTransformMin, ambiguousTransformMax),
				Reason:     "ambiguous transform verb with an active source",
			}
		case in.HasLastAssistant:
			return Result{
				Route:      RouteTransform,
				Confidence: clamp(assistantOnlyBase, assistantOnlyMin, assistantOnlyMax),
				Reason:     "ambiguous transform verb; only a prior assistant turn to act on",
			}
		default:
			return Result{
				Route:      RouteCreate,
				Confidence: ambiguousCreateBase,
				Reason:     "transform verb but nothing to transform",
			}
		}
	}

	// Rule 7: no strong signal at all.
	c := defaultCreateBase
	reason := "no strong signal, defaulting to create"
	if in.HasActiveSource || in.HasLastAssistant {
		c += contextBoost
		reason = "no strong signal, prior context present"
	}
	return Result{Route: RouteCreate, Confidence: c, Reason: reason}
}

// IsHighConfidence reports whether c clears the auto-apply consideration bar.
func IsHighConfidence(c float64) bool { return c >= highConfidenceThreshold }

// IsLowConfidence reports whether c is too weak to act on without asking.
func IsLowConfidence(c float64) bool { return c < lowConfidenceThreshold }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

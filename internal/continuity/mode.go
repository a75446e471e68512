package continuity

import (
	"fmt"
	"time"
)

const (
	// windowSize caps the retained history; newest first.
	windowSize = 20

	// recentWindow is the span considered "one conversational beat". Rapid
	// alternation inside two beats reads as the user correcting course.
	recentWindow = 10 * time.Minute

	refineBaseConfidence = 0.5
	refineStepConfidence = 0.15
	modeConfidenceCap    = 0.95
)

// DetectMode derives the conversational mode from a newest-first history.
// The correction check has priority over every other rule.
func DetectMode(history []HistoryItem, now time.Time) (Mode, float64, string) {
	if len(history) == 0 {
		return ModeUnknown, 0, "no history"
	}

	if isCorrecting(history, now) {
		return ModeCorrection, 0.9, "recent undo or rapid intent alternation"
	}

	head := history[0].Type
	run := consecutiveRun(history)

	if head == IntentTransform && run >= 2 {
		c := capConfidence(refineBaseConfidence + refineStepConfidence*float64(run))
		return ModeRefine, c, fmt.Sprintf("%d consecutive transforms", run)
	}

	if head == IntentEditInPlace && len(history) >= 2 && history[1].Type == IntentTransform {
		return ModeRefine, 0.7, "edit in place following a transform"
	}

	if head == IntentCreate && run >= 2 {
		c := capConfidence(refineBaseConfidence + refineStepConfidence*float64(run))
		return ModeCreate, c, fmt.Sprintf("%d consecutive creates", run)
	}

	if mixedRecentTypes(history) {
		return ModeExploration, 0.6, "mixed creates and transforms in recent turns"
	}

	if len(history) < 2 {
		return ModeUnknown, 0.3, "not enough history"
	}

	return ModeExploration, 0.4, "no clear pattern"
}

// isCorrecting reports an undo flag in the three most recent items, or the
// three most recent items alternating type within two recent windows.
func isCorrecting(history []HistoryItem, now time.Time) bool {
	n := len(history)
	for i := 0; i < n && i < 3; i++ {
		if history[i].HadUndoSignal {
			return true
		}
	}
	if n < 3 {
		return false
	}
	a, b, c := history[0], history[1], history[2]
	alternating := a.Type != b.Type && b.Type != c.Type
	if !alternating {
		return false
	}
	return now.Sub(c.Timestamp) <= 2*recentWindow
}

// consecutiveRun counts how many items at the head share the head's type.
func consecutiveRun(history []HistoryItem) int {
	run := 0
	for _, item := range history {
		if item.Type != history[0].Type {
			break
		}
		run++
	}
	return run
}

// mixedRecentTypes reports whether the first five items contain both a create
// and a transform-like intent.
func mixedRecentTypes(history []HistoryItem) bool {
	var hasCreate, hasTransform bool
	for i, item := range history {
		if i >= 5 {
			break
		}
		switch item.Type {
		case IntentCreate:
			hasCreate = true
		case IntentTransform, IntentEditInPlace:
			hasTransform = true
		}
	}
	return hasCreate && hasTransform
}

// deriveState builds the full state view from a newest-first history.
func deriveState(history []HistoryItem, now time.Time) State {
	mode, confidence, reason := DetectMode(history, now)

	st := State{
		Mode:           mode,
		ModeConfidence: confidence,
		History:        history,
		Reason:         reason,
	}
	if len(history) > 0 {
		st.ConsecutiveCount = consecutiveRun(history)
		st.DominantType = dominantType(history)
	}
	st.InCorrectionCycle = mode == ModeCorrection
	return st
}

func dominantType(history []HistoryItem) IntentType {
	counts := make(map[IntentType]int)
	for _, item := range history {
		counts[item.Type]++
	}
	var best IntentType
	bestCount := -1
	for _, t := range []IntentType{IntentCreate, IntentTransform, IntentEditInPlace} {
		if counts[t] > bestCount {
			best = t
			bestCount = counts[t]
		}
	}
	return best
}

func capConfidence(c float64) float64 {
	if c > modeConfidenceCap {
		return modeConfidenceCap
	}
	return c
}

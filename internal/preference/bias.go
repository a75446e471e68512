package preference

import (
	"context"
	"fmt"
	"sort"

	"github.com/longkt99/scribe/internal/intent"
)

// BiasContext is what the current instruction already establishes. A bias is
// only suggested when it does not contradict it.
type BiasContext struct {
	RouteHint       intent.Route
	HasActiveSource bool
}

// defaultOrdering is the neutral UI order with no learned preference.
var defaultOrdering = []Choice{ChoiceEditInPlace, ChoiceNewVersion, ChoiceCreateNew}

// Bias aggregates the active preferences into a ranked default choice plus a
// full ordering of the three options. It is a nudge for UI defaults, never a
// route override.
func (s *Store) Bias(ctx context.Context, userID string, bc BiasContext) Bias {
	active := s.Active(ctx, userID)

	scores := map[Choice]float64{
		ChoiceEditInPlace: 0,
		ChoiceNewVersion:  0,
		ChoiceCreateNew:   0,
	}
	scores[ChoiceEditInPlace] += active[KeyEditInPlace]
	scores[ChoiceNewVersion] += active[KeyNewVersion]
	// A short-output habit leans toward iterating in place over spawning
	// fresh versions.
	scores[ChoiceEditInPlace] += active[KeyShortOutput] * 0.5
	scores[ChoiceNewVersion] += active[KeyLongOutput] * 0.5

	ordering := make([]Choice, len(defaultOrdering))
	copy(ordering, defaultOrdering)
	sort.SliceStable(ordering, func(i, j int) bool {
		return scores[ordering[i]] > scores[ordering[j]]
	})

	top := ordering[0]
	topScore := scores[top]
	if topScore == 0 {
		return Bias{Ordering: ordering}
	}

	if contradicts(top, bc) {
		return Bias{
			Ordering: ordering,
			Reason:   "learned default conflicts with the current context",
		}
	}

	return Bias{
		DefaultChoice: top,
		Ordering:      ordering,
		Strength:      topScore,
		Reason:        fmt.Sprintf("learned preference for %s", top),
	}
}

// contradicts reports whether suggesting the choice would fight the route or
// the absence of a bound source.
func contradicts(c Choice, bc BiasContext) bool {
	switch c {
	case ChoiceEditInPlace, ChoiceNewVersion:
		// Both act on existing content.
		if !bc.HasActiveSource {
			return true
		}
		return bc.RouteHint == intent.RouteCreate
	case ChoiceCreateNew:
		return bc.RouteHint == intent.RouteTransform
	}
	return false
}

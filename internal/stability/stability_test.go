package stability

import (
	"context"
	"fmt"
	"testing"

	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/outcome"
	"github.com/longkt99/scribe/internal/storage"
)

func TestBandAtLeast(t *testing.T) {
	if !BandHigh.AtLeast(BandLow) || !BandHigh.AtLeast(BandHigh) {
		t.Error("high should meet every band")
	}
	if BandLow.AtLeast(BandMedium) {
		t.Error("low should not meet medium")
	}
	if !BandMedium.AtLeast(BandMedium) {
		t.Error("a band meets itself")
	}
}

func newAssessor(t *testing.T) (*OutcomeAssessor, *outcome.Store) {
	t.Helper()
	store := outcome.NewStore(storage.NewMemoryKV(), outcome.DefaultLimits())
	return NewOutcomeAssessor(store, nil), store
}

func accept(t *testing.T, store *outcome.Store, id, pattern string) {
	t.Helper()
	store.Put(context.Background(), "", outcome.Outcome{IntentID: id, RouteUsed: intent.RouteTransform, PatternHash: pattern})
	store.AddSignal(context.Background(), "", id, outcome.Signal{Type: outcome.SignalAccepted})
}

func TestAssessUnknownPatternIsLow(t *testing.T) {
	a, _ := newAssessor(t)
	got := a.Assess(context.Background(), "never-seen")
	if got.Band != BandLow || got.AutoApplyEligible {
		t.Errorf("unknown pattern = %+v, want low band without auto-apply", got)
	}
}

func TestAssessBandsByRecurrence(t *testing.T) {
	a, store := newAssessor(t)

	accept(t, store, "i0", "pat")
	if got := a.Assess(context.Background(), "pat"); got.Band != BandLow {
		t.Errorf("1 acceptance: band = %q, want low", got.Band)
	}

	accept(t, store, "i1", "pat")
	got := a.Assess(context.Background(), "pat")
	if got.Band != BandMedium || !got.AutoApplyEligible {
		t.Errorf("2 acceptances: %+v, want medium with auto-apply", got)
	}

	for i := 2; i < 5; i++ {
		accept(t, store, fmt.Sprintf("i%d", i), "pat")
	}
	got = a.Assess(context.Background(), "pat")
	if got.Band != BandHigh || !got.AutoApplyEligible {
		t.Errorf("5 acceptances: %+v, want high with auto-apply", got)
	}
}

func TestAssessUndoDemotes(t *testing.T) {
	a, store := newAssessor(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		accept(t, store, fmt.Sprintf("i%d", i), "pat")
	}
	store.Put(ctx, "", outcome.Outcome{IntentID: "undone", RouteUsed: intent.RouteTransform, PatternHash: "pat"})
	store.AddSignal(ctx, "", "undone", outcome.Signal{Type: outcome.SignalUndo})

	got := a.Assess(ctx, "pat")
	if got.Band != BandLow {
		t.Errorf("band after undo = %q, want low", got.Band)
	}
	if got.AutoApplyEligible {
		t.Error("auto-apply must be cleared after an undo")
	}
	if got.NegativeHighCount != 1 {
		t.Errorf("NegativeHighCount = %d, want 1", got.NegativeHighCount)
	}
}

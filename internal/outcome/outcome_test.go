package outcome

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := time.Now().UTC()
	s := NewStore(storage.NewMemoryKV(), DefaultLimits())
	s.WithClock(func() time.Time { return now })
	return s, &now
}

func TestPutAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	o := Outcome{IntentID: "i1", RouteUsed: intent.RouteTransform, PatternHash: "p1"}
	if err := store.Put(ctx, "u1", o); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got := store.Get(ctx, "u1", "i1")
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.IntentID != "i1" || got.RouteUsed != intent.RouteTransform {
		t.Errorf("got %+v, want intent i1 routed transform", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped on Put")
	}
}

func TestPutRequiresID(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Put(context.Background(), "u1", Outcome{}); err == nil {
		t.Error("Put without an intent id should fail")
	}
}

func TestGetUnknown(t *testing.T) {
	store, _ := newTestStore(t)
	if got := store.Get(context.Background(), "u1", "missing"); got != nil {
		t.Errorf("Get unknown = %+v, want nil", got)
	}
}

func TestTTLExpiryInvisibleAndPruned(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "u1", Outcome{IntentID: "old", RouteUsed: intent.RouteCreate, PatternHash: "p"})

	*now = now.Add(DefaultLimits().TTL + time.Hour)

	if got := store.Get(ctx, "u1", "old"); got != nil {
		t.Fatalf("expired outcome should be invisible, got %+v", got)
	}
	// The index entry is gone too.
	if got := store.List(ctx, "u1", 0); len(got) != 0 {
		t.Errorf("expired outcome still enumerable: %v", got)
	}
}

func TestMaxCountEvictsOldest(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(storage.NewMemoryKV(), Limits{TTL: 24 * time.Hour, MaxCount: 3})
	store.WithClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		store.Put(ctx, "u1", Outcome{IntentID: fmt.Sprintf("i%d", i), RouteUsed: intent.RouteCreate, PatternHash: "p"})
	}

	list := store.List(ctx, "u1", 0)
	if len(list) != 3 {
		t.Fatalf("retained %d outcomes, want 3", len(list))
	}
	// Newest first; i0 and i1 were evicted.
	if list[0].IntentID != "i4" || list[2].IntentID != "i2" {
		t.Errorf("retained window = [%s..%s], want [i4..i2]", list[0].IntentID, list[2].IntentID)
	}
	if got := store.Get(ctx, "u1", "i0"); got != nil {
		t.Error("evicted outcome should be gone")
	}
}

func TestAddSignalRederives(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "u1", Outcome{IntentID: "i1", RouteUsed: intent.RouteTransform, PatternHash: "p"})

	got := store.AddSignal(ctx, "u1", "i1", Signal{Type: SignalAccepted})
	if got == nil || !got.Derived.Accepted {
		t.Fatalf("after accepted signal: %+v, want accepted", got)
	}
	if got.Derived.Negative {
		t.Error("accepted outcome should not be negative")
	}

	got = store.AddSignal(ctx, "u1", "i1", Signal{Type: SignalUndo})
	if got == nil {
		t.Fatal("AddSignal returned nil")
	}
	if !got.Derived.Negative || got.Derived.Severity != SeverityHigh {
		t.Errorf("undo should derive negative/high, got %+v", got.Derived)
	}
	if got.Derived.Accepted {
		t.Error("an undone outcome is not accepted")
	}
	if len(got.Signals) != 2 {
		t.Errorf("signal log length = %d, want 2 (append-only)", len(got.Signals))
	}
}

func TestAddSignalUnknown(t *testing.T) {
	store, _ := newTestStore(t)
	if got := store.AddSignal(context.Background(), "u1", "nope", Signal{Type: SignalUndo}); got != nil {
		t.Errorf("AddSignal on unknown id = %+v, want nil", got)
	}
}

func TestDeriveTable(t *testing.T) {
	tests := []struct {
		name    string
		signals []SignalType
		want    Derived
	}{
		{"no signals", nil, Derived{Severity: SeverityLow}},
		{"accepted", []SignalType{SignalAccepted}, Derived{Accepted: true, Severity: SeverityLow}},
		{"edited after", []SignalType{SignalEditedAfter}, Derived{Negative: true, Severity: SeverityMedium}},
		{"dismissed", []SignalType{SignalDismissed}, Derived{Negative: true, Severity: SeverityMedium}},
		{"undo", []SignalType{SignalUndo}, Derived{Negative: true, Severity: SeverityHigh}},
		{"accept then undo", []SignalType{SignalAccepted, SignalUndo}, Derived{Negative: true, Severity: SeverityHigh}},
		{"edited then undo escalates", []SignalType{SignalEditedAfter, SignalUndo}, Derived{Negative: true, Severity: SeverityHigh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var signals []Signal
			for _, typ := range tt.signals {
				signals = append(signals, Signal{Type: typ})
			}
			if got := derive(signals); got != tt.want {
				t.Errorf("derive(%v) = %+v, want %+v", tt.signals, got, tt.want)
			}
		})
	}
}

func TestPatternStats(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("i%d", i)
		store.Put(ctx, "u1", Outcome{IntentID: id, RouteUsed: intent.RouteTransform, PatternHash: "pat"})
		store.AddSignal(ctx, "u1", id, Signal{Type: SignalAccepted})
	}
	store.Put(ctx, "u1", Outcome{IntentID: "bad", RouteUsed: intent.RouteTransform, PatternHash: "pat"})
	store.AddSignal(ctx, "u1", "bad", Signal{Type: SignalUndo})
	store.Put(ctx, "u1", Outcome{IntentID: "other", RouteUsed: intent.RouteCreate, PatternHash: "unrelated"})

	rec := store.PatternStats(ctx, "u1", "pat")
	if rec.Total != 4 || rec.Accepted != 3 || rec.NegativeHighCount != 1 {
		t.Errorf("PatternStats = %+v, want total 4 accepted 3 negativeHigh 1", rec)
	}
}

func TestResetPattern(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "u1", Outcome{IntentID: "a", RouteUsed: intent.RouteCreate, PatternHash: "pat"})
	store.Put(ctx, "u1", Outcome{IntentID: "b", RouteUsed: intent.RouteCreate, PatternHash: "other"})

	if n := store.ResetPattern(ctx, "u1", "pat"); n != 1 {
		t.Errorf("ResetPattern removed %d, want 1", n)
	}
	if store.Get(ctx, "u1", "a") != nil {
		t.Error("outcome under the reset pattern should be gone")
	}
	if store.Get(ctx, "u1", "b") == nil {
		t.Error("unrelated outcome should survive")
	}
}

func TestUserIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "u1", Outcome{IntentID: "i1", RouteUsed: intent.RouteCreate, PatternHash: "p"})
	if got := store.Get(ctx, "u2", "i1"); got != nil {
		t.Error("outcomes must be isolated per user")
	}
}

package preference

import (
	"context"
	"testing"
	"time"

	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/storage"
)

func newTestStore(t *testing.T, at time.Time) *Store {
	t.Helper()
	s := NewStore(storage.NewMemoryKV(), DefaultTunables())
	s.WithClock(func() time.Time { return at })
	return s
}

func TestStrengthBelowMinObservations(t *testing.T) {
	tun := DefaultTunables()
	now := time.Now().UTC()

	for total := 0; total < tun.MinObservations; total++ {
		rec := Record{PositiveCount: total, LastObserved: now}
		if got := Strength(rec, tun, now); got != 0 {
			t.Errorf("strength with %d observations = %v, want 0", total, got)
		}
	}
}

func TestStrengthRequiresPositiveRatio(t *testing.T) {
	tun := DefaultTunables()
	now := time.Now().UTC()

	rec := Record{PositiveCount: 5, NegativeCount: 5, LastObserved: now}
	if got := Strength(rec, tun, now); got != 0 {
		t.Errorf("strength at ratio 0.5 = %v, want 0", got)
	}
}

func TestStrengthFreshFullPositive(t *testing.T) {
	tun := DefaultTunables()
	now := time.Now().UTC()

	rec := Record{PositiveCount: 10, NegativeCount: 0, LastObserved: now}
	got := Strength(rec, tun, now)
	if got <= 0 {
		t.Fatalf("strength = %v, want > 0", got)
	}
	if got > tun.MaxStrength {
		t.Errorf("strength = %v exceeds cap %v", got, tun.MaxStrength)
	}
}

func TestStrengthMonotonicInRecency(t *testing.T) {
	tun := DefaultTunables()
	now := time.Now().UTC()

	prev := -1.0
	// Older observations first; fixed counts.
	for daysAgo := 20; daysAgo >= 0; daysAgo-- {
		rec := Record{
			PositiveCount: 8,
			NegativeCount: 2,
			LastObserved:  now.Add(-time.Duration(daysAgo) * 24 * time.Hour),
		}
		got := Strength(rec, tun, now)
		if got < prev {
			t.Fatalf("strength not monotone: %v days ago gave %v, fresher gave less than older %v", daysAgo, got, prev)
		}
		prev = got
	}
}

func TestStrengthFullyDecayed(t *testing.T) {
	tun := DefaultTunables()
	now := time.Now().UTC()

	rec := Record{PositiveCount: 10, LastObserved: now.Add(-30 * 24 * time.Hour)}
	if got := Strength(rec, tun, now); got != 0 {
		t.Errorf("strength after full decay = %v, want 0", got)
	}
}

func TestObserveAndActive(t *testing.T) {
	now := time.Now().UTC()
	store := newTestStore(t, now)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		store.Observe(ctx, "u1", KeyShortOutput, true)
	}

	active := store.Active(ctx, "u1")
	if _, ok := active[KeyShortOutput]; !ok {
		t.Fatalf("KeyShortOutput not active after 6 positive observations: %v", active)
	}

	// A sparse key stays inactive.
	store.Observe(ctx, "u1", KeyEmoji, true)
	active = store.Active(ctx, "u1")
	if _, ok := active[KeyEmoji]; ok {
		t.Error("KeyEmoji should not be active after one observation")
	}
}

func TestObserveIsolatesUsers(t *testing.T) {
	now := time.Now().UTC()
	store := newTestStore(t, now)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		store.Observe(ctx, "u1", KeyShortOutput, true)
	}
	if st := store.StrengthOf(ctx, "u2", KeyShortOutput); st != 0 {
		t.Errorf("u2 strength = %v, want 0", st)
	}
}

func TestCleanupPurgesExpired(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	tun := DefaultTunables()

	base := time.Now().UTC()
	store := NewStore(kv, tun)
	store.WithClock(func() time.Time { return base })
	for i := 0; i < 6; i++ {
		store.Observe(ctx, "u1", KeyShortOutput, true)
	}

	// 30 days later (past the 21-day TTL), a new observation on another key
	// triggers the cleanup pass.
	later := base.Add(30 * 24 * time.Hour)
	store.WithClock(func() time.Time { return later })
	store.Observe(ctx, "u1", KeyEmoji, true)
	// lastCleanup was primed on the first observe, so advance once more.
	store.Observe(ctx, "u1", KeyEmoji, true)

	if _, ok := store.Get(ctx, "u1", KeyShortOutput); ok {
		t.Error("TTL-expired record should be purged by the cleanup pass")
	}
	if _, ok := store.Get(ctx, "u1", KeyEmoji); !ok {
		t.Error("fresh record should survive cleanup")
	}
}

func TestResetAllIdempotent(t *testing.T) {
	now := time.Now().UTC()
	store := newTestStore(t, now)
	ctx := context.Background()

	store.Observe(ctx, "u1", KeyShortOutput, true)
	store.ResetAll(ctx, "u1")
	store.ResetAll(ctx, "u1")

	if _, ok := store.Get(ctx, "u1", KeyShortOutput); ok {
		t.Error("record should be gone after ResetAll")
	}
}

func TestBiasUnbiasedByDefault(t *testing.T) {
	now := time.Now().UTC()
	store := newTestStore(t, now)

	b := store.Bias(context.Background(), "u1", BiasContext{RouteHint: intent.RouteTransform, HasActiveSource: true})
	if b.DefaultChoice != "" {
		t.Errorf("DefaultChoice = %q, want empty with no learned preference", b.DefaultChoice)
	}
	if len(b.Ordering) != 3 {
		t.Errorf("Ordering length = %d, want 3", len(b.Ordering))
	}
}

func TestBiasSuggestsLearnedDefault(t *testing.T) {
	now := time.Now().UTC()
	store := newTestStore(t, now)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		store.Observe(ctx, "u1", KeyEditInPlace, true)
	}

	b := store.Bias(ctx, "u1", BiasContext{RouteHint: intent.RouteTransform, HasActiveSource: true})
	if b.DefaultChoice != ChoiceEditInPlace {
		t.Errorf("DefaultChoice = %q, want %q", b.DefaultChoice, ChoiceEditInPlace)
	}
	if b.Ordering[0] != ChoiceEditInPlace {
		t.Errorf("Ordering[0] = %q, want %q", b.Ordering[0], ChoiceEditInPlace)
	}
	if b.Strength <= 0 {
		t.Error("Strength should be positive for a suggested default")
	}
}

func TestBiasNeverContradictsContext(t *testing.T) {
	now := time.Now().UTC()
	store := newTestStore(t, now)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		store.Observe(ctx, "u1", KeyEditInPlace, true)
	}

	// Edit-in-place cannot be the default when routing to create.
	b := store.Bias(ctx, "u1", BiasContext{RouteHint: intent.RouteCreate, HasActiveSource: false})
	if b.DefaultChoice != "" {
		t.Errorf("DefaultChoice = %q, want empty when it contradicts the route", b.DefaultChoice)
	}
	// The ordering is still delivered for UI sorting.
	if len(b.Ordering) != 3 {
		t.Errorf("Ordering length = %d, want 3", len(b.Ordering))
	}
}

func TestDetectInstructionSignals(t *testing.T) {
	tests := []struct {
		text    string
		wantKey Key
	}{
		{"ngắn hơn chút nữa", KeyShortOutput},
		{"make it more concise", KeyShortOutput},
		{"thêm chi tiết về giá", KeyLongOutput},
		{"sửa trực tiếp vào bản này", KeyEditInPlace},
		{"cho tôi một bản nữa", KeyNewVersion},
	}
	for _, tt := range tests {
		signals := DetectInstructionSignals(tt.text)
		found := false
		for _, sig := range signals {
			if sig.Key == tt.wantKey && sig.Positive {
				found = true
			}
		}
		if !found {
			t.Errorf("DetectInstructionSignals(%q) = %v, want positive %q", tt.text, signals, tt.wantKey)
		}
	}

	if got := DetectInstructionSignals("viết về cà phê"); len(got) != 0 {
		t.Errorf("neutral text should carry no signals, got %v", got)
	}
}

func TestDetectOutputSignals(t *testing.T) {
	short := DetectOutputSignals("Một đoạn giới thiệu ngắn.")
	if !hasSignal(short, KeyShortOutput) {
		t.Errorf("short output should signal %q, got %v", KeyShortOutput, short)
	}
	if !hasSignal(short, KeyPlainText) {
		t.Errorf("emoji-free output should signal %q, got %v", KeyPlainText, short)
	}

	emoji := DetectOutputSignals("Chào hè rực rỡ \U0001F31E")
	if !hasSignal(emoji, KeyEmoji) {
		t.Errorf("emoji output should signal %q, got %v", KeyEmoji, emoji)
	}
}

func hasSignal(signals []Signal, key Key) bool {
	for _, s := range signals {
		if s.Key == key && s.Positive {
			return true
		}
	}
	return false
}

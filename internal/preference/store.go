package preference

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/longkt99/scribe/internal/storage"
)

// StorageKeyBase prefixes the persisted preference record map; per-user
// records are suffixed with the owning user id.
const StorageKeyBase = "scribe:preferences_v1"

const payloadVersion = 1

// prefsPayload is the persisted JSON envelope. A version mismatch makes the
// payload read as absent.
type prefsPayload struct {
	Version int            `json:"version"`
	Records map[Key]Record `json:"records"`
}

// Store is the decaying statistical memory of user behavior. Everything it
// produces is a soft bias; routing decisions never depend on it.
type Store struct {
	kv  storage.KV
	tun Tunables
	now func() time.Time

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewStore creates a preference store over the given KV. Persistence
// failures degrade to the unbiased default.
func NewStore(kv storage.KV, tun Tunables) *Store {
	return &Store{kv: storage.NewSilent(kv), tun: tun, now: time.Now}
}

// WithClock overrides the store's clock. Used in tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func prefsKey(userID string) string {
	return storage.UserKey(StorageKeyBase, userID)
}

// Observe increments the positive or negative counter for one key and
// triggers a cleanup pass at most once per cleanup interval.
func (s *Store) Observe(ctx context.Context, userID string, key Key, positive bool) {
	now := s.now().UTC()
	records := s.load(ctx, userID)

	rec := records[key]
	if rec.FirstObserved.IsZero() {
		rec.FirstObserved = now
	}
	if positive {
		rec.PositiveCount++
	} else {
		rec.NegativeCount++
	}
	rec.LastObserved = now
	records[key] = rec

	s.mu.Lock()
	due := now.Sub(s.lastCleanup) >= s.tun.CleanupInterval
	if due {
		s.lastCleanup = now
	}
	s.mu.Unlock()
	if due {
		for k, r := range records {
			if expired(r, s.tun, now) {
				delete(records, k)
			}
		}
	}

	s.save(ctx, userID, records)
}

// ObserveSignals applies a batch of classified signals.
func (s *Store) ObserveSignals(ctx context.Context, userID string, signals []Signal) {
	for _, sig := range signals {
		s.Observe(ctx, userID, sig.Key, sig.Positive)
	}
}

// Get returns the stored record for one key, with ok=false when absent.
func (s *Store) Get(ctx context.Context, userID string, key Key) (Record, bool) {
	records := s.load(ctx, userID)
	rec, ok := records[key]
	return rec, ok
}

// StrengthOf recomputes the current strength of one key.
func (s *Store) StrengthOf(ctx context.Context, userID string, key Key) float64 {
	rec, ok := s.Get(ctx, userID, key)
	if !ok {
		return 0
	}
	return Strength(rec, s.tun, s.now().UTC())
}

// Active reports keys whose strength clears the active threshold.
func (s *Store) Active(ctx context.Context, userID string) map[Key]float64 {
	now := s.now().UTC()
	records := s.load(ctx, userID)
	active := make(map[Key]float64)
	for k, rec := range records {
		if st := Strength(rec, s.tun, now); st >= s.tun.ActiveThreshold {
			active[k] = st
		}
	}
	return active
}

// ResetKey removes one preference. Idempotent.
func (s *Store) ResetKey(ctx context.Context, userID string, key Key) {
	records := s.load(ctx, userID)
	if _, ok := records[key]; !ok {
		return
	}
	delete(records, key)
	s.save(ctx, userID, records)
}

// ResetAll removes every stored preference for the user. Idempotent.
func (s *Store) ResetAll(ctx context.Context, userID string) {
	_ = s.kv.Delete(ctx, prefsKey(userID))
}

func (s *Store) load(ctx context.Context, userID string) map[Key]Record {
	raw, err := s.kv.Get(ctx, prefsKey(userID))
	if err != nil || raw == nil {
		return make(map[Key]Record)
	}
	var p prefsPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Version != payloadVersion || p.Records == nil {
		return make(map[Key]Record)
	}
	return p.Records
}

func (s *Store) save(ctx context.Context, userID string, records map[Key]Record) {
	raw, err := json.Marshal(prefsPayload{Version: payloadVersion, Records: records})
	if err != nil {
		return
	}
	_ = s.kv.Set(ctx, prefsKey(userID), raw)
}

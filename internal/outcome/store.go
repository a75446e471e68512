package outcome

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/longkt99/scribe/internal/storage"
)

// StorageKeyBase prefixes the per-user outcome index; individual entries
// live under entryKeyBase with the entry id before the user suffix.
const StorageKeyBase = "scribe:intentOutcome:index:v1"

const (
	entryKeyBase   = "scribe:intentOutcome:v1"
	payloadVersion = 1
)

// Limits bound the ledger. Oldest entries are evicted first when MaxCount is
// exceeded; entries older than TTL become invisible and are dropped from the
// index on access.
type Limits struct {
	TTL      time.Duration
	MaxCount int
}

// DefaultLimits returns the reference bounds.
func DefaultLimits() Limits {
	return Limits{TTL: 14 * 24 * time.Hour, MaxCount: 100}
}

// entryPayload and indexPayload are the persisted JSON envelopes. A version
// mismatch makes the payload read as absent.
type entryPayload struct {
	Version int     `json:"version"`
	Outcome Outcome `json:"outcome"`
}

type indexPayload struct {
	Version int      `json:"version"`
	IDs     []string `json:"ids"` // oldest first
}

// Store is the TTL-indexed ledger of what happened after each decision. The
// separate index allows ordered enumeration without scanning all keys.
type Store struct {
	kv     storage.KV
	limits Limits
	now    func() time.Time
}

// NewStore creates an outcome store over the given KV. Persistence failures
// degrade to absence.
func NewStore(kv storage.KV, limits Limits) *Store {
	return &Store{kv: storage.NewSilent(kv), limits: limits, now: time.Now}
}

// WithClock overrides the store's clock. Used in tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func entryKey(userID, id string) string {
	return storage.UserKey(entryKeyBase+":"+id, userID)
}

func indexKey(userID string) string {
	return storage.UserKey(StorageKeyBase, userID)
}

// Put appends one outcome, evicting the oldest entries beyond MaxCount.
func (s *Store) Put(ctx context.Context, userID string, o Outcome) error {
	if o.IntentID == "" {
		return fmt.Errorf("outcome requires an intent id")
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now().UTC()
	}
	o.Derived = derive(o.Signals)

	ids := s.loadIndex(ctx, userID)

	// Re-putting an existing id keeps its index position.
	known := false
	for _, id := range ids {
		if id == o.IntentID {
			known = true
			break
		}
	}
	if !known {
		ids = append(ids, o.IntentID)
	}

	for len(ids) > s.limits.MaxCount {
		evicted := ids[0]
		ids = ids[1:]
		_ = s.kv.Delete(ctx, entryKey(userID, evicted))
	}

	s.saveEntry(ctx, userID, o)
	s.saveIndex(ctx, userID, ids)
	return nil
}

// Get returns the outcome for one intent id, or nil when absent or expired.
// An expired entry is removed from the index as a side effect.
func (s *Store) Get(ctx context.Context, userID, intentID string) *Outcome {
	o := s.loadEntry(ctx, userID, intentID)
	if o == nil {
		return nil
	}
	if s.expired(*o) {
		s.remove(ctx, userID, intentID)
		return nil
	}
	return o
}

// AddSignal appends a behavioral signal to an outcome and re-derives its
// judgement. Returns the updated outcome, or nil when the id is unknown.
func (s *Store) AddSignal(ctx context.Context, userID, intentID string, sig Signal) *Outcome {
	o := s.Get(ctx, userID, intentID)
	if o == nil {
		return nil
	}
	if sig.At.IsZero() {
		sig.At = s.now().UTC()
	}
	o.Signals = append(o.Signals, sig)
	o.Derived = derive(o.Signals)
	s.saveEntry(ctx, userID, *o)
	return o
}

// List returns up to limit outcomes, newest first, skipping and pruning
// expired entries. A non-positive limit returns everything retained.
func (s *Store) List(ctx context.Context, userID string, limit int) []Outcome {
	ids := s.loadIndex(ctx, userID)

	var out []Outcome
	var kept []string
	for _, id := range ids {
		o := s.loadEntry(ctx, userID, id)
		if o == nil {
			continue
		}
		if s.expired(*o) {
			_ = s.kv.Delete(ctx, entryKey(userID, id))
			continue
		}
		kept = append(kept, id)
		out = append(out, *o)
	}
	if len(kept) != len(ids) {
		s.saveIndex(ctx, userID, kept)
	}

	// Index is oldest first; reverse for newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Latest returns the most recent retained outcome, or nil.
func (s *Store) Latest(ctx context.Context, userID string) *Outcome {
	out := s.List(ctx, userID, 1)
	if len(out) == 0 {
		return nil
	}
	return &out[0]
}

// Reset removes every outcome for the user. Idempotent.
func (s *Store) Reset(ctx context.Context, userID string) {
	ids := s.loadIndex(ctx, userID)
	for _, id := range ids {
		_ = s.kv.Delete(ctx, entryKey(userID, id))
	}
	_ = s.kv.Delete(ctx, indexKey(userID))
}

// PatternRecord summarizes the track record of one pattern hash.
type PatternRecord struct {
	Total             int
	Accepted          int
	NegativeHighCount int
}

// PatternStats aggregates retained outcomes by pattern hash.
func (s *Store) PatternStats(ctx context.Context, userID, patternHash string) PatternRecord {
	var rec PatternRecord
	for _, o := range s.List(ctx, userID, 0) {
		if o.PatternHash != patternHash {
			continue
		}
		rec.Total++
		if o.Derived.Accepted {
			rec.Accepted++
		}
		if o.Derived.Negative && o.Derived.Severity == SeverityHigh {
			rec.NegativeHighCount++
		}
	}
	return rec
}

// ResetPattern drops every outcome recorded under the given pattern hash.
func (s *Store) ResetPattern(ctx context.Context, userID, patternHash string) int {
	removed := 0
	for _, o := range s.List(ctx, userID, 0) {
		if o.PatternHash == patternHash {
			s.remove(ctx, userID, o.IntentID)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(o Outcome) bool {
	return s.now().UTC().Sub(o.CreatedAt) > s.limits.TTL
}

func (s *Store) remove(ctx context.Context, userID, intentID string) {
	_ = s.kv.Delete(ctx, entryKey(userID, intentID))
	ids := s.loadIndex(ctx, userID)
	kept := ids[:0]
	for _, id := range ids {
		if id != intentID {
			kept = append(kept, id)
		}
	}
	s.saveIndex(ctx, userID, kept)
}

func (s *Store) loadEntry(ctx context.Context, userID, intentID string) *Outcome {
	raw, err := s.kv.Get(ctx, entryKey(userID, intentID))
	if err != nil || raw == nil {
		return nil
	}
	var p entryPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Version != payloadVersion {
		return nil
	}
	return &p.Outcome
}

func (s *Store) saveEntry(ctx context.Context, userID string, o Outcome) {
	raw, err := json.Marshal(entryPayload{Version: payloadVersion, Outcome: o})
	if err != nil {
		return
	}
	_ = s.kv.Set(ctx, entryKey(userID, o.IntentID), raw)
}

func (s *Store) loadIndex(ctx context.Context, userID string) []string {
	raw, err := s.kv.Get(ctx, indexKey(userID))
	if err != nil || raw == nil {
		return nil
	}
	var p indexPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Version != payloadVersion {
		return nil
	}
	return p.IDs
}

func (s *Store) saveIndex(ctx context.Context, userID string, ids []string) {
	raw, err := json.Marshal(indexPayload{Version: payloadVersion, IDs: ids})
	if err != nil {
		return
	}
	_ = s.kv.Set(ctx, indexKey(userID), raw)
}

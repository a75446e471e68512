package continuity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/longkt99/scribe/internal/storage"
)

// StorageKeyBase prefixes every persisted history window; per-user windows
// are suffixed with the owning user id.
const StorageKeyBase = "scribe:intent_history_v1"

const payloadVersion = 1

// historyPayload is the persisted JSON envelope. A version mismatch makes
// the whole payload read as absent.
type historyPayload struct {
	Version int           `json:"version"`
	Items   []HistoryItem `json:"items"`
}

// Tracker keeps a rolling, per-user window of recent routing decisions and
// derives the conversational mode from it.
type Tracker struct {
	kv  storage.KV
	now func() time.Time
}

// NewTracker creates a tracker over the given store. Persistence failures
// degrade to an empty history.
func NewTracker(kv storage.KV) *Tracker {
	return &Tracker{kv: storage.NewSilent(kv), now: time.Now}
}

// WithClock overrides the tracker's clock. Used in tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

func historyKey(userID string) string {
	return storage.UserKey(StorageKeyBase, userID)
}

// Append records a new item at the head of the user's window, trims the
// window to its fixed size, persists it, and returns the re-derived state.
func (t *Tracker) Append(ctx context.Context, userID string, item HistoryItem) State {
	history := t.load(ctx, userID)

	if item.Timestamp.IsZero() {
		item.Timestamp = t.now().UTC()
	}
	history = append([]HistoryItem{item}, history...)
	if len(history) > windowSize {
		history = history[:windowSize]
	}

	t.save(ctx, userID, history)
	return deriveState(history, t.now())
}

// State returns the derived state without mutating the history.
func (t *Tracker) State(ctx context.Context, userID string) State {
	history := t.load(ctx, userID)
	if len(history) == 0 {
		return EmptyState()
	}
	return deriveState(history, t.now())
}

// MarkUndo flags the most recent item as undone. Idempotent: flagging an
// already flagged item is a no-op. Returns false when there is no history.
func (t *Tracker) MarkUndo(ctx context.Context, userID string) bool {
	history := t.load(ctx, userID)
	if len(history) == 0 {
		return false
	}
	if !history[0].HadUndoSignal {
		history[0].HadUndoSignal = true
		t.save(ctx, userID, history)
	}
	return true
}

// Reset clears the user's history.
func (t *Tracker) Reset(ctx context.Context, userID string) {
	_ = t.kv.Delete(ctx, historyKey(userID))
}

func (t *Tracker) load(ctx context.Context, userID string) []HistoryItem {
	raw, err := t.kv.Get(ctx, historyKey(userID))
	if err != nil || raw == nil {
		return nil
	}
	var p historyPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Version != payloadVersion {
		return nil
	}
	return p.Items
}

func (t *Tracker) save(ctx context.Context, userID string, history []HistoryItem) {
	raw, err := json.Marshal(historyPayload{Version: payloadVersion, Items: history})
	if err != nil {
		return
	}
	_ = t.kv.Set(ctx, historyKey(userID), raw)
}

// Package binding fingerprints what the user actually committed to sending.
// The hash is a fast non-cryptographic digest: it detects drift and stale
// closures between submission and execution, not tampering by an adversary.
package binding

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmptyHash is the sentinel returned for empty input.
const EmptyHash = "0"

// separator joins parts in HashMultiple. The unit-separator control byte is
// vanishingly unlikely to appear in instruction text.
const separator = "\x1f"

// Hash returns a short deterministic fingerprint of the given text.
// Identical input always produces an identical hash; collisions are possible
// and acceptable.
func Hash(text string) string {
	if text == "" {
		return EmptyHash
	}
	// FNV-1a, 32-bit.
	var h uint32 = 2166136261
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= 16777619
	}
	return strconv.FormatUint(uint64(h), 36)
}

// HashMultiple hashes the ordered concatenation of parts. Reordering the
// parts changes the result.
func HashMultiple(parts ...string) string {
	if len(parts) == 0 {
		return EmptyHash
	}
	return Hash(strings.Join(parts, separator))
}

// PatternHash fingerprints the shape of an instruction for learning:
// lowercased, whitespace-collapsed, digit runs replaced. Raw text is never
// persisted, only this hash.
func PatternHash(text string) string {
	norm := strings.ToLower(strings.TrimSpace(text))
	norm = strings.Join(strings.Fields(norm), " ")
	var b strings.Builder
	inDigits := false
	for _, r := range norm {
		if r >= '0' && r <= '9' {
			if !inDigits {
				b.WriteByte('#')
				inDigits = true
			}
			continue
		}
		inDigits = false
		b.WriteRune(r)
	}
	return Hash(b.String())
}

// Binding captures what was on screen at the moment the user initiated an
// action.
type Binding struct {
	EventID     string    `json:"event_id"`
	SendAt      time.Time `json:"send_at"`
	InputHash   string    `json:"input_hash"`
	InputLength int       `json:"input_length"`
}

// New captures a binding for the given text, assigning a fresh event id.
func New(text string) Binding {
	return Binding{
		EventID:     uuid.NewString(),
		SendAt:      time.Now().UTC(),
		InputHash:   Hash(text),
		InputLength: len(text),
	}
}

// NewForEvent captures a binding under a caller-supplied event id, so a
// client that minted the id at send time can resubmit and be recognized as
// the same event. An empty id gets a fresh one.
func NewForEvent(eventID, text string) Binding {
	b := New(text)
	if eventID != "" {
		b.EventID = eventID
	}
	return b
}

// Validate reports whether text still matches the captured binding. Length is
// compared first as a cheap short-circuit before hashing.
func Validate(text string, b Binding) bool {
	if len(text) != b.InputLength {
		return false
	}
	return Hash(text) == b.InputHash
}

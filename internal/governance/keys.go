package governance

import (
	"log"
	"strings"

	"github.com/longkt99/scribe/internal/storage"
)

// Learned state is keyed per user (storage.UserKey) so that one user's
// history can never leak into another session. Legacy unscoped keys are
// tolerated for migration; a key carrying the wrong user id is rejected
// and logged, never raised.

// ScopeKey returns the storage key the active session may use for the given
// base. Inactive governance leaves the key unscoped.
func ScopeKey(base string, gctx Context) string {
	if !gctx.Active {
		return base
	}
	return storage.UserKey(base, gctx.UserID)
}

// ValidateKey reports whether a storage key derived from the given base may
// be used in this session.
func ValidateKey(base, key string, gctx Context) bool {
	if !gctx.Active || gctx.UserID == "" {
		return true
	}
	if key == base {
		// Legacy unscoped key.
		return true
	}
	if !strings.HasPrefix(key, base+":") {
		// Not derived from this base; nothing to check here.
		return true
	}
	if key == ScopeKey(base, gctx) {
		return true
	}

	log.Printf("governance: rejecting storage key %q scoped to another user (session user %s)", key, gctx.UserID)
	return false
}

package governance

import "sync"

// Restriction is a session-scoped tightening of a role's defaults. It can
// only take capabilities away, never grant them; it lives in memory and
// does not survive a restart.
type Restriction struct {
	DisableAutoApply bool `json:"disable_auto_apply"`
	DisableLearning  bool `json:"disable_learning"`
	DisableBias      bool `json:"disable_bias"`
}

// Overrides holds the in-memory session restrictions per team and per user.
type Overrides struct {
	mu    sync.RWMutex
	teams map[string]Restriction
	users map[string]Restriction
}

// NewOverrides creates an empty override set.
func NewOverrides() *Overrides {
	return &Overrides{
		teams: make(map[string]Restriction),
		users: make(map[string]Restriction),
	}
}

// RestrictTeam replaces the session restriction for a team.
func (o *Overrides) RestrictTeam(teamID string, r Restriction) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.teams[teamID] = r
}

// RestrictUser replaces the session restriction for a user.
func (o *Overrides) RestrictUser(userID string, r Restriction) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.users[userID] = r
}

// ClearUser removes a user's session restriction. Idempotent.
func (o *Overrides) ClearUser(userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.users, userID)
}

// Apply layers the restrictions for the context onto the given permissions.
func (o *Overrides) Apply(gctx Context, p Permissions) Permissions {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, r := range []Restriction{o.teams[gctx.TeamID], o.users[gctx.UserID]} {
		if r.DisableAutoApply {
			p.AutoApply = false
		}
		if r.DisableLearning {
			p.Learning = false
		}
		if r.DisableBias {
			p.PreferenceBias = false
		}
	}
	return p
}

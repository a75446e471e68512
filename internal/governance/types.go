package governance

import "github.com/longkt99/scribe/internal/stability"

// Role is the fixed, ordered role set. Each role maps to a default
// permission bundle; team overrides can only restrict it further.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleJunior Role = "junior"
	RoleClient Role = "client"
	RoleViewer Role = "viewer"
)

// SkipThreshold is the minimum stability band a role demands before the
// confirmation step may ever be skipped. SkipNever means it never may.
type SkipThreshold string

const (
	SkipFromLow    SkipThreshold = "low"
	SkipFromMedium SkipThreshold = "medium"
	SkipFromHigh   SkipThreshold = "high"
	SkipNever      SkipThreshold = "never"
)

// met reports whether the band satisfies the threshold.
func (t SkipThreshold) met(band stability.Band) bool {
	switch t {
	case SkipFromLow:
		return band.AtLeast(stability.BandLow)
	case SkipFromMedium:
		return band.AtLeast(stability.BandMedium)
	case SkipFromHigh:
		return band.AtLeast(stability.BandHigh)
	default:
		return false
	}
}

// Permissions is the capability bundle a role grants.
type Permissions struct {
	AutoApply        bool          `json:"auto_apply"`
	Learning         bool          `json:"learning"`
	EditInPlace      bool          `json:"edit_in_place"`
	PreferenceBias   bool          `json:"preference_bias"`
	ExecutionAllowed bool          `json:"execution_allowed"`
	MinSkipBand      SkipThreshold `json:"min_skip_band"`
}

// Context is the role/team policy bundle for one session. It is passed
// explicitly through every decision call; there is no process-wide current
// user.
type Context struct {
	UserID      string      `json:"user_id"`
	TeamID      string      `json:"team_id,omitempty"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
	Active      bool        `json:"active"`
}

// NewContext builds an active context with the role's default permissions.
func NewContext(userID, teamID string, role Role) Context {
	return Context{
		UserID:      userID,
		TeamID:      teamID,
		Role:        role,
		Permissions: DefaultPermissions(role),
		Active:      true,
	}
}

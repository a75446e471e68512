package governance

import (
	"github.com/longkt99/scribe/internal/continuity"
	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/stability"
)

// Snapshot is the engine's view of the current instruction.
type Snapshot struct {
	Route             intent.Route `json:"route"`
	Confidence        float64      `json:"confidence"`
	SuggestsAutoApply bool         `json:"suggests_auto_apply"`
}

// Decision is the governance verdict. Active=false means governance has
// nothing to say and the other layers decide on their own.
type Decision struct {
	Active             bool   `json:"active"`
	ConfirmationForced bool   `json:"confirmation_forced"`
	ConfirmationWaived bool   `json:"confirmation_waived"`
	AutoApplyAllowed   bool   `json:"auto_apply_allowed"`
	LearningAllowed    bool   `json:"learning_allowed"`
	BiasAllowed        bool   `json:"bias_allowed"`
	EditInPlaceAllowed bool   `json:"edit_in_place_allowed"`
	ExecutionAllowed   bool   `json:"execution_allowed"`
	Reason             string `json:"reason"`
}

// Engine applies role policy plus session overrides. Its verdict always
// outranks preference bias and continuity recommendations.
type Engine struct {
	overrides *Overrides
}

// NewEngine creates a governance engine with an empty override set.
func NewEngine() *Engine {
	return &Engine{overrides: NewOverrides()}
}

// Overrides exposes the session override set for recovery actions.
func (e *Engine) Overrides() *Overrides {
	return e.overrides
}

// ExecutionAllowed reports whether the session role may trigger model
// execution at all. Inactive governance allows it.
func (e *Engine) ExecutionAllowed(gctx Context) bool {
	if !gctx.Active {
		return true
	}
	return e.overrides.Apply(gctx, gctx.Permissions).ExecutionAllowed
}

// ForceConfirmation decides whether role policy forces the confirmation
// step, and which soft capabilities remain available.
func (e *Engine) ForceConfirmation(gctx Context, snap Snapshot, cont continuity.State, band stability.Band) Decision {
	if !gctx.Active {
		return Decision{Active: false, Reason: "governance inactive"}
	}

	perms := e.overrides.Apply(gctx, gctx.Permissions)

	if !perms.ExecutionAllowed {
		return Decision{
			Active:             true,
			ConfirmationForced: true,
			Reason:             "execution not allowed for role " + string(gctx.Role),
		}
	}

	d := Decision{
		Active:             true,
		AutoApplyAllowed:   perms.AutoApply,
		LearningAllowed:    perms.Learning,
		BiasAllowed:        perms.PreferenceBias,
		EditInPlaceAllowed: perms.EditInPlace,
		ExecutionAllowed:   true,
	}

	if perms.MinSkipBand == SkipNever {
		d.ConfirmationForced = true
		d.AutoApplyAllowed = false
		d.Reason = "role " + string(gctx.Role) + " always confirms"
		return d
	}

	refining := cont.Mode == continuity.ModeRefine && cont.ModeConfidence > 0.7
	if perms.MinSkipBand.met(band) && (snap.SuggestsAutoApply || refining) {
		d.ConfirmationWaived = true
		d.Reason = "stability meets role threshold"
		return d
	}

	d.ConfirmationForced = true
	d.Reason = "stability below role threshold"
	return d
}

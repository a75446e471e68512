package governance

import (
	"testing"

	"github.com/longkt99/scribe/internal/continuity"
	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/stability"
)

func TestViewerAlwaysLockedDown(t *testing.T) {
	e := NewEngine()
	gctx := NewContext("u1", "", RoleViewer)

	snapshots := []Snapshot{
		{Route: intent.RouteCreate, Confidence: 0.95, SuggestsAutoApply: true},
		{Route: intent.RouteTransform, Confidence: 0.2},
	}
	states := []continuity.State{
		{Mode: continuity.ModeRefine, ModeConfidence: 0.95},
		continuity.EmptyState(),
	}
	bands := []stability.Band{stability.BandHigh, stability.BandMedium, stability.BandLow}

	for _, snap := range snapshots {
		for _, st := range states {
			for _, band := range bands {
				d := e.ForceConfirmation(gctx, snap, st, band)
				if !d.ConfirmationForced {
					t.Errorf("viewer with band %q: confirmation not forced", band)
				}
				if d.AutoApplyAllowed || d.LearningAllowed || d.BiasAllowed {
					t.Errorf("viewer with band %q: soft capabilities not blocked: %+v", band, d)
				}
				if d.ExecutionAllowed {
					t.Errorf("viewer with band %q: execution allowed", band)
				}
			}
		}
	}
}

func TestInactiveContextDefers(t *testing.T) {
	e := NewEngine()
	d := e.ForceConfirmation(Context{}, Snapshot{SuggestsAutoApply: true}, continuity.EmptyState(), stability.BandHigh)
	if d.Active {
		t.Error("inactive governance should defer entirely")
	}
	if d.ConfirmationForced {
		t.Error("inactive governance must not force anything")
	}
}

func TestSkipNeverRolesAlwaysConfirm(t *testing.T) {
	e := NewEngine()
	for _, role := range []Role{RoleJunior, RoleClient} {
		gctx := NewContext("u1", "", role)
		d := e.ForceConfirmation(gctx,
			Snapshot{Route: intent.RouteTransform, Confidence: 0.95, SuggestsAutoApply: true},
			continuity.State{Mode: continuity.ModeRefine, ModeConfidence: 0.95},
			stability.BandHigh)
		if !d.ConfirmationForced {
			t.Errorf("role %q should always confirm", role)
		}
		if d.AutoApplyAllowed {
			t.Errorf("role %q should not auto-apply", role)
		}
		if !d.ExecutionAllowed {
			t.Errorf("role %q may still execute", role)
		}
	}
}

func TestEditorWaiverConditions(t *testing.T) {
	e := NewEngine()
	gctx := NewContext("u1", "", RoleEditor)

	tests := []struct {
		name       string
		snap       Snapshot
		cont       continuity.State
		band       stability.Band
		wantWaived bool
	}{
		{
			name:       "high stability with auto-apply suggestion waives",
			snap:       Snapshot{Route: intent.RouteCreate, Confidence: 0.92, SuggestsAutoApply: true},
			cont:       continuity.EmptyState(),
			band:       stability.BandHigh,
			wantWaived: true,
		},
		{
			name:       "confident refine flow waives without auto-apply suggestion",
			snap:       Snapshot{Route: intent.RouteTransform, Confidence: 0.7},
			cont:       continuity.State{Mode: continuity.ModeRefine, ModeConfidence: 0.8},
			band:       stability.BandHigh,
			wantWaived: true,
		},
		{
			name:       "low stability never waives",
			snap:       Snapshot{Route: intent.RouteTransform, Confidence: 0.95, SuggestsAutoApply: true},
			cont:       continuity.State{Mode: continuity.ModeRefine, ModeConfidence: 0.9},
			band:       stability.BandLow,
			wantWaived: false,
		},
		{
			name:       "no suggestion and weak flow keeps confirmation",
			snap:       Snapshot{Route: intent.RouteTransform, Confidence: 0.6},
			cont:       continuity.State{Mode: continuity.ModeRefine, ModeConfidence: 0.5},
			band:       stability.BandHigh,
			wantWaived: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.ForceConfirmation(gctx, tt.snap, tt.cont, tt.band)
			if d.ConfirmationWaived != tt.wantWaived {
				t.Errorf("waived = %v, want %v (reason: %s)", d.ConfirmationWaived, tt.wantWaived, d.Reason)
			}
			if d.ConfirmationWaived == d.ConfirmationForced {
				t.Error("waived and forced must disagree for an active executable role")
			}
		})
	}
}

func TestOverridesRestrictOnly(t *testing.T) {
	e := NewEngine()
	gctx := NewContext("u1", "team-a", RoleEditor)

	e.Overrides().RestrictTeam("team-a", Restriction{DisableAutoApply: true, DisableBias: true})

	d := e.ForceConfirmation(gctx,
		Snapshot{Route: intent.RouteTransform, SuggestsAutoApply: true, Confidence: 0.9},
		continuity.EmptyState(), stability.BandHigh)
	if d.AutoApplyAllowed {
		t.Error("team override should disable auto-apply")
	}
	if d.BiasAllowed {
		t.Error("team override should disable bias")
	}
	if !d.LearningAllowed {
		t.Error("untouched capability should survive the override")
	}

	// An override for a viewer cannot grant anything.
	viewer := NewContext("u2", "team-a", RoleViewer)
	d = e.ForceConfirmation(viewer, Snapshot{}, continuity.EmptyState(), stability.BandHigh)
	if !d.ConfirmationForced || d.ExecutionAllowed {
		t.Error("overrides must never expand a role's permissions")
	}
}

func TestUserOverrideDisableLearning(t *testing.T) {
	e := NewEngine()
	gctx := NewContext("u1", "", RoleEditor)

	e.Overrides().RestrictUser("u1", Restriction{DisableLearning: true})
	d := e.ForceConfirmation(gctx, Snapshot{SuggestsAutoApply: true}, continuity.EmptyState(), stability.BandHigh)
	if d.LearningAllowed {
		t.Error("user override should disable learning")
	}

	e.Overrides().ClearUser("u1")
	d = e.ForceConfirmation(gctx, Snapshot{SuggestsAutoApply: true}, continuity.EmptyState(), stability.BandHigh)
	if !d.LearningAllowed {
		t.Error("cleared override should restore role defaults")
	}
}

func TestScopeKey(t *testing.T) {
	gctx := NewContext("u1", "", RoleEditor)
	if got := ScopeKey("scribe:preferences_v1", gctx); got != "scribe:preferences_v1:u1" {
		t.Errorf("ScopeKey = %q", got)
	}
	if got := ScopeKey("scribe:preferences_v1", Context{}); got != "scribe:preferences_v1" {
		t.Errorf("inactive ScopeKey = %q", got)
	}
}

func TestValidateKey(t *testing.T) {
	gctx := NewContext("u1", "", RoleEditor)
	base := "scribe:preferences_v1"

	tests := []struct {
		key  string
		want bool
	}{
		{base + ":u1", true},
		{base + ":u2", false},
		{base, true},       // legacy unscoped
		{"plainkey", true}, // unrelated key
	}
	for _, tt := range tests {
		if got := ValidateKey(base, tt.key, gctx); got != tt.want {
			t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}

	// Inactive governance accepts everything.
	if !ValidateKey(base, base+":someone", Context{}) {
		t.Error("inactive governance should accept any key")
	}
}

func TestDefaultPermissionsUnknownRole(t *testing.T) {
	p := DefaultPermissions(Role("made-up"))
	if p.ExecutionAllowed {
		t.Error("unknown role should fall back to the most restricted bundle")
	}
}

func TestExecutionAllowed(t *testing.T) {
	e := NewEngine()

	if e.ExecutionAllowed(NewContext("v1", "", RoleViewer)) {
		t.Error("viewer must not be execution-allowed")
	}
	if !e.ExecutionAllowed(NewContext("e1", "", RoleEditor)) {
		t.Error("editor should be execution-allowed")
	}
	if !e.ExecutionAllowed(Context{}) {
		t.Error("inactive governance should not block execution")
	}
}

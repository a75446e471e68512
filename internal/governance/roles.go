package governance

// rolePermissions maps each role to its default capability bundle. The
// ordering follows trust: admins may skip confirmation from a medium band,
// juniors and clients always confirm, viewers cannot execute at all.
var rolePermissions = map[Role]Permissions{
	RoleAdmin: {
		AutoApply:        true,
		Learning:         true,
		EditInPlace:      true,
		PreferenceBias:   true,
		ExecutionAllowed: true,
		MinSkipBand:      SkipFromMedium,
	},
	RoleEditor: {
		AutoApply:        true,
		Learning:         true,
		EditInPlace:      true,
		PreferenceBias:   true,
		ExecutionAllowed: true,
		MinSkipBand:      SkipFromMedium,
	},
	RoleJunior: {
		AutoApply:        false,
		Learning:         true,
		EditInPlace:      true,
		PreferenceBias:   true,
		ExecutionAllowed: true,
		MinSkipBand:      SkipNever,
	},
	RoleClient: {
		AutoApply:        false,
		Learning:         false,
		EditInPlace:      false,
		PreferenceBias:   false,
		ExecutionAllowed: true,
		MinSkipBand:      SkipNever,
	},
	RoleViewer: {
		AutoApply:        false,
		Learning:         false,
		EditInPlace:      false,
		PreferenceBias:   false,
		ExecutionAllowed: false,
		MinSkipBand:      SkipNever,
	},
}

// DefaultPermissions returns the default bundle for a role. Unknown roles
// get the viewer bundle: the safest default is the most restricted one.
func DefaultPermissions(role Role) Permissions {
	if p, ok := rolePermissions[role]; ok {
		return p
	}
	return rolePermissions[RoleViewer]
}

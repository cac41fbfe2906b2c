package models

// capabilities is the static role/action policy. It is total and
// fail-closed: any (role, action) pair not present here is denied,
// including unknown roles and unknown actions. State legality is
// checked separately by the work-order transition table.
var capabilities = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionAssign:   true,
		ActionStart:    true,
		ActionPause:    true,
		ActionResume:   true,
		ActionComplete: true,
		ActionCancel:   true,
		ActionArchive:  true,
	},
	RoleResponsible: {
		ActionAssign:   true,
		ActionStart:    true,
		ActionPause:    true,
		ActionResume:   true,
		ActionComplete: true,
		ActionCancel:   true,
		ActionArchive:  true,
	},
	RoleTechnician: {
		ActionStart:    true,
		ActionPause:    true,
		ActionResume:   true,
		ActionComplete: true,
	},
	// RoleClient is read-only and holds no lifecycle capabilities.
}

// Can reports whether the role may invoke the action.
func Can(role Role, action Action) bool {
	return capabilities[role][action]
}

package amsauth

// The predicates below are pure functions of the current user. They
// treat a nil user or a missing role list as "no roles" and never panic.

// HasSystemRole reports whether the user holds the given role in the
// given subsystem, case-insensitively on both fields.
func HasSystemRole(user *SessionUser, system, role string) bool {
	if user == nil {
		return false
	}
	for _, grant := range user.Roles {
		if grant.Matches(system, role) {
			return true
		}
	}
	return false
}

// HasAnySystemRole reports whether the user holds any role in the given
// subsystem.
func HasAnySystemRole(user *SessionUser, system string) bool {
	if user == nil {
		return false
	}
	for _, grant := range user.Roles {
		if grant.MatchesSystem(system) {
			return true
		}
	}
	return false
}

// GetSystemRole returns the role of the first grant matching the given
// subsystem, or ("", false) when there is none.
func GetSystemRole(user *SessionUser, system string) (string, bool) {
	if user == nil {
		return "", false
	}
	for _, grant := range user.Roles {
		if grant.MatchesSystem(system) {
			return grant.Role, true
		}
	}
	return "", false
}

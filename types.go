package amsauth

import (
	"github.com/amstrack/amsauth/authapi"
	"github.com/amstrack/amsauth/token"
)

// RoleGrant is a single system/role pair from the access token.
type RoleGrant = token.RoleGrant

// Credentials is the login request body.
type Credentials = authapi.Credentials

// SessionUser is the merged view of the authenticated user: profile
// fields from the profile endpoint, authorization data from the token.
// Roles always originate from the token; a profile response can never
// overwrite them.
type SessionUser struct {
	ID         string
	Email      string
	FirstName  string
	LastName   string
	Department string
	AvatarURL  string
	Roles      []RoleGrant
}

// SessionSnapshot is the state UI code renders against.
//
// Loading is true while an auth check is in flight. Initialized becomes
// true once the first check completes, success or failure, and gates
// initial rendering.
type SessionSnapshot struct {
	User        *SessionUser
	Loading     bool
	Initialized bool
}

// LoginResult is returned by [Manager.Login]. Error carries the
// human-readable failure message; Err the underlying cause.
type LoginResult struct {
	Success bool
	Error   string
	Err     error
}

// mergeSessionUser builds the session user from the token payload and
// the (possibly absent) profile. A missing profile degrades to a
// token-only user rather than failing the session.
func mergeSessionUser(payload *token.Payload, profile *authapi.Profile) *SessionUser {
	user := &SessionUser{}
	if payload != nil {
		user.ID = payload.Subject
		user.Roles = payload.Roles
	}
	if profile != nil {
		if profile.ID != "" {
			user.ID = profile.ID
		}
		user.Email = profile.Email
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		user.Department = profile.Department
		user.AvatarURL = profile.AvatarURL
		// profile.Roles deliberately ignored: token roles win.
	}
	return user
}

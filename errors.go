package amsauth

import "errors"

// The failure variants below stay distinct even where the UI-facing
// outcome is identical today, so differentiated messaging can be added
// later without re-deriving the distinction.
var (
	// ErrNoToken means no token was found in any storage location.
	ErrNoToken = errors.New("no access token stored")
	// ErrTokenExpired means the stored token failed the local expiry check.
	ErrTokenExpired = errors.New("access token expired")
	// ErrTokenMalformed means the stored token could not be decoded.
	ErrTokenMalformed = errors.New("access token malformed")
	// ErrVerificationFailed means the remote verify endpoint rejected the
	// token or was unreachable; both fail closed.
	ErrVerificationFailed = errors.New("token verification failed")
	// ErrNoSystemAccess means the token is valid but carries no role
	// grant for this system.
	ErrNoSystemAccess = errors.New("no role grant for this system")
	// ErrInvalidCredentials is the generic login failure when the auth
	// service provided no message of its own.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenStoreFailed means the freshly obtained token could not be
	// persisted to the primary store.
	ErrTokenStoreFailed = errors.New("token store write failed")
	// ErrManagerClosed is returned by operations on a closed Manager.
	ErrManagerClosed = errors.New("session manager closed")
)

package flows

import (
	"context"
	"errors"

	"github.com/amstrack/amsauth/authapi"
)

// LoginFailureKind classifies login failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureCredentials
	LoginFailureNoToken
	LoginFailureStore
	LoginFailureNoAccess
)

// LoginResult carries the outcome of a login attempt. Message is the
// human-readable text surfaced to the caller on failure.
type LoginResult struct {
	Failure LoginFailureKind
	Err     error
	Message string
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Obtain      func(context.Context, authapi.Credentials) (*authapi.TokenPair, error)
	CookieToken func() (string, bool)
	StoreToken  func(string) error
	Check       func(context.Context) bool
	Warn        func(string, ...any)
}

// RunLogin posts credentials, persists the returned token (falling back
// to the cookie the service may have set), and re-establishes the full
// session through the auth check. Login never short-circuits profile
// and role loading; the check is the only path into the authenticated
// state.
func RunLogin(ctx context.Context, creds authapi.Credentials, deps LoginDeps) LoginResult {
	pair, err := deps.Obtain(ctx, creds)
	if err != nil {
		msg := "invalid email or password"
		var apiErr *authapi.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			msg = apiErr.Detail
		}
		return LoginResult{Failure: LoginFailureCredentials, Err: err, Message: msg}
	}

	access := pair.Access
	if access == "" {
		// The service may have delivered the token via Set-Cookie only.
		access, _ = deps.CookieToken()
	}
	if access == "" {
		return LoginResult{
			Failure: LoginFailureNoToken,
			Message: "login succeeded but no access token was issued",
		}
	}

	if err := deps.StoreToken(access); err != nil {
		return LoginResult{
			Failure: LoginFailureStore,
			Err:     err,
			Message: "could not persist the session token",
		}
	}

	if !deps.Check(ctx) {
		// The check has already torn the session down; no stale state
		// is left behind.
		return LoginResult{
			Failure: LoginFailureNoAccess,
			Message: "your account has no access to this system",
		}
	}

	return LoginResult{Failure: LoginFailureNone}
}

package flows

import (
	"context"

	"github.com/amstrack/amsauth/authapi"
	"github.com/amstrack/amsauth/token"
)

// CheckFailureKind classifies auth check failures for root-level mapping.
type CheckFailureKind int

const (
	CheckFailureNone CheckFailureKind = iota
	CheckFailureNoToken
	CheckFailureExpired
	CheckFailureDecode
	CheckFailureVerify
	CheckFailureNoSystemAccess
)

// CheckResult carries the decoded token payload and profile on success,
// or failure metadata. Profile may be nil on success: a profile fetch
// failure degrades to a token-only session rather than failing the check.
type CheckResult struct {
	Failure    CheckFailureKind
	Err        error
	Token      string
	Payload    *token.Payload
	Profile    *authapi.Profile
	ProfileErr error
}

// CheckDeps captures auth check dependencies.
type CheckDeps struct {
	GetToken     func() (string, bool)
	Decode       func(string) (*token.Payload, error)
	Expired      func(*token.Payload) bool
	Verify       func(context.Context, string) error
	FetchProfile func(context.Context, string) (*authapi.Profile, error)
	HasAccess    func([]token.RoleGrant) bool
	ClearStore   func() error
	Warn         func(string, ...any)
}

// RunCheck is the single source of truth for (re)establishing session
// validity. Every failure path clears the token store except the
// missing-token case, where there is nothing to clear.
func RunCheck(ctx context.Context, deps CheckDeps) CheckResult {
	tok, ok := deps.GetToken()
	if !ok {
		return CheckResult{Failure: CheckFailureNoToken}
	}

	payload, err := deps.Decode(tok)
	if err != nil {
		clearStore(deps, "undecodable token")
		return CheckResult{Failure: CheckFailureDecode, Err: err, Token: tok}
	}
	if deps.Expired(payload) {
		// A locally expired token never reaches the verify endpoint.
		clearStore(deps, "expired token")
		return CheckResult{Failure: CheckFailureExpired, Token: tok}
	}

	if err := deps.Verify(ctx, tok); err != nil {
		// Transport failure and rejection collapse to the same outcome.
		clearStore(deps, "verification failed")
		return CheckResult{Failure: CheckFailureVerify, Err: err, Token: tok}
	}

	profile, profileErr := deps.FetchProfile(ctx, tok)
	if profileErr != nil && deps.Warn != nil {
		deps.Warn("profile fetch failed, continuing with token-only session")
	}

	if !deps.HasAccess(payload.Roles) {
		clearStore(deps, "no system access")
		return CheckResult{
			Failure: CheckFailureNoSystemAccess,
			Token:   tok,
			Payload: payload,
		}
	}

	return CheckResult{
		Failure:    CheckFailureNone,
		Token:      tok,
		Payload:    payload,
		Profile:    profile,
		ProfileErr: profileErr,
	}
}

func clearStore(deps CheckDeps, reason string) {
	if err := deps.ClearStore(); err != nil && deps.Warn != nil {
		deps.Warn("token store clear failed", "reason", reason)
	}
}

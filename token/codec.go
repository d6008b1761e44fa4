package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned by [DecodePayload] for any input that is not a
// decodable three-segment JWT. Callers must treat it as "no usable token";
// it is never surfaced to end users directly.
var ErrMalformed = errors.New("malformed access token")

// RoleGrant is a single system/role pair carried in the token's "roles"
// claim. A user may hold one grant per subsystem. Comparisons are
// case-insensitive on both fields.
type RoleGrant struct {
	System string `json:"system"`
	Role   string `json:"role"`
}

// MatchesSystem reports whether the grant belongs to the given subsystem,
// ignoring case.
func (g RoleGrant) MatchesSystem(system string) bool {
	return strings.EqualFold(g.System, system)
}

// Matches reports whether the grant matches both the subsystem and the role,
// ignoring case.
func (g RoleGrant) Matches(system, role string) bool {
	return g.MatchesSystem(system) && strings.EqualFold(g.Role, role)
}

// Payload is the decoded access-token payload. Only the claims the client
// consumes are modelled; everything else in the payload is ignored.
//
// Payload values are read-only snapshots of the token at decode time.
type Payload struct {
	Roles []RoleGrant `json:"roles"`
	jwt.RegisteredClaims
}

// DecodePayload decodes the payload segment of tok without verifying the
// signature. The signature is the auth service's concern; the client only
// needs the claims.
//
// Any malformed input (wrong segment count, invalid base64url, invalid
// JSON, non-numeric exp) yields an error wrapping [ErrMalformed].
// DecodePayload never panics.
func DecodePayload(tok string) (*Payload, error) {
	if strings.TrimSpace(tok) == "" {
		return nil, ErrMalformed
	}

	var payload Payload
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &payload, nil
}

// IsExpired reports whether tok is past its exp claim. It fails closed:
// undecodable tokens and tokens without an exp claim are always expired.
func IsExpired(tok string) bool {
	payload, err := DecodePayload(tok)
	if err != nil {
		return true
	}
	return payload.Expired(time.Now())
}

// Expired reports whether the payload's exp claim is at or before now.
// A missing exp claim always reads as expired.
func (p *Payload) Expired(now time.Time) bool {
	if p == nil || p.ExpiresAt == nil {
		return true
	}
	// Expired the instant the deadline is reached, not one tick after.
	return !p.ExpiresAt.After(now)
}

package authapi

import (
	"fmt"
	"io"

	"github.com/amstrack/amsauth/token"
)

// Credentials is the token-obtain request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the token-obtain response body. Refresh is optional; the
// service may deliver the refresh token as a cookie instead.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Profile is the account record served by the profile endpoint.
//
// Roles may appear here too, but authorization data always originates
// from the token; the session manager ignores profile roles on merge.
type Profile struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Department string            `json:"department"`
	AvatarURL  string            `json:"avatar_url"`
	Roles      []token.RoleGrant `json:"roles,omitempty"`
}

// ProfileUpdate is a partial profile edit. When Avatar is set the update
// is sent as multipart form data, otherwise as JSON.
type ProfileUpdate struct {
	Fields     map[string]string
	AvatarName string
	Avatar     io.Reader
}

// APIError is a non-2xx response from the auth service. Detail carries
// the server-provided error message when the body had one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("auth service: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("auth service: unexpected status %d", e.StatusCode)
}

package store

// Legacy artifact names purged by Clear. Older console builds wrote the
// token and a cached user record under these keys, in two separate
// storage areas; both areas are swept on every Clear for backward
// compatibility.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Store is the persistence contract for the access token.
//
// Set writes the primary location only; the cookie copy is owned by the
// auth service. Clear removes the token plus every legacy artifact and
// must be idempotent.
type Store interface {
	Has() bool
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// Package store persists the AMS access token across the supported
// locations: a primary store (file or Redis backed) and a cookie
// fallback populated by the auth service via Set-Cookie.
//
// The session manager is the only writer. Everything else must read
// session state through the manager, never from a store directly, so
// that UI state and stored-token state cannot diverge.
package store

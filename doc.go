// Package amsauth is the client-side session and authorization layer of
// the AMS console. It owns the access token, derives the authenticated
// user and role set from it, keeps the token fresh in the background,
// and exposes the authorization predicates the rest of the UI renders
// against.
//
// The package is the single writer of the token store: UI code observes
// session state through [Manager.Snapshot] and the predicates, never by
// reading storage directly. Manager methods are safe to call from
// multiple goroutines after construction through [Builder.Build].
//
// # What this package must NOT do
//
//   - Verify token signatures. The auth service owns the keys; the
//     client decodes payloads for display and authorization only.
//   - Let authorization data flow from the profile endpoint. Roles
//     always originate from the token.
//   - Surface internal errors to UI code as panics. Every failure is a
//     state transition or a boolean/result return.
package amsauth

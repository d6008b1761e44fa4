// Package authapi is the HTTP client for the remote authentication
// service behind the AMS gateway: token obtain/verify/refresh, profile
// read/update, user listing, and best-effort logout.
//
// Every call carries an explicit timeout and a request-correlation ID.
// The client shares one cookie jar across calls so that tokens the
// service delivers via Set-Cookie (notably the refresh cookie) travel
// on subsequent requests.
package authapi

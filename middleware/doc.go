// Package middleware provides the route guard consumed by the console's
// navigation layer: net/http middleware that renders protected content
// only for sessions the Manager considers authenticated and authorized.
package middleware

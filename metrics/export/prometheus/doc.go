// Package prometheus renders session counters in Prometheus text
// exposition format.
//
// [NewExporter] accepts an [amsauth.Manager] and exposes an
// [http.Handler] suitable for mounting at /metrics. Counter names are
// prefixed amsauth_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount
//     the Handler.
//   - Mutate session state.
package prometheus

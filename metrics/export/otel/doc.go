// Package otel provides OpenTelemetry metric bindings for the session
// counters.
//
// [NewExporter] registers an Int64ObservableCounter per counter and a
// single callback that reads [amsauth.Manager.MetricsSnapshot] on each
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate session state.
package otel

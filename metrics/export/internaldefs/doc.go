// Package internaldefs exposes the metric name catalog shared by the
// exporter implementations.
//
// Counter definitions live here so that the Prometheus and OTel
// exporters always expose identical metric names. Changes in this
// package affect all exporters simultaneously.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs

// Package otel binds goToken issuer metrics to OpenTelemetry observable instruments.
//
// [NewOTelExporter] registers an Int64ObservableCounter per issuer counter and an
// Int64ObservableGauge per latency bucket. One callback reads
// [goToken.Issuer.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate issuer state.
package otel

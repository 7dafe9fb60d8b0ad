// Package prometheus renders goToken issuer metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] accepts an [goToken.Issuer] and exposes an [http.Handler].
// Counter names are prefixed gotoken_*_total; the single histogram is
// gotoken_issue_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate issuer state.
package prometheus

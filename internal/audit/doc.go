// Package audit implements async event dispatching for token issuance outcomes.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, logrus, Redis stream, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured audit record with id, timestamp, type, user, app, severity, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit. The Issuer decides that.
//
// # What this package must NOT do
//
//   - Record key material or token strings.
//   - Import goToken or any sibling internal package.
//   - Perform I/O outside a Sink. The Redis sink is the only one that touches the network.
package audit

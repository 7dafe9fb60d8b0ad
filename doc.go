// Package goToken issues short-lived EdDSA identity tokens that bind a user id to an
// application id. A host service calls it once per session establishment.
//
// Tokens use the compact JWT form:
//
//	base64url({"alg":"EdDSA","typ":"JWT"}) "." base64url({"app":...,"uid":...,"exp":...}) "." base64url(sig)
//
// The signature covers the exact bytes of the first two segments and exp lies
// [ValidityWindow] after issuance.
//
// # Architecture boundaries
//
// goToken is the public surface. It exposes [Issuer], [Builder], [Config], [Token] and the two
// error kinds [ValidationError] and [SigningError]. Segment encoding and signing live in the
// jwt sub-package; audit buffering lives under internal/.
//
// # What this package must NOT do
//
//   - Generate, store, or log private keys. The caller owns the key for its whole lifetime.
//   - Verify, parse, or revoke tokens.
//   - Cache tokens. Every call signs afresh.
//
// # Concurrency
//
// An Issuer is immutable after [Builder.Build]. Generate may be called from any number of
// goroutines; the only shared state is lock-free metrics and the audit dispatcher.
package goToken

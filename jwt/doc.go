// Package jwt builds compact EdDSA tokens from fixed header and payload encoders.
//
// # Pipeline
//
// A token is produced in four linear steps:
//
//   - [EncodeHeader]: constant `{"alg":"EdDSA","typ":"JWT"}` segment.
//   - [EncodePayload]: `{"app":...,"uid":...,"exp":...}` segment in fixed field order.
//   - [Sign]: Ed25519 signature over the exact signing input bytes.
//   - [Assemble]: joins the three base64url segments with ".".
//
// Every segment uses base64url without padding. Encoding is deterministic: identical inputs
// always produce identical bytes.
//
// # What this package must NOT do
//
//   - Retain, copy, or log private key material.
//   - Read the system clock. The caller supplies the expiration instant.
//   - Verify or parse tokens. Verification belongs to the receiving side.
package jwt

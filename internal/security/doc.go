// Package security handles private key material for the command-line tools:
// reading a key file, parsing it, and scrubbing the raw bytes once the
// parsed key exists.
//
// # What this package must NOT do
//
//   - Be imported by the issuer itself. The issuer never owns key bytes.
//   - Cache, copy, or log key material.
package security

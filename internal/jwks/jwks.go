// Package jwks publishes the verification half of an issuer signing key as a
// JSON Web Key, for services that check issued tokens.
package jwks

import (
	"crypto"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// ErrNotEd25519 is returned for public keys of any other length.
var ErrNotEd25519 = errors.New("public key is not an ed25519 key")

// PublicKey returns pub as an OKP JWK with alg EdDSA and use sig. An empty keyID
// is replaced by the RFC 7638 SHA-256 thumbprint.
func PublicKey(pub ed25519.PublicKey, keyID string) (jwk.Key, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, ErrNotEd25519
	}
	key, err := jwk.Import(pub)
	if err != nil {
		return nil, fmt.Errorf("import public key: %w", err)
	}

	if keyID == "" {
		tp, err := key.Thumbprint(crypto.SHA256)
		if err != nil {
			return nil, err
		}
		keyID = base64.RawURLEncoding.EncodeToString(tp)
	}
	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.EdDSA()); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, err
	}
	return key, nil
}

// Set wraps pub in a single-key JWK set, the shape served at a jwks endpoint.
func Set(pub ed25519.PublicKey, keyID string) (jwk.Set, error) {
	key, err := PublicKey(pub, keyID)
	if err != nil {
		return nil, err
	}
	set := jwk.NewSet()
	if err := set.AddKey(key); err != nil {
		return nil, err
	}
	return set, nil
}

package jwt

import (
	"crypto"
	"crypto/ed25519"
	"crypto/subtle"
	"errors"
	"fmt"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNilKey is returned when no signing key is supplied.
	ErrNilKey = errors.New("nil signing key")
	// ErrInvalidKey is returned for Ed25519 keys with the wrong length.
	ErrInvalidKey = errors.New("invalid ed25519 private key")
	// ErrInvalidKeyType is returned for keys that are not Ed25519 signers.
	ErrInvalidKeyType = errors.New("signing key is not an ed25519 key")
	// ErrSignFailed is returned when the key accepted the request but produced no signature.
	ErrSignFailed = errors.New("signature computation failed")
)

// Sign computes an EdDSA signature over signingInput.
//
// key may be an ed25519.PrivateKey or any crypto.Signer whose public half is an
// ed25519.PublicKey, which covers HSM and KMS backed signers. The key is only borrowed
// for the duration of the call.
func Sign(key crypto.PrivateKey, signingInput string) (sig []byte, err error) {
	if key == nil {
		return nil, ErrNilKey
	}
	if edKey, ok := key.(ed25519.PrivateKey); ok && len(edKey) != ed25519.PrivateKeySize {
		return nil, ErrInvalidKey
	}

	// External signers may panic on broken internal state (nil receivers, closed sessions).
	defer func() {
		if r := recover(); r != nil {
			sig = nil
			err = fmt.Errorf("%w: signer panic: %v", ErrSignFailed, r)
		}
	}()

	sig, err = gjwt.SigningMethodEdDSA.Sign(signingInput, key)
	if err != nil {
		switch {
		case errors.Is(err, gjwt.ErrInvalidKeyType), errors.Is(err, gjwt.ErrInvalidKey):
			return nil, fmt.Errorf("%w: %T", ErrInvalidKeyType, key)
		default:
			return nil, fmt.Errorf("%w: %v", ErrSignFailed, err)
		}
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: unexpected signature length %d", ErrSignFailed, len(sig))
	}
	return sig, nil
}

// ParsePrivateKey accepts a 64 byte private key, a 32 byte seed, or a PKCS#8 PEM block.
//
// The 64 byte form must carry the public key derived from its seed in the second half.
// The returned key aliases data for that form; callers that zero data afterwards must not
// use the key again.
func ParsePrivateKey(data []byte) (ed25519.PrivateKey, error) {
	switch len(data) {
	case ed25519.PrivateKeySize:
		derived := ed25519.NewKeyFromSeed(data[:ed25519.SeedSize])
		match := subtle.ConstantTimeCompare(derived[ed25519.SeedSize:], data[ed25519.SeedSize:]) == 1
		clear(derived)
		if !match {
			return nil, ErrInvalidKey
		}
		return ed25519.PrivateKey(data), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(data), nil
	}
	parsed, err := gjwt.ParseEdPrivateKeyFromPEM(data)
	if errors.Is(err, gjwt.ErrNotEdPrivateKey) {
		return nil, ErrInvalidKeyType
	}
	if err != nil {
		return nil, ErrInvalidKey
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, ErrInvalidKeyType
	}
	return edKey, nil
}

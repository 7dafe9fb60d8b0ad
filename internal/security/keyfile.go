package security

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/MrEthical07/goToken/jwt"
)

// ErrEmptyKeyFile is returned when the key file has no content.
var ErrEmptyKeyFile = errors.New("key file is empty")

// Wipe overwrites b with zeroes. The slice stays usable but holds no secret.
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// ReadPrivateKey loads an Ed25519 private key from path. The file may hold
// PKCS#8 PEM, a 32-byte seed, or a 64-byte raw key. The bytes read from disk
// are wiped before returning, on success and on failure.
func ReadPrivateKey(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	defer Wipe(raw)

	if len(raw) == 0 {
		return nil, ErrEmptyKeyFile
	}

	return ParsePrivateKey(raw)
}

// ParsePrivateKey parses data and wipes it afterwards.
func ParsePrivateKey(data []byte) (ed25519.PrivateKey, error) {
	defer Wipe(data)

	key, err := jwt.ParsePrivateKey(data)
	if err != nil {
		return nil, err
	}
	return detach(key, data), nil
}

// detach returns key unchanged unless it shares memory with data, as the raw 64 byte
// form does. Only then is a single copy made, so no stray key copy is left unwiped.
func detach(key ed25519.PrivateKey, data []byte) ed25519.PrivateKey {
	if len(key) == 0 || len(data) == 0 || &key[0] != &data[0] {
		return key
	}
	out := make(ed25519.PrivateKey, len(key))
	copy(out, key)
	return out
}

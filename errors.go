package goToken

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every [ValidationError].
	ErrValidation = errors.New("invalid token request")
	// ErrUserIDRequired is reported when the user id is empty.
	ErrUserIDRequired = errors.New("user id is required")
	// ErrAppIDRequired is reported when the application id is empty.
	ErrAppIDRequired = errors.New("application id is required")
	// ErrIdentifierEncoding is reported when an identifier is not valid UTF-8.
	ErrIdentifierEncoding = errors.New("identifier is not valid utf-8")
	// ErrSigning matches every [SigningError].
	ErrSigning = errors.New("token signing failed")
	// ErrIssuerNotReady is returned by methods called on a nil Issuer.
	ErrIssuerNotReady = errors.New("issuer not initialized")
)

// ValidationError reports bad caller input. It is raised before any clock read or
// cryptographic work and is always recoverable by fixing the input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrValidation, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrValidation) match any validation failure.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// SigningError reports that the cryptographic backend did not produce a signature: the key
// has the wrong type or curve, or the provider failed. It points at configuration, not at
// the request, so retrying with the same key will not help.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSigning, e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSigning) match any signing failure.
func (e *SigningError) Is(target error) bool { return target == ErrSigning }

// IsValidation reports whether err is a caller input failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsSigning reports whether err is a signing backend failure.
func IsSigning(err error) bool {
	var s *SigningError
	return errors.As(err, &s)
}

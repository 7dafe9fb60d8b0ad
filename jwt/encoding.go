package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

const (
	// Algorithm is the JOSE "alg" value written into every header.
	Algorithm = "EdDSA"
	// TokenType is the JOSE "typ" value written into every header.
	TokenType = "JWT"
	// Separator joins token segments.
	Separator = "."

	// TimestampLayout is the fixed-width UTC layout used for textual expirations.
	TimestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// ExpirationFormat selects how the "exp" claim is serialized.
type ExpirationFormat uint8

const (
	// ExpRFC3339 writes exp as a quoted UTC timestamp in [TimestampLayout].
	ExpRFC3339 ExpirationFormat = iota
	// ExpNumericDate writes exp as epoch seconds (RFC 7519 NumericDate).
	ExpNumericDate
)

// String returns the configuration name of the format.
func (f ExpirationFormat) String() string {
	switch f {
	case ExpRFC3339:
		return "rfc3339"
	case ExpNumericDate:
		return "numeric"
	default:
		return fmt.Sprintf("ExpirationFormat(%d)", uint8(f))
	}
}

// ParseExpirationFormat maps a configuration name back to an [ExpirationFormat].
func ParseExpirationFormat(name string) (ExpirationFormat, error) {
	switch name {
	case "", "rfc3339":
		return ExpRFC3339, nil
	case "numeric", "numericdate", "epoch":
		return ExpNumericDate, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownExpirationFormat, name)
	}
}

// ErrUnknownExpirationFormat is returned for format names or values outside the known set.
var ErrUnknownExpirationFormat = errors.New("unknown expiration format")

// Header is the fixed JOSE header. Field order is the serialization order.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

var encodedHeader = mustEncodeHeader()

func mustEncodeHeader() string {
	raw, err := json.Marshal(Header{Alg: Algorithm, Typ: TokenType})
	if err != nil {
		panic(err)
	}
	return encodeSegment(raw)
}

// EncodeHeader returns the base64url header segment. The result never changes.
func EncodeHeader() string {
	return encodedHeader
}

// Expiration is an absolute instant paired with its wire format.
type Expiration struct {
	Time   time.Time
	Format ExpirationFormat
}

// MarshalJSON renders the instant according to Format.
func (e Expiration) MarshalJSON() ([]byte, error) {
	switch e.Format {
	case ExpRFC3339:
		return json.Marshal(e.Time.UTC().Format(TimestampLayout))
	case ExpNumericDate:
		return gjwt.NewNumericDate(e.Time).MarshalJSON()
	default:
		return nil, ErrUnknownExpirationFormat
	}
}

// Claims is the token payload. Field order is the serialization order; no other fields exist.
type Claims struct {
	App string     `json:"app"`
	UID string     `json:"uid"`
	Exp Expiration `json:"exp"`
}

// EncodePayload returns the base64url payload segment for claims.
func EncodePayload(claims Claims) (string, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return encodeSegment(raw), nil
}

// segmenter carries golang-jwt's segment encoding; it holds no header or claims.
var segmenter = new(gjwt.Token)

func encodeSegment(raw []byte) string {
	return segmenter.EncodeSegment(raw)
}

// Encoded returns the instant as a verifier will read it back from the payload.
func (e Expiration) Encoded() time.Time {
	if e.Format == ExpNumericDate {
		return gjwt.NewNumericDate(e.Time).Time.UTC()
	}
	return e.Time.UTC()
}

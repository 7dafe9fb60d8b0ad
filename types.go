package goToken

import (
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

// Token is a freshly issued compact token. String renders the wire form
// header "." payload "." signature.
type Token struct {
	jwt.Segments
	// ExpiresAt is the instant encoded in the exp claim, at the precision it was encoded.
	ExpiresAt time.Time
}

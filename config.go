package goToken

import (
	"errors"
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

// ValidityWindow is how long an issued token stays fresh.
const ValidityWindow = 30 * time.Minute

// Config defines issuer behavior. It is copied at Build time and immutable afterwards.
type Config struct {
	Token   TokenConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls token encoding.
type TokenConfig struct {
	// ExpirationFormat selects the "exp" encoding. Zero value is RFC 3339 UTC text.
	ExpirationFormat jwt.ExpirationFormat
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles in-process counters and the issuance latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used by [NewIssuer].
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			ExpirationFormat: jwt.ExpRFC3339,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate checks the configuration for values the issuer cannot honour.
func (c *Config) Validate() error {
	switch c.Token.ExpirationFormat {
	case jwt.ExpRFC3339, jwt.ExpNumericDate:
	default:
		return jwt.ErrUnknownExpirationFormat
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be > 0 when audit is enabled")
	}
	if c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must not be negative")
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("latency histograms require metrics to be enabled")
	}
	return nil
}

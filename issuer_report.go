package goToken

import (
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

// IssuerReport summarizes what an Issuer will put on the wire, for startup logs and
// readiness endpoints.
type IssuerReport struct {
	Algorithm         string
	TokenType         string
	ValidityWindow    time.Duration
	ExpirationFormat  string
	AuditEnabled      bool
	MetricsEnabled    bool
	LatencyHistograms bool
}

// Report describes the effective issuer configuration.
func (i *Issuer) Report() IssuerReport {
	if i == nil {
		return IssuerReport{}
	}
	return IssuerReport{
		Algorithm:         jwt.Algorithm,
		TokenType:         jwt.TokenType,
		ValidityWindow:    ValidityWindow,
		ExpirationFormat:  i.config.Token.ExpirationFormat.String(),
		AuditEnabled:      i.audit != nil,
		MetricsEnabled:    i.metrics.Enabled(),
		LatencyHistograms: i.metrics.LatencyEnabled(),
	}
}

package goToken

import (
	"crypto"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	internalaudit "github.com/MrEthical07/goToken/internal/audit"
	"github.com/MrEthical07/goToken/jwt"
	"github.com/sirupsen/logrus"
)

// Issuer produces signed identity tokens binding a user id to an application id.
//
// An Issuer holds no per-call state. Generate and Issue are safe for concurrent use; the
// signing key is borrowed for the duration of one call and never retained.
type Issuer struct {
	config  Config
	clock   Clock
	logger  logrus.FieldLogger
	audit   *internalaudit.Dispatcher
	metrics *Metrics
}

// NewIssuer returns an Issuer with [DefaultConfig], the system clock, and a stderr logger.
func NewIssuer() *Issuer {
	return newIssuer(DefaultConfig(), SystemClock{}, defaultLogger(), nil)
}

func newIssuer(cfg Config, clock Clock, logger logrus.FieldLogger, sink AuditSink) *Issuer {
	return &Issuer{
		config: cfg,
		clock:  clock,
		logger: logger,
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, sink),
		metrics: NewMetrics(cfg.Metrics),
	}
}

func defaultLogger() logrus.FieldLogger {
	return logrus.New()
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Generate returns a compact EdDSA token for userID and appID signed with key.
//
// Generate fails with a [*ValidationError] when an identifier is empty or not valid UTF-8,
// and with a [*SigningError] when key is not a usable Ed25519 signer. No partial token is
// ever returned.
func (i *Issuer) Generate(userID, appID string, key crypto.PrivateKey) (string, error) {
	tok, err := i.Issue(userID, appID, key)
	if err != nil {
		return "", err
	}
	return tok.String(), nil
}

// Issue is Generate returning the token segments together with the encoded expiration.
func (i *Issuer) Issue(userID, appID string, key crypto.PrivateKey) (Token, error) {
	if i == nil {
		return Token{}, ErrIssuerNotReady
	}

	var start time.Time
	if i.metrics.LatencyEnabled() {
		start = time.Now()
	}

	if err := validateIdentifiers(userID, appID); err != nil {
		i.metrics.Inc(MetricTokenValidationFailure)
		i.logger.WithError(err).Debug("token request rejected")
		i.emitAudit(AuditEventTokenValidationFailed, AuditSeverityWarning, userID, appID, err)
		return Token{}, err
	}

	exp := jwt.Expiration{
		Time:   i.clock.Now().Add(ValidityWindow),
		Format: i.config.Token.ExpirationFormat,
	}
	seg, err := jwt.Build(jwt.Claims{App: appID, UID: userID, Exp: exp}, key)
	if err != nil {
		serr := &SigningError{Err: err}
		i.metrics.Inc(MetricTokenSigningFailure)
		i.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"app_id":   appID,
			"alg":      jwt.Algorithm,
			"key_type": fmt.Sprintf("%T", key),
		}).WithError(err).Error("token signing failed")
		i.emitAudit(AuditEventTokenSigningFailed, AuditSeverityError, userID, appID, serr)
		return Token{}, serr
	}

	i.metrics.Inc(MetricTokenIssued)
	if !start.IsZero() {
		i.metrics.Observe(MetricIssueLatency, time.Since(start))
	}
	i.emitAudit(AuditEventTokenIssued, AuditSeverityInfo, userID, appID, nil)

	return Token{Segments: seg, ExpiresAt: exp.Encoded()}, nil
}

func validateIdentifiers(userID, appID string) error {
	switch {
	case userID == "":
		return &ValidationError{Field: "user_id", Err: ErrUserIDRequired}
	case appID == "":
		return &ValidationError{Field: "app_id", Err: ErrAppIDRequired}
	case !utf8.ValidString(userID):
		return &ValidationError{Field: "user_id", Err: ErrIdentifierEncoding}
	case !utf8.ValidString(appID):
		return &ValidationError{Field: "app_id", Err: ErrIdentifierEncoding}
	}
	return nil
}

// Close flushes pending audit events. Generate keeps working after Close; only auditing stops.
func (i *Issuer) Close() {
	if i == nil {
		return
	}
	i.audit.Close()
}

// AuditDropped reports audit events lost to dispatcher backpressure.
func (i *Issuer) AuditDropped() uint64 {
	if i == nil {
		return 0
	}
	return i.audit.Dropped()
}

// MetricsSnapshot copies the issuer counters.
func (i *Issuer) MetricsSnapshot() MetricsSnapshot {
	if i == nil {
		return (*Metrics)(nil).Snapshot()
	}
	return i.metrics.Snapshot()
}

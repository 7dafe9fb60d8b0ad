package goToken

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/goToken/internal/audit"
	"github.com/MrEthical07/goToken/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Audit event types emitted by the issuer, one per Generate outcome.
const (
	// AuditEventTokenIssued follows a successful Generate.
	AuditEventTokenIssued = "token_issued"
	// AuditEventTokenValidationFailed follows a rejected user or application id.
	AuditEventTokenValidationFailed = "token_validation_failed"
	// AuditEventTokenSigningFailed follows a signing backend failure.
	AuditEventTokenSigningFailed = "token_signing_failed"

	// DefaultAuditStream is the Redis stream key used when none is given.
	DefaultAuditStream = internalaudit.DefaultStream
)

type (
	// AuditEvent is one issuance outcome. It never carries key material or the token itself.
	AuditEvent = internalaudit.Event
	// AuditSink receives audit events from the dispatcher goroutine.
	AuditSink = internalaudit.Sink
	// AuditSeverity grades an event: info, warning or error.
	AuditSeverity = internalaudit.Severity

	NoOpSink        = internalaudit.NoOpSink
	ChannelSink     = internalaudit.ChannelSink
	JSONWriterSink  = internalaudit.JSONWriterSink
	LogrusSink      = internalaudit.LogrusSink
	RedisStreamSink = internalaudit.RedisStreamSink
)

const (
	AuditSeverityInfo    = internalaudit.SeverityInfo
	AuditSeverityWarning = internalaudit.SeverityWarning
	AuditSeverityError   = internalaudit.SeverityError
)

// NewChannelSink buffers up to buffer events for a consumer reading [ChannelSink.Events].
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink writes one JSON object per event to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewLogrusSink logs events through logger; a nil logger means a fresh logrus.New().
func NewLogrusSink(logger logrus.FieldLogger) *LogrusSink {
	return internalaudit.NewLogrusSink(logger)
}

// NewRedisStreamSink appends events to stream (default [DefaultAuditStream]), trimming it to
// roughly maxLen entries when maxLen > 0.
func NewRedisStreamSink(client redis.UniversalClient, stream string, maxLen int64) *RedisStreamSink {
	return internalaudit.NewRedisStreamSink(client, stream, maxLen)
}

// emitAudit leaves Timestamp and ID to the dispatcher so rejected requests never read the clock.
func (i *Issuer) emitAudit(eventType string, severity AuditSeverity, userID, appID string, err error) {
	if i.audit == nil {
		return
	}
	event := AuditEvent{
		EventType: eventType,
		Severity:  severity,
		UserID:    userID,
		AppID:     appID,
		Success:   err == nil,
		Metadata: map[string]string{
			"alg": jwt.Algorithm,
		},
	}
	if err != nil {
		event.Error = err.Error()
	}
	i.audit.Emit(context.Background(), event)
}

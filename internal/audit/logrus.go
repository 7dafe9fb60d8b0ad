package audit

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogrusSink renders events as structured log entries. Severity maps to the log level.
type LogrusSink struct {
	logger logrus.FieldLogger
}

// NewLogrusSink writes events to logger. A nil logger gets a fresh logrus.Logger.
func NewLogrusSink(logger logrus.FieldLogger) *LogrusSink {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusSink{logger: logger}
}

func (s *LogrusSink) Emit(_ context.Context, event Event) {
	if s == nil {
		return
	}

	fields := logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.EventType,
		"success":    event.Success,
	}
	if event.UserID != "" {
		fields["user_id"] = event.UserID
	}
	if event.AppID != "" {
		fields["app_id"] = event.AppID
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}
	for k, v := range event.Metadata {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}

	entry := s.logger.WithFields(fields)
	switch event.Severity {
	case SeverityError:
		entry.Error("audit event")
	case SeverityWarning:
		entry.Warn("audit event")
	default:
		entry.Info("audit event")
	}
}

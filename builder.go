package goToken

import (
	"errors"

	"github.com/MrEthical07/goToken/jwt"
	"github.com/sirupsen/logrus"
)

// Builder assembles an [Issuer]. A Builder is single use.
type Builder struct {
	config    Config
	clock     Clock
	logger    logrus.FieldLogger
	loggerSet bool
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration. Later With* calls adjust the replacement.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithClock replaces the wall clock used to compute exp.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithLogger sets the logger for operational failures. A nil logger discards output.
func (b *Builder) WithLogger(logger logrus.FieldLogger) *Builder {
	b.logger = logger
	b.loggerSet = true
	return b
}

// WithAuditSink routes issuance events to sink and enables the audit dispatcher.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms records issuance latency. Requires metrics to be enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithExpirationFormat selects how exp is written into the payload.
func (b *Builder) WithExpirationFormat(format jwt.ExpirationFormat) *Builder {
	b.config.Token.ExpirationFormat = format
	return b
}

// Build validates the configuration and returns a ready Issuer.
func (b *Builder) Build() (*Issuer, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if b.auditSink != nil {
		cfg.Audit.Enabled = true
		if cfg.Audit.BufferSize <= 0 {
			cfg.Audit.BufferSize = DefaultConfig().Audit.BufferSize
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = SystemClock{}
	}

	logger := b.logger
	switch {
	case !b.loggerSet:
		logger = defaultLogger()
	case logger == nil:
		logger = discardLogger()
	}

	b.built = true
	return newIssuer(cfg, clock, logger, b.auditSink), nil
}

package audit

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "gotoken:audit"

// RedisStreamSink appends events to a Redis stream for collection by log shippers.
// Write failures are counted, never propagated: auditing must not fail issuance.
type RedisStreamSink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
	failed atomic.Uint64
}

// NewRedisStreamSink appends to stream, or [DefaultStream] when empty. maxLen > 0 trims approximately.
func NewRedisStreamSink(client redis.UniversalClient, stream string, maxLen int64) *RedisStreamSink {
	if stream == "" {
		stream = DefaultStream
	}
	if maxLen < 0 {
		maxLen = 0
	}
	return &RedisStreamSink{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (s *RedisStreamSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.client == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.failed.Add(1)
		return
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"event_type": event.EventType,
			"severity":   string(event.Severity),
			"event":      string(data),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		s.failed.Add(1)
	}
}

// Failed reports how many events could not be written.
func (s *RedisStreamSink) Failed() uint64 {
	if s == nil {
		return 0
	}
	return s.failed.Load()
}

// Stream returns the target stream key.
func (s *RedisStreamSink) Stream() string {
	return s.stream
}

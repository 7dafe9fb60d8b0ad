package audit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateSink struct {
	gate  chan struct{}
	count atomic.Int64
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
	s.count.Add(1)
}

type panicSink struct{}

func (panicSink) Emit(context.Context, Event) { panic("sink exploded") }

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	require.Nil(t, d)

	// nil dispatchers are safe to use
	d.Emit(context.Background(), Event{EventType: "token_issued"})
	d.Close()
	assert.Zero(t, d.Dropped())
	assert.Zero(t, d.Delivered())
}

func TestDispatcherFillsIdentityAndDelivers(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	defer d.Close()

	d.Emit(context.Background(), Event{EventType: "token_issued", UserID: "u-1", AppID: "a-1", Success: true})

	select {
	case ev := <-sink.Events():
		_, err := uuid.Parse(ev.ID)
		require.NoError(t, err, "event id should be a uuid")
		assert.False(t, ev.Timestamp.IsZero())
		assert.Equal(t, "token_issued", ev.EventType)
		assert.Equal(t, "u-1", ev.UserID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestDispatcherKeepsCallerIdentity(t *testing.T) {
	sink := NewChannelSink(1)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	defer d.Close()

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d.Emit(context.Background(), Event{ID: "fixed", Timestamp: ts, EventType: "x"})

	ev := <-sink.Events()
	assert.Equal(t, "fixed", ev.ID)
	assert.True(t, ev.Timestamp.Equal(ts))
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	for i := 0; i < 50; i++ {
		d.Emit(context.Background(), Event{EventType: "token_issued"})
	}
	assert.NotZero(t, d.Dropped())

	close(sink.gate)
	d.Close()
	assert.Equal(t, uint64(sink.count.Load()), d.Delivered())
	assert.Equal(t, uint64(50), d.Dropped()+d.Delivered())
}

func TestDispatcherBlockingEmitHonoursContext(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	defer func() {
		close(sink.gate)
		d.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	for i := 0; i < 3; i++ {
		d.Emit(ctx, Event{EventType: "token_issued"})
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.NotZero(t, d.Dropped())
}

func TestDispatcherSurvivesSinkPanic(t *testing.T) {
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, panicSink{})
	d.Emit(context.Background(), Event{EventType: "a"})
	d.Emit(context.Background(), Event{EventType: "b"})
	d.Close()

	assert.Equal(t, uint64(2), d.SinkPanics())
	assert.Zero(t, d.Delivered())
}

func TestEmitAfterCloseIsIgnored(t *testing.T) {
	sink := NewChannelSink(1)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	d.Close()
	d.Close()

	d.Emit(context.Background(), Event{EventType: "late"})
	select {
	case ev := <-sink.Events():
		t.Fatalf("unexpected delivery after close: %+v", ev)
	default:
	}
}

func TestBlockingEmitCutOffByCloseCountsDrop(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)

	// first event parks the delivery goroutine inside the sink, second fills the buffer
	d.Emit(context.Background(), Event{EventType: "token_issued"})
	require.Eventually(t, func() bool { return len(d.ch) == 0 }, time.Second, time.Millisecond)
	d.Emit(context.Background(), Event{EventType: "token_issued"})

	// signal shutdown without waiting, so the next Emit sees a full buffer and a closing dispatcher
	d.closeOnce.Do(func() { close(d.done) })

	d.Emit(context.Background(), Event{EventType: "token_issued"})
	assert.Equal(t, uint64(1), d.Dropped())

	close(sink.gate)
	d.wg.Wait()
	assert.Equal(t, uint64(2), d.Delivered())
	assert.Equal(t, uint64(3), d.Dropped()+d.Delivered())
}

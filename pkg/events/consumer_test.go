package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return kafka.Message{}, context.Canceled
	}
	m := f.queue[0]
	f.queue = f.queue[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error { return nil }

func newTestConsumer(msgs ...kafka.Message) (*Consumer, *fakeReader) {
	r := &fakeReader{queue: msgs}
	return &Consumer{
		reader:     r,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		backoff:    time.Millisecond,
		maxBackoff: 4 * time.Millisecond,
	}, r
}

func TestRun_FailingHandlerLeavesOffsetUncommitted(t *testing.T) {
	c, r := newTestConsumer(kafka.Message{Offset: 7, Value: []byte(`{}`)})

	calls := 0
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Run(ctx, func(context.Context, []byte, []byte) error {
		calls++
		return errors.New("db down")
	})
	require.NoError(t, err)
	assert.Empty(t, r.committed)
	assert.Greater(t, calls, 1)
}

func TestRun_RetriesUntilHandled(t *testing.T) {
	c, r := newTestConsumer(kafka.Message{Offset: 1}, kafka.Message{Offset: 2})

	fails := 2
	err := c.Run(context.Background(), func(context.Context, []byte, []byte) error {
		if fails > 0 {
			fails--
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, r.committed, 2)
	assert.EqualValues(t, 1, r.committed[0].Offset)
	assert.EqualValues(t, 2, r.committed[1].Offset)
}

func TestRun_SkipsMalformed(t *testing.T) {
	c, r := newTestConsumer(kafka.Message{Offset: 3, Value: []byte(`{`)})

	calls := 0
	err := c.Run(context.Background(), func(context.Context, []byte, []byte) error {
		calls++
		return ErrMalformed
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, r.committed, 1)
}

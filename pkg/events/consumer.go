package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrMalformed marks an event that can never be handled. Such messages are
// committed and skipped instead of retried.
var ErrMalformed = errors.New("malformed event")

type HandlerFunc func(ctx context.Context, key, value []byte) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader     messageReader
	log        *slog.Logger
	backoff    time.Duration
	maxBackoff time.Duration
}

func NewConsumer(brokers []string, groupID, topic string, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: r, log: log, backoff: 200 * time.Millisecond, maxBackoff: 10 * time.Second}
}

// Run fetches messages until ctx is cancelled. A message is committed only
// once the handler succeeds or reports ErrMalformed; other failures are
// retried with backoff and the offset stays where it was.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("kafka: fetch: %w", err)
		}

		if err := c.handle(ctx, handle, m); err != nil {
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.log.Warn("event_commit_error", "topic", m.Topic, "offset", m.Offset, "error", err)
		}
	}
}

// handle returns an error only when ctx ends before the handler succeeds.
func (c *Consumer) handle(ctx context.Context, handle HandlerFunc, m kafka.Message) error {
	wait := c.backoff
	for attempt := 1; ; attempt++ {
		err := handle(ctx, m.Key, m.Value)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrMalformed) {
			c.log.Warn("event_skipped", "topic", m.Topic, "offset", m.Offset, "error", err)
			return nil
		}
		c.log.Error("event_handle_error", "topic", m.Topic, "offset", m.Offset, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > c.maxBackoff {
			wait = c.maxBackoff
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

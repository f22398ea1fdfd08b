package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"bedflow/internal/models"

	"go.uber.org/zap"
)

var ErrRelayFull = errors.New("relay buffer full")

// Publisher pushes an encoded event to an external broker
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

type relayMessage struct {
	topic string
	data  []byte
}

// Relay is an Observer that forwards events to a Publisher from its own
// goroutine, so broker latency never reaches the mutating caller.
type Relay struct {
	name      string
	publisher Publisher
	queue     chan relayMessage
	timeout   time.Duration
	logger    *zap.Logger
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

func NewRelay(name string, publisher Publisher, buffer int, timeout time.Duration, logger *zap.Logger) *Relay {
	if buffer <= 0 {
		buffer = 1
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Relay{
		name:      name,
		publisher: publisher,
		queue:     make(chan relayMessage, buffer),
		timeout:   timeout,
		logger:    logger.With(zap.String("relay", name)),
	}
}

func (r *Relay) Name() string {
	return r.name
}

// Notify encodes the event and queues it without blocking
func (r *Relay) Notify(event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	select {
	case r.queue <- relayMessage{topic: string(event.Topic), data: data}:
		return nil
	default:
		r.dropped.Add(1)
		return ErrRelayFull
	}
}

// Run drains the queue until ctx is cancelled, then closes the publisher
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("Relay started")
	defer func() {
		if err := r.publisher.Close(); err != nil {
			r.logger.Warn("failed to close publisher", zap.Error(err))
		}
		r.logger.Info("Relay stopped",
			zap.Uint64("dropped", r.dropped.Load()),
			zap.Uint64("failed", r.failed.Load()))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-r.queue:
			r.forward(ctx, msg)
		}
	}
}

func (r *Relay) forward(ctx context.Context, msg relayMessage) {
	pubCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.publisher.Publish(pubCtx, msg.topic, msg.data); err != nil {
		r.failed.Add(1)
		r.logger.Warn("failed to publish event", zap.String("topic", msg.topic), zap.Error(err))
	}
}

// Dropped counts events discarded because the buffer was full
func (r *Relay) Dropped() uint64 {
	return r.dropped.Load()
}

// Failed counts events the publisher rejected
func (r *Relay) Failed() uint64 {
	return r.failed.Load()
}

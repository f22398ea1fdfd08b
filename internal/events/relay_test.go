package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bedflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	err      error
	closed   bool
	block    chan struct{}
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.topics)
}

func TestRelay_ForwardsEncodedEvents(t *testing.T) {
	pub := &fakePublisher{}
	relay := NewRelay("fake", pub, 8, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	b := NewBroadcaster(zap.NewNop())
	b.Subscribe(relay.Name(), relay)
	b.BedUpserted(models.Bed{ID: 3, Ward: models.WardICU, Status: models.BedAvailable})

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.True(t, pub.closed)
	assert.Equal(t, "bed-upserted", pub.topics[0])

	var decoded struct {
		Topic   string     `json:"topic"`
		Payload models.Bed `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.Equal(t, "bed-upserted", decoded.Topic)
	assert.Equal(t, uint(3), decoded.Payload.ID)
	assert.Equal(t, models.WardICU, decoded.Payload.Ward)
}

func TestRelay_DropsWhenFull(t *testing.T) {
	relay := NewRelay("fake", &fakePublisher{}, 1, time.Second, zap.NewNop())
	event := models.Event{Topic: models.TopicBedRemoved, Payload: uint(1)}

	require.NoError(t, relay.Notify(event))
	err := relay.Notify(event)

	assert.ErrorIs(t, err, ErrRelayFull)
	assert.Equal(t, uint64(1), relay.Dropped())
}

func TestRelay_CountsPublisherFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	relay := NewRelay("fake", pub, 4, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)

	require.NoError(t, relay.Notify(models.Event{Topic: models.TopicBedRemoved, Payload: uint(1)}))
	assert.Eventually(t, func() bool { return relay.Failed() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRelay_DoesNotBlockPublisherSide(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	defer close(pub.block)
	relay := NewRelay("slow", pub, 2, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)

	b := NewBroadcaster(zap.NewNop())
	b.Subscribe(relay.Name(), relay)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.BedRemoved(uint(i))
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow relay")
	}
	assert.Positive(t, relay.Dropped())
}

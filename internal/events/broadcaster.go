package events

import (
	"fmt"
	"sync"
	"time"

	"bedflow/internal/models"

	"go.uber.org/zap"
)

// Observer receives every event published after it subscribed.
// Notify runs on the publishing goroutine while the store is locked, so it
// must return quickly and must not call back into the services.
type Observer interface {
	Notify(event models.Event) error
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(event models.Event) error

func (f ObserverFunc) Notify(event models.Event) error {
	return f(event)
}

type subscription struct {
	id       uint64
	name     string
	observer Observer
}

// Broadcaster fans committed mutations out to observers synchronously, in
// subscription order. A failing observer is logged and skipped.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	logger *zap.Logger
	now    func() time.Time
}

func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		logger: logger,
		now:    time.Now,
	}
}

// Subscribe registers an observer and returns a function that removes it
func (b *Broadcaster) Subscribe(name string, observer Observer) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, observer: observer})
	b.mu.Unlock()

	b.logger.Debug("observer subscribed", zap.String("observer", name))

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Broadcaster) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of registered observers
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers an event to every current observer and returns how many
// accepted it without error.
func (b *Broadcaster) Publish(topic models.Topic, payload any) int {
	event := models.Event{
		Topic:       topic,
		Payload:     payload,
		PublishedAt: b.now(),
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	delivered := 0
	for _, s := range subs {
		if err := b.deliver(s, event); err != nil {
			b.logger.Warn("observer failed",
				zap.String("observer", s.name),
				zap.String("topic", string(topic)),
				zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

func (b *Broadcaster) deliver(s subscription, event models.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	return s.observer.Notify(event)
}

// BedUpserted announces a created or changed bed
func (b *Broadcaster) BedUpserted(bed models.Bed) {
	b.Publish(models.TopicBedUpserted, bed)
}

// BedRemoved announces a deleted bed
func (b *Broadcaster) BedRemoved(id uint) {
	b.Publish(models.TopicBedRemoved, id)
}

// QueueChanged announces the new ranked queue
func (b *Broadcaster) QueueChanged(entries []models.QueueEntry) {
	b.Publish(models.TopicQueueSnapshotChanged, entries)
}

package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"bedflow/internal/events"
	"bedflow/internal/models"
	"bedflow/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// eventLog records every broadcast event
type eventLog struct {
	mu     sync.Mutex
	events []models.Event
}

func (l *eventLog) Notify(e models.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) topics() []models.Topic {
	l.mu.Lock()
	defer l.mu.Unlock()
	topics := make([]models.Topic, len(l.events))
	for i, e := range l.events {
		topics[i] = e.Topic
	}
	return topics
}

func (l *eventLog) last() models.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[len(l.events)-1]
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

type testEnv struct {
	store      *repository.Store
	beds       *BedService
	queue      *QueueService
	assign     *AssignmentService
	census     *CensusService
	events     *eventLog
	now        time.Time
	idSequence int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewStore()
	broadcaster := events.NewBroadcaster(logger)
	log := &eventLog{}
	broadcaster.Subscribe("test", log)

	env := &testEnv{store: store, events: log, now: baseTime}
	env.beds = NewBedService(store, broadcaster, logger)
	env.queue = NewQueueService(store, broadcaster, logger)
	env.queue.now = func() time.Time { return env.now }
	env.queue.newID = func() string {
		env.idSequence++
		return fmt.Sprintf("P-%03d", env.idSequence)
	}
	env.assign = NewAssignmentService(store, env.queue, broadcaster, logger)
	env.census = NewCensusService(store)
	return env
}

func (e *testEnv) addBed(t *testing.T, ward models.Ward, distance float64) *models.Bed {
	t.Helper()
	bed, err := e.beds.AddBed(ward, distance)
	require.NoError(t, err)
	return bed
}

func (e *testEnv) enqueue(t *testing.T, name string, triage int) *models.Patient {
	t.Helper()
	p, err := e.queue.Enqueue(models.PatientData{Name: name, TriageLevel: triage})
	require.NoError(t, err)
	return p
}

// requireOccupancyInvariant checks that a bed holds a patient exactly when it is Occupied
// and that no patient is both waiting and in a bed.
func (e *testEnv) requireOccupancyInvariant(t *testing.T) {
	t.Helper()
	seen := map[string]bool{}
	for _, bed := range e.beds.ListBeds(models.BedFilter{}) {
		require.Equal(t, bed.Status == models.BedOccupied, bed.Patient != nil, "bed %d", bed.ID)
		if bed.Patient != nil {
			require.False(t, seen[bed.Patient.ID], "patient %s in two beds", bed.Patient.ID)
			seen[bed.Patient.ID] = true
		}
	}
	for _, entry := range e.queue.Snapshot(e.now) {
		require.False(t, seen[entry.ID], "patient %s both waiting and admitted", entry.ID)
		seen[entry.ID] = true
	}
}

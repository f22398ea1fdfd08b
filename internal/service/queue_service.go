package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bedflow/internal/events"
	"bedflow/internal/models"
	"bedflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QueueService struct {
	store       *repository.Store
	broadcaster *events.Broadcaster
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewQueueService(store *repository.Store, broadcaster *events.Broadcaster, logger *zap.Logger) *QueueService {
	return &QueueService{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return "P-" + uuid.New().String() },
	}
}

// Enqueue admits a patient to the waiting queue
func (s *QueueService) Enqueue(data models.PatientData) (*models.Patient, error) {
	var patient models.Patient
	err := s.store.Atomic(func() error {
		p, err := s.newPatientLocked(data)
		if err != nil {
			return err
		}
		if err := s.store.Patients.Enqueue(p); err != nil {
			return err
		}
		patient = *p
		s.broadcastLocked()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("patient enqueued",
		zap.String("patient_id", patient.ID),
		zap.Int("triage_level", patient.TriageLevel))
	return &patient, nil
}

// Dequeue removes a waiting patient from the system
func (s *QueueService) Dequeue(id string) error {
	err := s.store.Atomic(func() error {
		if _, err := s.store.Patients.Remove(id); err != nil {
			return err
		}
		s.broadcastLocked()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove patient %s: %w", id, err)
	}

	s.logger.Info("patient removed from queue", zap.String("patient_id", id))
	return nil
}

// Snapshot ranks the waiting queue as of now
func (s *QueueService) Snapshot(now time.Time) []models.QueueEntry {
	var entries []models.QueueEntry
	_ = s.store.Atomic(func() error {
		entries = RankPatients(s.store.Patients.Waiting(), now)
		return nil
	})
	return entries
}

// Rebroadcast republishes the ranked queue when anyone is waiting
func (s *QueueService) Rebroadcast() bool {
	sent := false
	_ = s.store.Atomic(func() error {
		if s.store.Patients.Len() == 0 {
			return nil
		}
		s.broadcastLocked()
		sent = true
		return nil
	})
	return sent
}

// Directory lists every live patient, waiting or in a bed, matching query
// against id or name. An empty status matches both.
func (s *QueueService) Directory(query string, status models.PatientLocation) []models.DirectoryEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	matches := func(p *models.Patient) bool {
		return query == "" ||
			strings.Contains(strings.ToLower(p.ID), query) ||
			strings.Contains(strings.ToLower(p.Name), query)
	}

	var entries []models.DirectoryEntry
	_ = s.store.Atomic(func() error {
		if status == "" || status == models.PatientWaiting {
			for _, p := range s.store.Patients.Waiting() {
				if matches(p) {
					entries = append(entries, models.DirectoryEntry{Patient: *p, Status: models.PatientWaiting})
				}
			}
		}
		if status == "" || status == models.PatientAdmitted {
			for _, bed := range s.store.Beds.ListBeds(models.BedFilter{Status: models.BedOccupied}) {
				if bed.Patient == nil || !matches(bed.Patient) {
					continue
				}
				bedID := bed.ID
				entries = append(entries, models.DirectoryEntry{
					Patient: *bed.Patient,
					Status:  models.PatientAdmitted,
					BedID:   &bedID,
					Ward:    bed.Ward,
				})
			}
		}
		return nil
	})

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TriageLevel != b.TriageLevel {
			return a.TriageLevel < b.TriageLevel
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return entries
}

// RankPatients orders patients by ascending score (triage level minus hours
// waited). Ties go to the earlier arrival, then the lower id.
func RankPatients(patients []*models.Patient, now time.Time) []models.QueueEntry {
	entries := make([]models.QueueEntry, len(patients))
	for i, p := range patients {
		entries[i] = models.QueueEntry{
			Patient:   *p,
			Score:     p.Score(now),
			WaitHours: p.WaitHours(now),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// broadcastLocked publishes the current ranking. Callers hold the store lock.
func (s *QueueService) broadcastLocked() {
	s.broadcaster.QueueChanged(RankPatients(s.store.Patients.Waiting(), s.now()))
}

// newPatientLocked validates data and builds a record with an id unused by
// any waiting or admitted patient. Callers hold the store lock.
func (s *QueueService) newPatientLocked(data models.PatientData) (*models.Patient, error) {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPatient)
	}
	if data.TriageLevel < models.MinTriageLevel || data.TriageLevel > models.MaxTriageLevel {
		return nil, fmt.Errorf("%w: triage level must be between %d and %d",
			ErrInvalidPatient, models.MinTriageLevel, models.MaxTriageLevel)
	}

	id := s.newID()
	for s.patientExistsLocked(id) {
		id = s.newID()
	}

	var metadata map[string]any
	if len(data.Metadata) > 0 {
		metadata = make(map[string]any, len(data.Metadata))
		for k, v := range data.Metadata {
			metadata[k] = v
		}
	}

	return &models.Patient{
		ID:          id,
		Name:        name,
		TriageLevel: data.TriageLevel,
		Condition:   data.Condition,
		JoinedAt:    s.now(),
		Metadata:    metadata,
	}, nil
}

func (s *QueueService) patientExistsLocked(id string) bool {
	if _, err := s.store.Patients.GetWaiting(id); err == nil {
		return true
	}
	_, err := s.store.Beds.FindByPatient(id)
	return err == nil
}

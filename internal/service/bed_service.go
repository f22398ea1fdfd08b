package service

import (
	"fmt"
	"math"

	"bedflow/internal/config"
	"bedflow/internal/events"
	"bedflow/internal/models"
	"bedflow/internal/repository"

	"go.uber.org/zap"
)

type BedService struct {
	store       *repository.Store
	broadcaster *events.Broadcaster
	logger      *zap.Logger
}

func NewBedService(store *repository.Store, broadcaster *events.Broadcaster, logger *zap.Logger) *BedService {
	return &BedService{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// AddBed creates an Available bed in the given ward
func (s *BedService) AddBed(ward models.Ward, distance float64) (*models.Bed, error) {
	if !isKnownWard(ward) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWard, ward)
	}
	if distance < 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return nil, ErrInvalidDistance
	}

	var bed models.Bed
	_ = s.store.Atomic(func() error {
		created := s.store.Beds.CreateBed(ward, distance)
		bed = *created
		s.broadcaster.BedUpserted(bed)
		return nil
	})

	s.logger.Info("bed created",
		zap.Uint("bed_id", bed.ID),
		zap.String("ward", string(ward)),
		zap.Float64("distance", distance))
	return &bed, nil
}

// RemoveBed deletes a bed unless a patient is in it
func (s *BedService) RemoveBed(id uint) error {
	err := s.store.Atomic(func() error {
		bed, err := s.store.Beds.GetBedByID(id)
		if err != nil {
			return err
		}
		if bed.Status == models.BedOccupied {
			return ErrBedOccupied
		}
		if err := s.store.Beds.DeleteBed(id); err != nil {
			return err
		}
		s.broadcaster.BedRemoved(id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove bed %d: %w", id, err)
	}

	s.logger.Info("bed removed", zap.Uint("bed_id", id))
	return nil
}

// GetBed retrieves a bed by ID
func (s *BedService) GetBed(id uint) (*models.Bed, error) {
	var bed models.Bed
	err := s.store.Atomic(func() error {
		found, err := s.store.Beds.GetBedByID(id)
		if err != nil {
			return err
		}
		bed = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

// ListBeds returns copies of the beds passing filter
func (s *BedService) ListBeds(filter models.BedFilter) []models.Bed {
	var beds []models.Bed
	_ = s.store.Atomic(func() error {
		found := s.store.Beds.ListBeds(filter)
		beds = make([]models.Bed, len(found))
		for i, b := range found {
			beds[i] = *b
		}
		return nil
	})
	return beds
}

// SetStatus changes the status of a bed that is not occupied.
// Occupied is entered and left only through assignment, transfer and discharge.
func (s *BedService) SetStatus(id uint, status models.BedStatus) (*models.Bed, error) {
	if !isKnownStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == models.BedOccupied || status == models.BedReserved {
		return nil, fmt.Errorf("%w: cannot set status to %s directly", ErrInvalidTransition, status)
	}

	var (
		bed      models.Bed
		previous models.BedStatus
	)
	err := s.store.Atomic(func() error {
		found, err := s.store.Beds.GetBedByID(id)
		if err != nil {
			return err
		}
		if found.Status == models.BedOccupied {
			return fmt.Errorf("%w: bed is occupied, discharge or transfer the patient first", ErrInvalidTransition)
		}
		previous = found.Status
		found.Status = status
		bed = *found
		s.broadcaster.BedUpserted(bed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bed status changed",
		zap.Uint("bed_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	return &bed, nil
}

// LoadLayout creates the beds described by a layout file, in file order
func (s *BedService) LoadLayout(layout *config.Layout) (int, error) {
	created := 0
	for _, w := range layout.Wards {
		ward, ok := models.ParseWard(w.Ward)
		if !ok {
			return created, fmt.Errorf("%w: %q", ErrInvalidWard, w.Ward)
		}
		for _, b := range w.Beds {
			if _, err := s.AddBed(ward, b.Distance); err != nil {
				return created, fmt.Errorf("failed to create %s bed: %w", ward, err)
			}
			created++
		}
	}
	return created, nil
}

func isKnownWard(ward models.Ward) bool {
	for _, w := range models.Wards {
		if w == ward {
			return true
		}
	}
	return false
}

func isKnownStatus(status models.BedStatus) bool {
	for _, st := range models.BedStatuses {
		if st == status {
			return true
		}
	}
	return false
}

package service

import (
	"fmt"

	"bedflow/internal/events"
	"bedflow/internal/models"
	"bedflow/internal/repository"

	"go.uber.org/zap"
)

// PatientRef names the patient to place: either a waiting patient by id or
// a new record admitted straight to a bed. Exactly one must be set.
type PatientRef struct {
	PatientID string
	Patient   *models.PatientData
}

type AssignmentService struct {
	store       *repository.Store
	queue       *QueueService
	broadcaster *events.Broadcaster
	logger      *zap.Logger
}

func NewAssignmentService(
	store *repository.Store,
	queue *QueueService,
	broadcaster *events.Broadcaster,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		store:       store,
		queue:       queue,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// SmartAssign places the patient in the nearest Available bed of the
// requested ward, falling back to the nearest Available bed anywhere.
// An empty ward goes straight to the fallback pool.
func (s *AssignmentService) SmartAssign(ward models.Ward, ref PatientRef) (*models.Bed, error) {
	if ward != "" && !isKnownWard(ward) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWard, ward)
	}

	var (
		bed      models.Bed
		fallback bool
	)
	err := s.store.Atomic(func() error {
		patient, queued, err := s.resolvePatientLocked(ref)
		if err != nil {
			return err
		}

		var candidates []*models.Bed
		if ward != "" {
			candidates = s.store.Beds.AvailableInWard(ward)
		}
		if len(candidates) == 0 {
			candidates = s.store.Beds.Available()
			fallback = ward != ""
		}

		chosen := SelectNearest(candidates)
		if chosen == nil {
			return ErrNoBedAvailable
		}

		bed = s.occupyLocked(chosen, patient, queued)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bed assigned",
		zap.Uint("bed_id", bed.ID),
		zap.String("patient_id", bed.Patient.ID),
		zap.String("requested_ward", string(ward)),
		zap.String("ward", string(bed.Ward)),
		zap.Bool("fallback", fallback))
	return &bed, nil
}

// ManualAssign places the patient in a bed the caller picked
func (s *AssignmentService) ManualAssign(bedID uint, ref PatientRef) (*models.Bed, error) {
	var bed models.Bed
	err := s.store.Atomic(func() error {
		target, err := s.store.Beds.GetBedByID(bedID)
		if err != nil {
			return err
		}
		if target.Status != models.BedAvailable {
			return fmt.Errorf("%w: bed %d is %s", ErrTargetBedNotAvailable, bedID, target.Status)
		}

		patient, queued, err := s.resolvePatientLocked(ref)
		if err != nil {
			return err
		}

		bed = s.occupyLocked(target, patient, queued)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bed assigned manually",
		zap.Uint("bed_id", bed.ID),
		zap.String("patient_id", bed.Patient.ID))
	return &bed, nil
}

// Transfer moves the patient of an Occupied bed into an Available bed and
// sends the vacated bed to Cleaning.
func (s *AssignmentService) Transfer(sourceID, targetID uint) (*models.Bed, *models.Bed, error) {
	if sourceID == targetID {
		return nil, nil, ErrInvalidTransfer
	}

	var source, target models.Bed
	err := s.store.Atomic(func() error {
		src, err := s.store.Beds.GetBedByID(sourceID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSourceBedNotOccupied, err)
		}
		if src.Status != models.BedOccupied {
			return fmt.Errorf("%w: bed %d is %s", ErrSourceBedNotOccupied, sourceID, src.Status)
		}
		dst, err := s.store.Beds.GetBedByID(targetID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTargetBedNotAvailable, err)
		}
		if dst.Status != models.BedAvailable {
			return fmt.Errorf("%w: bed %d is %s", ErrTargetBedNotAvailable, targetID, dst.Status)
		}

		dst.Patient = src.Patient
		dst.Status = models.BedOccupied
		src.Patient = nil
		src.Status = models.BedCleaning

		source, target = *src, *dst
		s.broadcaster.BedUpserted(source)
		s.broadcaster.BedUpserted(target)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("patient transferred",
		zap.String("patient_id", target.Patient.ID),
		zap.Uint("source_bed_id", sourceID),
		zap.Uint("target_bed_id", targetID))
	return &source, &target, nil
}

// Discharge releases an Occupied bed to Cleaning and drops the patient
// record. A bed that is not Occupied is returned unchanged.
func (s *AssignmentService) Discharge(bedID uint) (*models.Bed, error) {
	var (
		bed        models.Bed
		discharged string
	)
	err := s.store.Atomic(func() error {
		found, err := s.store.Beds.GetBedByID(bedID)
		if err != nil {
			return err
		}
		if found.Status != models.BedOccupied {
			bed = *found
			return nil
		}

		discharged = found.Patient.ID
		found.Patient = nil
		found.Status = models.BedCleaning
		bed = *found
		s.broadcaster.BedUpserted(bed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if discharged != "" {
		s.logger.Info("patient discharged", zap.Uint("bed_id", bedID), zap.String("patient_id", discharged))
	} else {
		s.logger.Debug("discharge on unoccupied bed ignored", zap.Uint("bed_id", bedID), zap.String("status", string(bed.Status)))
	}
	return &bed, nil
}

// SelectNearest picks the candidate closest to the nursing station, breaking
// ties by lowest bed id. It returns nil for an empty slice.
func SelectNearest(candidates []*models.Bed) *models.Bed {
	var best *models.Bed
	for _, bed := range candidates {
		if best == nil ||
			bed.DistanceFromStation < best.DistanceFromStation ||
			(bed.DistanceFromStation == best.DistanceFromStation && bed.ID < best.ID) {
			best = bed
		}
	}
	return best
}

// resolvePatientLocked finds the patient a ref points at without changing
// anything. queued reports whether it must be taken out of the queue.
func (s *AssignmentService) resolvePatientLocked(ref PatientRef) (patient *models.Patient, queued bool, err error) {
	switch {
	case ref.PatientID != "" && ref.Patient != nil:
		return nil, false, fmt.Errorf("%w: give either a patient id or patient data, not both", ErrInvalidPatient)
	case ref.PatientID != "":
		p, err := s.store.Patients.GetWaiting(ref.PatientID)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s is not waiting", err, ref.PatientID)
		}
		return p, true, nil
	case ref.Patient != nil:
		p, err := s.queue.newPatientLocked(*ref.Patient)
		if err != nil {
			return nil, false, err
		}
		return p, false, nil
	default:
		return nil, false, fmt.Errorf("%w: a patient id or patient data is required", ErrInvalidPatient)
	}
}

// occupyLocked commits an assignment. Every check has passed by now, so
// nothing here can fail.
func (s *AssignmentService) occupyLocked(bed *models.Bed, patient *models.Patient, queued bool) models.Bed {
	if queued {
		_, _ = s.store.Patients.Remove(patient.ID)
	}
	bed.Status = models.BedOccupied
	bed.Patient = patient

	s.broadcaster.BedUpserted(*bed)
	if queued {
		s.queue.broadcastLocked()
	}
	return *bed
}

package repository

import (
	"sort"

	"bedflow/internal/models"
)

// BedRepository is the in-memory bed table. It is not safe for concurrent
// use on its own; callers go through Store.Atomic.
type BedRepository struct {
	beds   map[uint]*models.Bed
	nextID uint
}

func NewBedRepo() *BedRepository {
	return &BedRepository{beds: make(map[uint]*models.Bed)}
}

// CreateBed adds an Available bed with a fresh id. Ids are never handed out twice.
func (r *BedRepository) CreateBed(ward models.Ward, distance float64) *models.Bed {
	r.nextID++
	bed := &models.Bed{
		ID:                  r.nextID,
		Ward:                ward,
		Status:              models.BedAvailable,
		DistanceFromStation: distance,
		Type:                models.TypeForWard(ward),
	}
	r.beds[bed.ID] = bed
	return bed
}

// GetBedByID retrieves a bed by ID
func (r *BedRepository) GetBedByID(id uint) (*models.Bed, error) {
	bed, ok := r.beds[id]
	if !ok {
		return nil, ErrBedNotFound
	}
	return bed, nil
}

// DeleteBed removes a bed by ID
func (r *BedRepository) DeleteBed(id uint) error {
	if _, ok := r.beds[id]; !ok {
		return ErrBedNotFound
	}
	delete(r.beds, id)
	return nil
}

// ListBeds returns the beds passing filter, ordered by id
func (r *BedRepository) ListBeds(filter models.BedFilter) []*models.Bed {
	beds := make([]*models.Bed, 0, len(r.beds))
	for _, bed := range r.beds {
		if filter.Matches(bed) {
			beds = append(beds, bed)
		}
	}
	sort.Slice(beds, func(i, j int) bool { return beds[i].ID < beds[j].ID })
	return beds
}

// AvailableInWard returns Available beds of one ward
func (r *BedRepository) AvailableInWard(ward models.Ward) []*models.Bed {
	return r.ListBeds(models.BedFilter{Status: models.BedAvailable, Ward: ward})
}

// Available returns every Available bed
func (r *BedRepository) Available() []*models.Bed {
	return r.ListBeds(models.BedFilter{Status: models.BedAvailable})
}

// FindByPatient returns the bed holding the given patient
func (r *BedRepository) FindByPatient(patientID string) (*models.Bed, error) {
	for _, bed := range r.beds {
		if bed.Patient != nil && bed.Patient.ID == patientID {
			return bed, nil
		}
	}
	return nil, ErrPatientNotFound
}

func (r *BedRepository) Count() int {
	return len(r.beds)
}

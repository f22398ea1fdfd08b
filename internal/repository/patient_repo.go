package repository

import (
	"bedflow/internal/models"
)

// PatientRepository holds the waiting queue in arrival order.
// Ranking is computed by the queue service, never stored here.
type PatientRepository struct {
	waiting []*models.Patient
	byID    map[string]*models.Patient
}

func NewPatientRepo() *PatientRepository {
	return &PatientRepository{byID: make(map[string]*models.Patient)}
}

// Enqueue appends a patient to the waiting queue
func (r *PatientRepository) Enqueue(p *models.Patient) error {
	if _, exists := r.byID[p.ID]; exists {
		return ErrDuplicatePatient
	}
	r.waiting = append(r.waiting, p)
	r.byID[p.ID] = p
	return nil
}

// Remove takes a patient out of the waiting queue and returns it
func (r *PatientRepository) Remove(id string) (*models.Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	delete(r.byID, id)
	for i, w := range r.waiting {
		if w.ID == id {
			r.waiting = append(r.waiting[:i], r.waiting[i+1:]...)
			break
		}
	}
	return p, nil
}

// GetWaiting retrieves a queued patient by ID
func (r *PatientRepository) GetWaiting(id string) (*models.Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

// Waiting returns the queued patients in arrival order
func (r *PatientRepository) Waiting() []*models.Patient {
	out := make([]*models.Patient, len(r.waiting))
	copy(out, r.waiting)
	return out
}

func (r *PatientRepository) Len() int {
	return len(r.waiting)
}

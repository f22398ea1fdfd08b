package repository

import (
	"errors"
	"sync"
)

var (
	ErrBedNotFound      = errors.New("bed not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDuplicatePatient = errors.New("patient already exists")
)

// Store owns the bed registry and the waiting queue.
// Both sit behind one mutex so a read-select-commit sequence spanning
// beds and patients runs as a single step.
type Store struct {
	mu       sync.Mutex
	Beds     *BedRepository
	Patients *PatientRepository
}

func NewStore() *Store {
	return &Store{
		Beds:     NewBedRepo(),
		Patients: NewPatientRepo(),
	}
}

// Atomic runs fn with exclusive access to both repositories
func (s *Store) Atomic(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

package service

import (
	"errors"

	"bedflow/internal/repository"
)

var (
	ErrBedNotFound           = repository.ErrBedNotFound
	ErrPatientNotFound       = repository.ErrPatientNotFound
	ErrNoBedAvailable        = errors.New("no bed available")
	ErrBedOccupied           = errors.New("cannot remove an occupied bed")
	ErrSourceBedNotOccupied  = errors.New("source bed must be occupied")
	ErrTargetBedNotAvailable = errors.New("target bed must be available")
	ErrInvalidTransfer       = errors.New("source and target bed must differ")
	ErrInvalidTransition     = errors.New("invalid bed status transition")

	ErrInvalidWard     = errors.New("invalid ward")
	ErrInvalidStatus   = errors.New("invalid bed status")
	ErrInvalidDistance = errors.New("distance must be a non-negative number")
	ErrInvalidPatient  = errors.New("invalid patient data")
)

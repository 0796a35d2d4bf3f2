package service

import (
	"errors"
	"fmt"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository"
)

var (
	// ErrValidation marks input the caller must fix before retrying.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
)

var (
	ErrPilgrimNotFound      = repository.ErrPilgrimNotFound
	ErrNationalIDExists     = repository.ErrNationalIDExists
	ErrHallNotFound         = repository.ErrHallNotFound
	ErrBedNotFound          = repository.ErrBedNotFound
	ErrPackageNotFound      = repository.ErrPackageNotFound
	ErrPackageInUse         = repository.ErrPackageInUse
	ErrUnknownReference     = repository.ErrUnknownReference
	ErrCampNotInRitual      = repository.ErrCampNotInRitual
	ErrLookupNotFound       = repository.ErrLookupNotFound
	ErrBusNotFound          = repository.ErrBusNotFound
	ErrEmployeeNotFound     = repository.ErrEmployeeNotFound
	ErrImportNotFound       = repository.ErrImportNotFound
	ErrInsufficientCapacity = domain.ErrInsufficientCapacity
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// classify tags repository errors with ErrValidation or ErrNotFound so the
// HTTP layer can map them without knowing every sentinel.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, ErrPilgrimNotFound),
		errors.Is(err, ErrHallNotFound),
		errors.Is(err, ErrBedNotFound),
		errors.Is(err, ErrPackageNotFound),
		errors.Is(err, ErrLookupNotFound),
		errors.Is(err, ErrBusNotFound),
		errors.Is(err, ErrEmployeeNotFound),
		errors.Is(err, ErrImportNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ErrUnknownReference),
		errors.Is(err, ErrCampNotInRitual),
		errors.Is(err, ErrInsufficientCapacity),
		errors.Is(err, domain.ErrInvalidBedNumber),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrInvalidCapacity):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return err
}

package services

import (
	"errors"
	"fmt"

	"qrcheckin/internal/domain"
)

// storageErr wraps err with op. Domain errors pass through so callers can still match them; anything
// else came from the store and is reported as ErrStorageUnavailable.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrStorageUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
}

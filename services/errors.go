package services

import (
	"errors"

	"impactplanner/apperrors"
)

// storeErr classifies a repository error: not-found and validation pass
// through for the caller to act on, anything else is a store outage.
func storeErr(op string, err error) error {
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		return err
	}
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		return err
	}
	return &apperrors.StoreUnavailableError{Op: op, Err: err}
}

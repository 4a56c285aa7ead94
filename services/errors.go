package services

import (
	"errors"
	"fmt"

	"foodshare-api/repositories"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means another request changed the post between our read and
	// our conditional write.
	ErrConflict     = errors.New("post was updated by someone else, refresh and try again")
	ErrValidation   = errors.New("validation failed")
	ErrAlreadyRated = errors.New("You have already rated this user for this post")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError lifts repository sentinels into service errors
func storeError(what string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, repositories.ErrStatusConflict):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

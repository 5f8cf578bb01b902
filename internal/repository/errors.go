package repository

import (
	"github.com/pkg/errors"

	"inventory-system/internal/apperr"
)

// AsAppError converts a lookup failure into the service error taxonomy.
func AsAppError(err error, entity string, id interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(entity, id)
	}
	return Unexpected(err, "failed to load "+entity)
}

// Unexpected passes typed errors through and wraps everything else.
func Unexpected(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Unexpected(message, err)
}

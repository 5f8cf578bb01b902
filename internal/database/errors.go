package database

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ErrorClass int

const (
	ErrorClassUnknown ErrorClass = iota
	ErrorClassNotFound
	ErrorClassUniqueViolation
	ErrorClassForeignKeyViolation
	ErrorClassSerialization
)

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassUnknown
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorClassNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorClassUniqueViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrorClassForeignKeyViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrorClassUniqueViolation
		case "23503":
			return ErrorClassForeignKeyViolation
		case "40001", "40P01":
			return ErrorClassSerialization
		}
	}

	return ErrorClassUnknown
}

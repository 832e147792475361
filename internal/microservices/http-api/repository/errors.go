package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrCursorNotFound is returned when a pagination cursor names a review that
// no longer exists for the requested movie.
var ErrCursorNotFound = errors.New("cursor not found")

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique constraint,
// either as a raw Postgres error or as gorm's translated sentinel.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate reports a uniqueness violation (duplicate list item,
// duplicate follow edge). Callers translate it into an informational
// response rather than a fatal error.
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound reports a missing row.
var ErrNotFound = errors.New("record not found")

// isUniqueViolation recognises the Postgres unique_violation error code.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

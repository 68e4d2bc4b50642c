package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// DuplicateError reports a write rejected by the unique index on Column.
type DuplicateError struct {
	Column string
}

func (e *DuplicateError) Error() string {
	return e.Column + " already exists"
}

const uniqueViolation = "23505"

// duplicate converts a PostgreSQL unique violation into a DuplicateError
// naming the indexed column.
func duplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	column := pgErr.ConstraintName
	for _, name := range []string{"phone", "email"} {
		if strings.HasSuffix(column, "_"+name) {
			column = name
			break
		}
	}
	return &DuplicateError{Column: column}
}

// notFound converts gorm's sentinel into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "phone")
}

func selectVehicleSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "type", "vehicle_model", "reg_number")
}

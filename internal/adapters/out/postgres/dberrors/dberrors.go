// Package dberrors classifies driver errors raised by the GORM repositories
// and converts them into the application error taxonomy.
//
// Repositories run on gorm with TranslateError enabled, so most constraint
// failures arrive as gorm sentinels. The raw pgconn.PgError is still checked
// for connections opened without translation.
package dberrors

import (
	"errors"

	"stockledger/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	numericOutOfRange   = "22003"
)

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || hasCode(err, uniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || hasCode(err, foreignKeyViolation)
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated) || hasCode(err, checkViolation)
}

// IsOutOfRange reports whether err is a numeric overflow of a column type.
func IsOutOfRange(err error) bool {
	return hasCode(err, numericOutOfRange)
}

// Wrap returns err unchanged when it already belongs to the application
// taxonomy, and a PersistenceError for operation otherwise.
func Wrap(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isDomain(err) {
		return err
	}
	return errs.NewPersistenceError(operation, err)
}

func isDomain(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrObjectAlreadyExists) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, errs.ErrInvalidMovementType) ||
		errors.Is(err, errs.ErrInvalidTransition) ||
		errors.Is(err, errs.ErrInvariantViolation) ||
		errors.Is(err, errs.ErrPersistence)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

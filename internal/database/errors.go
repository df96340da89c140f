package database

import (
	"context"
	"database/sql/driver"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mrlokans/criminaldb/internal/failure"
)

var (
	ErrUnavailable = errors.New("database unavailable")
	ErrNoProvider  = errors.New("no database provider configured")
	ErrDuplicate   = errors.New("duplicate entry")
)

// duplicateError keeps the store's own message while matching ErrDuplicate.
type duplicateError struct {
	cause error
}

func (e *duplicateError) Error() string        { return e.cause.Error() }
func (e *duplicateError) Unwrap() error        { return e.cause }
func (e *duplicateError) Is(target error) bool { return target == ErrDuplicate }

// MySQL server error numbers
const (
	mysqlDuplicateEntry   = 1062
	mysqlBadNull          = 1048
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced0 = 1217
	mysqlNoReferencedRow0 = 1216
)

const (
	pgUniqueViolation          = "23505"
	pgIntegrityConstraintClass = "23"
)

// Classify maps a driver error onto the failure taxonomy. Errors that are
// already classified pass through untouched.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *failure.Error
	if errors.As(err, &classified) {
		return err
	}

	switch {
	case IsUniqueViolation(err):
		return failure.Constraint(op, &duplicateError{cause: err})
	case isConstraintViolation(err):
		return failure.Constraint(op, err)
	case isConnectivity(err):
		return failure.Connectivity(op, err)
	default:
		return failure.Store(op, err)
	}
}

// IsUniqueViolation reports whether err is a unique or primary key violation
// from any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlBadNull, mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced0, mysqlNoReferencedRow0:
			return true
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgIntegrityConstraintClass)
	}
	return false
}

func isConnectivity(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysqldriver.ErrInvalidConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

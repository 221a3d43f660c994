package repositories

import (
	"context"
	"errors"

	"shopserve/internal/core/domain"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL server error numbers surfaced as retryable conflicts
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
	mysqlDuplicateEntry  = 1062
)

// mapError converts driver and gorm errors into domain error kinds.
// Errors that already carry a domain kind pass through unchanged.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKnown(err) {
		return err
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlLockWaitTimeout:
			return domain.NewConflictError("lock wait timeout exceeded", err)
		case mysqlDeadlock:
			return domain.NewConflictError("deadlock detected", err)
		case mysqlDuplicateEntry:
			return domain.NewConflictError("duplicate entry", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewConflictError("operation timed out", err)
	}
	return domain.NewPersistenceError(op, err)
}

// lookupError maps a missing row to NotFoundError and anything else through mapError
func lookupError(op, resource string, id any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(resource, id)
	}
	return mapError(op, err)
}

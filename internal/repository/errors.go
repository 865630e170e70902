package repository

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrGoalsNotFound      = errors.New("goals not found")
	ErrCheckinNotFound    = errors.New("checkin not found")
	ErrPartnerUnavailable = errors.New("partner is no longer available")
)

// Constraint violations are reported differently by SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

func isForeignKeyViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "FOREIGN KEY constraint failed") || strings.Contains(errStr, "violates foreign key constraint")
}

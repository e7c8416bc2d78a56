package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// uniqueViolation returns the violated constraint name when err is a
// Postgres unique-constraint error.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}

func mapUserConflict(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	if strings.Contains(constraint, "email") {
		return ErrDuplicateEmail
	}
	if strings.Contains(constraint, "username") {
		return ErrDuplicateUsername
	}
	return err
}

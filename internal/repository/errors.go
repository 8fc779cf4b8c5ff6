// Package repository provides persistence implementations for the record
// store tables using a PostgreSQL database. Every query is scoped by the
// owning user's login.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when a strict batch insert hits an identifier
// collision. Callers fall back to per-record upserts.
var ErrDuplicate = errors.New("duplicate identifier")

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names the error translation keys off. The slot index is the
// store-level safety net behind the conflict pre-check: a violation there
// means a concurrent request won the slot between check and insert.
const (
	constraintActiveSlot  = "appointments_active_slot_idx"
	constraintServiceName = "services_name_key"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

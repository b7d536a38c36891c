// Package postgres implements the link and click repositories on top of PostgreSQL.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

const (
	uniqueViolationErrCode = "23505"
	// Class 55 is "object not in prerequisite state". An ordered query that
	// cannot be served, e.g. because the supporting index is being rebuilt,
	// surfaces as one of these.
	prerequisiteStateErrClass = "55"
)

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

func isPrerequisiteStateError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && len(pgErr.SQLState()) == 5 && pgErr.SQLState()[:2] == prerequisiteStateErrClass
}

// unavailable wraps a driver failure so callers can tell it apart from business errors.
func unavailable(op, msg string, err error) error {
	return fmt.Errorf("%s: %s: %w: %w", op, msg, entity.ErrStoreUnavailable, err)
}

// listError classifies the failure of a list query.
func listError(op, msg string, ordered bool, err error) error {
	if ordered && isPrerequisiteStateError(err) {
		return fmt.Errorf("%s: %s: %w: %w: %w", op, msg, entity.ErrStoreUnavailable, entity.ErrOrderingUnsupported, err)
	}
	return unavailable(op, msg, err)
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"vehicle-rental-backend/internal/domain"

	"github.com/lib/pq"
)

// classify turns driver errors into rental errors where the database has
// already decided the outcome. Everything else is wrapped with op.
func classify(op string, err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("%s", notFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return domain.NewConflictError("%s: duplicate %s", op, constraintOrTable(pqErr))
		case "foreign_key_violation":
			return domain.NewValidationError("%s: referenced record does not exist", op)
		case "check_violation", "invalid_text_representation", "not_null_violation":
			return domain.NewValidationError("%s: %s", op, pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func constraintOrTable(e *pq.Error) string {
	if e.Constraint != "" {
		return e.Constraint
	}
	return e.Table
}

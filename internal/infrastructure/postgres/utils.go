package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stockfifo-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// translateConcurrency mapea fallos de serialización (40001) y deadlocks (40P01)
// a domain.ErrConcurrentModification para que el caso de uso pueda reintentar.
// Cualquier otro error pasa sin tocar.
func translateConcurrency(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", domain.ErrConcurrentModification, pgErr.Code)
		}
	}
	return err
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

var _ repository.StaffRepository = (*StaffRepo)(nil)

// StaffRepo implementación del puerto StaffRepository sobre PostgreSQL.
type StaffRepo struct {
	q Querier
}

// NewStaffRepository construye el adaptador de persistencia para empleados.
func NewStaffRepository(q Querier) *StaffRepo {
	return &StaffRepo{q: q}
}

// Create persiste un empleado. Email duplicado devuelve domain.ErrEmailAlreadyExists.
func (r *StaffRepo) Create(ctx context.Context, staff *entity.Staff) error {
	query := `
		INSERT INTO staff (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		staff.ID, staff.Name, staff.Email, staff.PasswordHash,
		staff.Role, staff.Status, staff.CreatedAt, staff.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado por ID. Nil sin error si no existe.
func (r *StaffRepo) GetByID(ctx context.Context, id string) (*entity.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM staff WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get staff")
}

// FindByEmail busca un empleado por email (único).
func (r *StaffRepo) FindByEmail(ctx context.Context, email string) (*entity.Staff, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM staff WHERE email = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, email), "find staff by email")
}

func (r *StaffRepo) scanOne(row pgx.Row, op string) (*entity.Staff, error) {
	var s entity.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

package repository

import (
	"context"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// StaffRepository define el puerto de persistencia para empleados.
type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	GetByID(ctx context.Context, id string) (*entity.Staff, error)
	FindByEmail(ctx context.Context, email string) (*entity.Staff, error)
}

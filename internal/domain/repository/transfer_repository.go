package repository

import (
	"context"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para traslados.
// Los traslados son inmutables: no hay Update ni Delete.
type TransferRepository interface {
	// Create persiste el traslado. Devuelve domain.ErrDuplicate si la clave de
	// idempotencia ya existe (índice único), lo que permite al caso de uso
	// resolver la carrera de dos reintentos simultáneos.
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transfer, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Transfer, error)
}

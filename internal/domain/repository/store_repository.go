package repository

import (
	"context"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para tiendas (DIP).
// GetByID devuelve nil sin error cuando la tienda no existe.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para productos del catálogo.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}

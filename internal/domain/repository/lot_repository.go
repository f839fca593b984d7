package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes de inventario.
// Los métodos *ForUpdate bloquean la fila (SELECT FOR UPDATE) y solo tienen
// sentido dentro de una transacción del TxRunner.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.InventoryLot) error
	GetByID(ctx context.Context, id string) (*entity.InventoryLot, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryLot, error)

	// OldestAvailableForUpdate devuelve el lote available con expiración más
	// próxima (desempate por fecha de recepción) de un producto en una tienda,
	// o nil si no hay stock. Equivale a tomar el de mayor urgencia FIFO.
	OldestAvailableForUpdate(ctx context.Context, storeID, itemID string) (*entity.InventoryLot, error)

	// MergeTargetForUpdate busca el lote available de la misma tienda, producto
	// y fecha de expiración (la clave natural de fusión). Nil si no existe.
	MergeTargetForUpdate(ctx context.Context, storeID, itemID string, expiration time.Time) (*entity.InventoryLot, error)

	// UpdateQuantityStatus persiste cantidad, estado, score y updated_at.
	// El resto de campos del lote son inmutables tras la creación.
	UpdateQuantityStatus(ctx context.Context, lot *entity.InventoryLot) error

	ListByStatus(ctx context.Context, storeID string, statuses []string, limit, offset int) ([]*entity.InventoryLot, error)

	// AvailableWithStock devuelve los lotes available con cantidad > 0 de una
	// tienda, ya ordenados por expiración y recepción ascendentes.
	AvailableWithStock(ctx context.Context, storeID string) ([]*entity.InventoryLot, error)
}

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/fifo"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// Primitivas internas del ledger. Son no exportadas a propósito: decrementar
// un lote sin acreditar el destino rompería la conservación de cantidades, así
// que solo el caso de uso de traslado de este paquete puede invocarlas, y
// siempre dentro de la misma transacción.

// decrementForTransfer resta qty del lote (ya bloqueado con FOR UPDATE).
// Si la cantidad llega exactamente a cero el lote pasa a transferred; un lote
// transferred queda lógicamente cerrado y nunca vuelve a ganar cantidad.
func decrementForTransfer(ctx context.Context, lots repository.LotRepository, lot *entity.InventoryLot, qty decimal.Decimal, now time.Time) error {
	if !qty.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: la cantidad a trasladar debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if lot.Quantity.LessThan(qty) {
		return fmt.Errorf("%w: solo %s disponible en el lote %s", domain.ErrInsufficientQuantity, lot.Quantity.String(), lot.BatchNumber)
	}
	lot.Quantity = lot.Quantity.Sub(qty)
	if lot.Quantity.IsZero() {
		lot.Status = entity.LotStatusTransferred
	}
	lot.UpdatedAt = now
	return lots.UpdateQuantityStatus(ctx, lot)
}

// createOrMergeAtDestination acredita qty en la tienda destino. La clave de
// fusión es (tienda, producto, fecha de expiración): dos lotes con la misma
// expiración se asumen fungibles; expiraciones distintas jamás se mezclan.
func createOrMergeAtDestination(ctx context.Context, lots repository.LotRepository, storeID, itemID string, qty decimal.Decimal, expiration time.Time, batchNumber string, now time.Time) (*entity.InventoryLot, error) {
	existing, err := lots.MergeTargetForUpdate(ctx, storeID, itemID, expiration)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity = existing.Quantity.Add(qty)
		existing.PriorityScore = fifo.Score(expiration, now)
		existing.UpdatedAt = now
		if err := lots.UpdateQuantityStatus(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	lot := &entity.InventoryLot{
		ID:             uuid.New().String(),
		StoreID:        storeID,
		ItemID:         itemID,
		Quantity:       qty,
		ExpirationDate: expiration,
		ReceivedDate:   now,
		BatchNumber:    batchNumber, // el lote hijo conserva la identidad del batch de origen
		Status:         entity.LotStatusAvailable,
		PriorityScore:  fifo.Score(expiration, now),
		UpdatedAt:      now,
	}
	if err := lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

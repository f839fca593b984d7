package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// SellUseCase marca un lote como vendido. La venta fuerza la cantidad a cero
// sin importar la cantidad previa y deja el lote en estado terminal.
type SellUseCase struct {
	txRunner  TxRunner
	lotRepo   repository.LotRepository // lectura fuera de tx, para validar antes de mutar
	storeRepo repository.StoreRepository
}

// NewSellUseCase construye el caso de uso.
func NewSellUseCase(txRunner TxRunner, lotRepo repository.LotRepository, storeRepo repository.StoreRepository) *SellUseCase {
	return &SellUseCase{txRunner: txRunner, lotRepo: lotRepo, storeRepo: storeRepo}
}

// MarkSold valida tienda y transiciones, y dentro de la transacción relee el
// lote con bloqueo de fila antes de aplicar el cambio (la validación previa
// puede haber quedado obsoleta por un escritor concurrente).
func (uc *SellUseCase) MarkSold(ctx context.Context, lotID, soldBy string) (*entity.InventoryLot, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
	}
	store, err := uc.storeRepo.GetByID(ctx, lot.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, lot.StoreID)
	}
	if !store.CanSell() {
		return nil, fmt.Errorf("%w: la tienda %q no registra ventas (capacidad %s)", domain.ErrInvalidInput, store.Name, store.Capability)
	}

	var sold *entity.InventoryLot
	err = uc.txRunner.Run(ctx, func(
		lots repository.LotRepository,
		_ repository.TransferRepository,
		activity repository.ActivityLogRepository,
	) error {
		current, err := lots.GetByIDForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
		}
		if current.Status == entity.LotStatusSold {
			return fmt.Errorf("%w: el lote ya está vendido", domain.ErrInvalidStatusTransition)
		}
		if current.Status == entity.LotStatusTransferred && current.Quantity.IsZero() {
			return fmt.Errorf("%w: el lote fue drenado por traslado", domain.ErrInvalidStatusTransition)
		}

		now := time.Now()
		before := current.Quantity
		current.Quantity = decimal.Zero
		current.Status = entity.LotStatusSold
		current.UpdatedAt = now
		if err := lots.UpdateQuantityStatus(ctx, current); err != nil {
			return err
		}

		detail, _ := json.Marshal(struct {
			SoldBy      string `json:"sold_by,omitempty"`
			BatchNumber string `json:"batch_number"`
		}{soldBy, current.BatchNumber})
		if err := activity.Create(ctx, &entity.ActivityLogEntry{
			ID:             uuid.New().String(),
			LotID:          &current.ID,
			StoreID:        current.StoreID,
			ActionType:     entity.ActionSold,
			QuantityBefore: before,
			QuantityAfter:  decimal.Zero,
			Detail:         detail,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		sold = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sold, nil
}

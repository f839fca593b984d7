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
	"github.com/jhoicas/stockfifo-api/internal/domain/fifo"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// ReceiveUseCase registra la entrada de mercancía: crea el lote y su entrada
// de auditoría de forma transaccional. Es la única vía de creación de lotes
// junto con la fusión en destino de un traslado.
type ReceiveUseCase struct {
	txRunner  TxRunner
	storeRepo repository.StoreRepository
	itemRepo  repository.ItemRepository
	batchGen  BatchNumberGenerator
}

// NewReceiveUseCase construye el caso de uso.
func NewReceiveUseCase(txRunner TxRunner, storeRepo repository.StoreRepository, itemRepo repository.ItemRepository, batchGen BatchNumberGenerator) *ReceiveUseCase {
	return &ReceiveUseCase{txRunner: txRunner, storeRepo: storeRepo, itemRepo: itemRepo, batchGen: batchGen}
}

// ReceiveInput entrada para la recepción.
type ReceiveInput struct {
	StoreID        string
	ItemID         string
	Quantity       decimal.Decimal
	ExpirationDate time.Time
	BatchNumber    string // opcional; se genera si está vacío
	ReceivedBy     string // Staff.ID del empleado autenticado
}

// Receive valida contra el catálogo, crea el lote con estado available y score
// recién calculado, y emite la entrada `received` con cantidad previa cero.
func (uc *ReceiveUseCase) Receive(ctx context.Context, in ReceiveInput) (*entity.InventoryLot, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.ExpirationDate.IsZero() {
		return nil, fmt.Errorf("%w: la fecha de expiración es obligatoria", domain.ErrInvalidInput)
	}

	store, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.StoreID)
	}
	if !store.CanReceive() {
		return nil, fmt.Errorf("%w: la tienda %q no recibe mercancía (capacidad %s)", domain.ErrInvalidInput, store.Name, store.Capability)
	}
	item, err := uc.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ItemID)
	}

	now := time.Now()
	batchNumber := in.BatchNumber
	if batchNumber == "" {
		batchNumber = uc.batchGen.Next()
	}

	lot := &entity.InventoryLot{
		ID:             uuid.New().String(),
		StoreID:        in.StoreID,
		ItemID:         in.ItemID,
		Quantity:       in.Quantity,
		ExpirationDate: in.ExpirationDate,
		ReceivedDate:   now,
		BatchNumber:    batchNumber,
		Status:         entity.LotStatusAvailable,
		PriorityScore:  fifo.Score(in.ExpirationDate, now),
		UpdatedAt:      now,
	}

	err = uc.txRunner.Run(ctx, func(
		lots repository.LotRepository,
		_ repository.TransferRepository,
		activity repository.ActivityLogRepository,
	) error {
		if err := lots.Create(ctx, lot); err != nil {
			return err
		}
		detail, _ := json.Marshal(struct {
			BatchNumber string `json:"batch_number"`
			ReceivedBy  string `json:"received_by,omitempty"`
		}{batchNumber, in.ReceivedBy})
		return activity.Create(ctx, &entity.ActivityLogEntry{
			ID:             uuid.New().String(),
			LotID:          &lot.ID,
			StoreID:        in.StoreID,
			ActionType:     entity.ActionReceived,
			QuantityBefore: decimal.Zero,
			QuantityAfter:  in.Quantity,
			Detail:         detail,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

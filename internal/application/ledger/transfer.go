package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// maxTransferAttempts reintentos automáticos ante conflicto de concurrencia
// (serialización o deadlock) antes de devolver el error al llamador.
const maxTransferAttempts = 3

// TransferUseCase es el único componente que mueve cantidad entre tiendas.
// Los cuatro efectos de un traslado (decremento en origen, alta o fusión en
// destino, registro del traslado y auditoría) se ejecutan en UNA transacción:
// una aplicación parcial es un bug de correctitud, no un modo degradado.
type TransferUseCase struct {
	txRunner     TxRunner
	storeRepo    repository.StoreRepository
	itemRepo     repository.ItemRepository
	staffRepo    repository.StaffRepository
	transferRepo repository.TransferRepository // lectura fuera de tx, para deduplicar reintentos
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	storeRepo repository.StoreRepository,
	itemRepo repository.ItemRepository,
	staffRepo repository.StaffRepository,
	transferRepo repository.TransferRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		storeRepo:    storeRepo,
		itemRepo:     itemRepo,
		staffRepo:    staffRepo,
		transferRepo: transferRepo,
	}
}

// TransferInput entrada para un traslado. El lote de origen no se acepta del
// llamador: siempre se toma el de expiración más próxima (selección FIFO).
type TransferInput struct {
	ItemID         string
	FromStoreID    string
	ToStoreID      string
	Quantity       decimal.Decimal
	PerformedBy    string
	Notes          string
	IdempotencyKey string // opcional; clave generada por el cliente para reintentos
}

// Transfer valida, deduplica por clave de idempotencia y ejecuta el traslado
// atómico, con reintento acotado ante ErrConcurrentModification.
func (uc *TransferUseCase) Transfer(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.FromStoreID == in.ToStoreID {
		return nil, domain.ErrSameStoreTransfer
	}

	from, err := uc.storeRepo.GetByID(ctx, in.FromStoreID)
	if err != nil {
		return nil, err
	}
	to, err := uc.storeRepo.GetByID(ctx, in.ToStoreID)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: tienda de origen o destino", domain.ErrNotFound)
	}
	item, err := uc.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ItemID)
	}
	staff, err := uc.staffRepo.GetByID(ctx, in.PerformedBy)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStaffNotFound, in.PerformedBy)
	}

	// Reintento de cliente: si la clave ya produjo un traslado, devolverlo
	// sin aplicar ningún efecto nuevo.
	if in.IdempotencyKey != "" {
		existing, err := uc.transferRepo.GetByIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxTransferAttempts; attempt++ {
		transfer, err := uc.runOnce(ctx, in)
		if err == nil {
			return transfer, nil
		}
		// Dos reintentos simultáneos con la misma clave: el perdedor choca con
		// el índice único; el traslado ya existe, devolverlo.
		if errors.Is(err, domain.ErrDuplicate) && in.IdempotencyKey != "" {
			return uc.transferRepo.GetByIdempotencyKey(ctx, in.IdempotencyKey)
		}
		if !errors.Is(err, domain.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// runOnce ejecuta un intento del traslado dentro de una transacción.
func (uc *TransferUseCase) runOnce(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	var transfer *entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		lots repository.LotRepository,
		transfers repository.TransferRepository,
		activity repository.ActivityLogRepository,
	) error {
		// Selección FIFO: el lote available con expiración más próxima,
		// bloqueado para que ningún otro traslado lo drene en paralelo.
		source, err := lots.OldestAvailableForUpdate(ctx, in.FromStoreID, in.ItemID)
		if err != nil {
			return err
		}
		if source == nil {
			return fmt.Errorf("%w: sin stock del producto en la tienda de origen", domain.ErrInsufficientQuantity)
		}

		now := time.Now()
		before := source.Quantity
		if err := decrementForTransfer(ctx, lots, source, in.Quantity, now); err != nil {
			return err
		}
		dest, err := createOrMergeAtDestination(ctx, lots, in.ToStoreID, in.ItemID, in.Quantity, source.ExpirationDate, source.BatchNumber, now)
		if err != nil {
			return err
		}

		transfer = &entity.Transfer{
			ID:             uuid.New().String(),
			SourceLotID:    source.ID,
			ItemID:         in.ItemID,
			FromStoreID:    in.FromStoreID,
			ToStoreID:      in.ToStoreID,
			Quantity:       in.Quantity,
			PerformedBy:    in.PerformedBy,
			Notes:          in.Notes,
			IdempotencyKey: in.IdempotencyKey,
			Status:         entity.TransferStatusCompleted,
			CreatedAt:      now,
		}
		if err := transfers.Create(ctx, transfer); err != nil {
			return err
		}

		detail, _ := json.Marshal(struct {
			TransferID       string `json:"transfer_id"`
			ToStoreID        string `json:"to_store_id"`
			DestinationLotID string `json:"destination_lot_id"`
			Quantity         string `json:"quantity"`
		}{transfer.ID, in.ToStoreID, dest.ID, in.Quantity.String()})
		return activity.Create(ctx, &entity.ActivityLogEntry{
			ID:             uuid.New().String(),
			LotID:          &source.ID,
			StoreID:        in.FromStoreID,
			ActionType:     entity.ActionTransferred,
			QuantityBefore: before,
			QuantityAfter:  source.Quantity,
			Detail:         detail,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

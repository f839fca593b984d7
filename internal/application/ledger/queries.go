package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stockfifo-api/internal/application/dto"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/fifo"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// QueryUseCase proyecciones de solo lectura sobre el ledger: listados, la
// recomendación FIFO y el feed de actividad. No bloquea escritores; puede ver
// un snapshot ligeramente desactualizado, aceptable porque el ranking es
// consultivo, no una reserva de stock.
type QueryUseCase struct {
	lotRepo      repository.LotRepository
	activityRepo repository.ActivityLogRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(lotRepo repository.LotRepository, activityRepo repository.ActivityLogRepository) *QueryUseCase {
	return &QueryUseCase{lotRepo: lotRepo, activityRepo: activityRepo}
}

// ListActive lista lotes en estado available. storeID vacío = todas las tiendas.
func (uc *QueryUseCase) ListActive(ctx context.Context, storeID string, page dto.PageRequest) ([]dto.LotResponse, error) {
	page.DefaultPage()
	lots, err := uc.lotRepo.ListByStatus(ctx, storeID, []string{entity.LotStatusAvailable}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toLotResponses(lots, time.Now()), nil
}

// ListArchived lista lotes cerrados (transferred o sold).
func (uc *QueryUseCase) ListArchived(ctx context.Context, storeID string, page dto.PageRequest) ([]dto.LotResponse, error) {
	page.DefaultPage()
	lots, err := uc.lotRepo.ListByStatus(ctx, storeID, []string{entity.LotStatusTransferred, entity.LotStatusSold}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toLotResponses(lots, time.Now()), nil
}

// RecommendFifoOrder devuelve los lotes available con stock de una tienda en
// orden de urgencia: score descendente, luego expiración ascendente, luego
// recepción ascendente. El score se recalcula al momento de la consulta; el
// valor persistido es solo cache de presentación. Cada llamada es una consulta
// fresca, no hay cursor entre llamadas.
func (uc *QueryUseCase) RecommendFifoOrder(ctx context.Context, storeID string) ([]dto.LotResponse, error) {
	lots, err := uc.lotRepo.AvailableWithStock(ctx, storeID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sort.SliceStable(lots, func(i, j int) bool {
		si := fifo.Score(lots[i].ExpirationDate, now)
		sj := fifo.Score(lots[j].ExpirationDate, now)
		if si != sj {
			return si > sj
		}
		if !lots[i].ExpirationDate.Equal(lots[j].ExpirationDate) {
			return lots[i].ExpirationDate.Before(lots[j].ExpirationDate)
		}
		return lots[i].ReceivedDate.Before(lots[j].ReceivedDate)
	})
	return toLotResponses(lots, now), nil
}

// RecentActivity devuelve el feed de auditoría, más reciente primero.
// limit <= 0 quita el tope (conciliación/exportación); since permite a la UI
// pedir solo lo posterior a la última entrada vista (lectura por polling).
func (uc *QueryUseCase) RecentActivity(ctx context.Context, storeID string, limit int, since *time.Time) ([]dto.ActivityResponse, error) {
	entries, err := uc.activityRepo.ListRecent(ctx, storeID, limit, since)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ActivityResponse{
			ID:             e.ID,
			LotID:          e.LotID,
			StoreID:        e.StoreID,
			ActionType:     e.ActionType,
			QuantityBefore: e.QuantityBefore,
			QuantityAfter:  e.QuantityAfter,
			Detail:         e.Detail,
			CreatedAt:      e.CreatedAt,
		})
	}
	return out, nil
}

// ToLotResponse mapea un lote a su DTO recalculando urgencia a la fecha dada.
func ToLotResponse(lot *entity.InventoryLot, asOf time.Time) dto.LotResponse {
	return dto.LotResponse{
		ID:              lot.ID,
		StoreID:         lot.StoreID,
		ItemID:          lot.ItemID,
		Quantity:        lot.Quantity,
		ExpirationDate:  lot.ExpirationDate.Format("2006-01-02"),
		ReceivedDate:    lot.ReceivedDate,
		BatchNumber:     lot.BatchNumber,
		Status:          lot.Status,
		PriorityScore:   fifo.Score(lot.ExpirationDate, asOf),
		DaysUntilExpiry: fifo.DaysUntilExpiry(lot.ExpirationDate, asOf),
	}
}

// ToTransferResponse mapea un traslado a su DTO.
func ToTransferResponse(t *entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:          t.ID,
		SourceLotID: t.SourceLotID,
		ItemID:      t.ItemID,
		FromStoreID: t.FromStoreID,
		ToStoreID:   t.ToStoreID,
		Quantity:    t.Quantity,
		PerformedBy: t.PerformedBy,
		Notes:       t.Notes,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

func toLotResponses(lots []*entity.InventoryLot, asOf time.Time) []dto.LotResponse {
	out := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, ToLotResponse(lot, asOf))
	}
	return out
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, store_id, item_id, quantity, expiration_date, received_date,
		batch_number, status, priority_score, updated_at`

// Create persiste un lote nuevo.
func (r *LotRepo) Create(ctx context.Context, lot *entity.InventoryLot) error {
	query := `
		INSERT INTO inventory_lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.StoreID, lot.ItemID, lot.Quantity, lot.ExpirationDate,
		lot.ReceivedDate, lot.BatchNumber, lot.Status, lot.PriorityScore, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Nil sin error si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get lot")
}

// GetByIDForUpdate obtiene un lote por ID bloqueando la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get lot for update")
}

// OldestAvailableForUpdate devuelve el lote available con expiración más
// próxima (desempate por recepción) de un producto en una tienda, bloqueado.
// Este orden equivale al de mayor urgencia FIFO.
func (r *LotRepo) OldestAvailableForUpdate(ctx context.Context, storeID, itemID string) (*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE store_id = $1 AND item_id = $2 AND status = 'available' AND quantity > 0
		ORDER BY expiration_date ASC, received_date ASC
		LIMIT 1
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, storeID, itemID), "oldest available lot")
}

// MergeTargetForUpdate busca el lote available de misma tienda, producto y
// fecha de expiración (la clave natural de fusión), bloqueado. Nil si no hay.
func (r *LotRepo) MergeTargetForUpdate(ctx context.Context, storeID, itemID string, expiration time.Time) (*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE store_id = $1 AND item_id = $2 AND status = 'available' AND expiration_date = $3
		ORDER BY received_date ASC
		LIMIT 1
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, storeID, itemID, expiration), "merge target lot")
}

// UpdateQuantityStatus persiste cantidad, estado, score y updated_at.
func (r *LotRepo) UpdateQuantityStatus(ctx context.Context, lot *entity.InventoryLot) error {
	query := `
		UPDATE inventory_lots
		SET quantity = $2, status = $3, priority_score = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, lot.ID, lot.Quantity, lot.Status, lot.PriorityScore, lot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update lot %s: fila no encontrada", lot.ID)
	}
	return nil
}

// ListByStatus lista lotes por estados, opcionalmente filtrando por tienda.
func (r *LotRepo) ListByStatus(ctx context.Context, storeID string, statuses []string, limit, offset int) ([]*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE status = ANY($1) AND ($2 = '' OR store_id = $2)
		ORDER BY expiration_date ASC, received_date ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, statuses, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return r.scanAll(rows)
}

// AvailableWithStock devuelve los lotes available con cantidad > 0 de una
// tienda, ordenados por expiración y recepción ascendentes.
func (r *LotRepo) AvailableWithStock(ctx context.Context, storeID string) ([]*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE store_id = $1 AND status = 'available' AND quantity > 0
		ORDER BY expiration_date ASC, received_date ASC`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list available lots: %w", err)
	}
	return r.scanAll(rows)
}

func (r *LotRepo) scanOne(row pgx.Row, op string) (*entity.InventoryLot, error) {
	var l entity.InventoryLot
	err := row.Scan(
		&l.ID, &l.StoreID, &l.ItemID, &l.Quantity, &l.ExpirationDate,
		&l.ReceivedDate, &l.BatchNumber, &l.Status, &l.PriorityScore, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}

func (r *LotRepo) scanAll(rows pgx.Rows) ([]*entity.InventoryLot, error) {
	defer rows.Close()
	var list []*entity.InventoryLot
	for rows.Next() {
		var l entity.InventoryLot
		if err := rows.Scan(
			&l.ID, &l.StoreID, &l.ItemID, &l.Quantity, &l.ExpirationDate,
			&l.ReceivedDate, &l.BatchNumber, &l.Status, &l.PriorityScore, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

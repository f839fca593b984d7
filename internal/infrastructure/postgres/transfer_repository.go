package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, source_lot_id, item_id, from_store_id, to_store_id,
		quantity, performed_by, notes, idempotency_key, status, created_at`

// Create persiste el traslado. La clave de idempotencia tiene índice único
// parcial; una colisión se devuelve como domain.ErrDuplicate.
func (r *TransferRepo) Create(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11)`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.SourceLotID, transfer.ItemID, transfer.FromStoreID,
		transfer.ToStoreID, transfer.Quantity, transfer.PerformedBy, transfer.Notes,
		transfer.IdempotencyKey, transfer.Status, transfer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID. Nil sin error si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get transfer")
}

// GetByIdempotencyKey busca el traslado creado con una clave de idempotencia.
func (r *TransferRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE idempotency_key = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, key), "get transfer by key")
}

// ListByStore lista traslados donde la tienda es origen o destino, más reciente primero.
func (r *TransferRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE from_store_id = $1 OR to_store_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		var key *string
		if err := rows.Scan(
			&t.ID, &t.SourceLotID, &t.ItemID, &t.FromStoreID, &t.ToStoreID,
			&t.Quantity, &t.PerformedBy, &t.Notes, &key, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		if key != nil {
			t.IdempotencyKey = *key
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *TransferRepo) scanOne(row pgx.Row, op string) (*entity.Transfer, error) {
	var t entity.Transfer
	var key *string
	err := row.Scan(
		&t.ID, &t.SourceLotID, &t.ItemID, &t.FromStoreID, &t.ToStoreID,
		&t.Quantity, &t.PerformedBy, &t.Notes, &key, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if key != nil {
		t.IdempotencyKey = *key
	}
	return &t, nil
}

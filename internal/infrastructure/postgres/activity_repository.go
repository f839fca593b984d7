package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementación de ActivityLogRepository sobre PostgreSQL.
// La tabla es append-only: este adaptador no expone UPDATE ni DELETE.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create persiste una entrada de actividad.
func (r *ActivityLogRepo) Create(ctx context.Context, entry *entity.ActivityLogEntry) error {
	query := `
		INSERT INTO activity_log (id, lot_id, store_id, action_type, quantity_before, quantity_after, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.LotID, entry.StoreID, entry.ActionType,
		entry.QuantityBefore, entry.QuantityAfter, entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListRecent devuelve entradas ordenadas por timestamp descendente.
// storeID vacío = todas; limit <= 0 = sin tope; since filtra entradas posteriores.
func (r *ActivityLogRepo) ListRecent(ctx context.Context, storeID string, limit int, since *time.Time) ([]*entity.ActivityLogEntry, error) {
	query := `
		SELECT id, lot_id, store_id, action_type, quantity_before, quantity_after, detail, created_at
		FROM activity_log
		WHERE ($1 = '' OR store_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at > $2)
		ORDER BY created_at DESC, id DESC`
	args := []any{storeID, since}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLogEntry
	for rows.Next() {
		var e entity.ActivityLogEntry
		if err := rows.Scan(
			&e.ID, &e.LotID, &e.StoreID, &e.ActionType,
			&e.QuantityBefore, &e.QuantityAfter, &e.Detail, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

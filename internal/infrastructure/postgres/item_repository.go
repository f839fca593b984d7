package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para productos.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, brand, category, color_code, barcode, created_at, updated_at`

// Create persiste un producto nuevo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Brand, item.Category, item.ColorCode,
		item.Barcode, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Nil sin error si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get item")
}

// GetByBarcode busca un producto por código de barras.
func (r *ItemRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE barcode = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, barcode), "get item by barcode")
}

// Update actualiza un producto existente.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, brand = $3, category = $4, color_code = $5, barcode = NULLIF($6, ''), updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Brand, item.Category, item.ColorCode, item.Barcode, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List lista productos con paginación.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var i entity.Item
		var barcode *string
		if err := rows.Scan(&i.ID, &i.Name, &i.Brand, &i.Category, &i.ColorCode, &barcode, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if barcode != nil {
			i.Barcode = *barcode
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.Item, error) {
	var i entity.Item
	var barcode *string
	err := row.Scan(&i.ID, &i.Name, &i.Brand, &i.Category, &i.ColorCode, &barcode, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if barcode != nil {
		i.Barcode = *barcode
	}
	return &i, nil
}

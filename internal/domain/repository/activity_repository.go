package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// ActivityLogRepository define el puerto del registro de actividad.
// Append-only: no existe actualización ni borrado.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *entity.ActivityLogEntry) error

	// ListRecent devuelve entradas ordenadas por timestamp descendente.
	// storeID vacío = todas las tiendas; limit <= 0 = sin tope (conciliación
	// y exportación); since filtra entradas posteriores, para polling de la UI.
	ListRecent(ctx context.Context, storeID string, limit int, since *time.Time) ([]*entity.ActivityLogEntry, error)
}

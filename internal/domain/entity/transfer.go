package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatusCompleted es el único estado terminal modelado: los traslados
// son síncronos e inmediatos, no existe un flujo de aprobación ni cancelación.
const TransferStatusCompleted = "completed"

// Transfer es el registro inmutable de un movimiento completado entre tiendas.
type Transfer struct {
	ID             string
	SourceLotID    string
	ItemID         string
	FromStoreID    string
	ToStoreID      string
	Quantity       decimal.Decimal
	PerformedBy    string // Staff.ID
	Notes          string
	IdempotencyKey string // clave del cliente para deduplicar reintentos; vacía si no se envió
	Status         string
	CreatedAt      time.Time
}

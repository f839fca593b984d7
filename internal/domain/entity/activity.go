package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de acción del registro de actividad.
const (
	ActionReceived    = "received"
	ActionTransferred = "transferred"
	ActionSold        = "sold"
)

// ActivityLogEntry es una fila inmutable de auditoría. Cada mutación del ledger
// produce exactamente una entrada; nunca se actualizan ni se borran.
type ActivityLogEntry struct {
	ID             string
	LotID          *string // nulo para eventos a nivel de tienda
	StoreID        string
	ActionType     string // received | transferred | sold
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Detail         json.RawMessage // payload estructurado (ej. tienda destino en traslados)
	CreatedAt      time.Time
}

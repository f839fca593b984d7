package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveRequest entrada para recibir mercancía en una tienda.
// ExpirationDate viaja como "2006-01-02"; el handler la parsea.
type ReceiveRequest struct {
	StoreID        string          `json:"store_id" validate:"required,uuid4"`
	ItemID         string          `json:"item_id" validate:"required,uuid4"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate string          `json:"expiration_date" validate:"required"`
	BatchNumber    string          `json:"batch_number" validate:"max=64"` // opcional; se genera si falta
}

// TransferRequest entrada para trasladar stock entre tiendas.
// El lote de origen NUNCA lo elige el cliente: el ledger toma el de expiración
// más próxima. IdempotencyKey permite reintentar sin duplicar el movimiento.
type TransferRequest struct {
	ItemID         string          `json:"item_id" validate:"required,uuid4"`
	FromStoreID    string          `json:"from_store_id" validate:"required,uuid4"`
	ToStoreID      string          `json:"to_store_id" validate:"required,uuid4"`
	Quantity       decimal.Decimal `json:"quantity"`
	Notes          string          `json:"notes" validate:"max=500"`
	IdempotencyKey string          `json:"idempotency_key" validate:"max=128"`
}

// LotResponse salida de un lote. PriorityScore y DaysUntilExpiry se recalculan
// al momento de la consulta; el valor almacenado es solo cache.
type LotResponse struct {
	ID              string          `json:"id"`
	StoreID         string          `json:"store_id"`
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpirationDate  string          `json:"expiration_date"` // "2006-01-02"
	ReceivedDate    time.Time       `json:"received_date"`
	BatchNumber     string          `json:"batch_number"`
	Status          string          `json:"status"`
	PriorityScore   int             `json:"priority_score"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
}

// LotListResponse lista paginada de lotes.
type LotListResponse struct {
	Items []LotResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// TransferResponse salida de un traslado completado.
type TransferResponse struct {
	ID          string          `json:"id"`
	SourceLotID string          `json:"source_lot_id"`
	ItemID      string          `json:"item_id"`
	FromStoreID string          `json:"from_store_id"`
	ToStoreID   string          `json:"to_store_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	PerformedBy string          `json:"performed_by"`
	Notes       string          `json:"notes,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ActivityResponse una entrada del feed de actividad.
type ActivityResponse struct {
	ID             string          `json:"id"`
	LotID          *string         `json:"lot_id,omitempty"`
	StoreID        string          `json:"store_id"`
	ActionType     string          `json:"action_type"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Detail         json.RawMessage `json:"detail,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

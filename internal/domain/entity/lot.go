package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote. available es el único estado con cantidad mutable;
// transferred se alcanza solo cuando un traslado drena el lote a cero;
// sold es terminal.
const (
	LotStatusAvailable   = "available"
	LotStatusTransferred = "transferred"
	LotStatusSold        = "sold"
)

// InventoryLot representa una cantidad de un producto, en una tienda, con una
// misma fecha de expiración y lote de recepción. Es la única entidad mutable
// del ledger y solo los casos de uso del paquete ledger la modifican.
type InventoryLot struct {
	ID             string
	StoreID        string
	ItemID         string
	Quantity       decimal.Decimal // nunca negativa
	ExpirationDate time.Time       // fecha (sin hora)
	ReceivedDate   time.Time       // fijada al crear, nunca se muta
	BatchNumber    string
	Status         string // available | transferred | sold
	PriorityScore  int    // cache recalculable de fifo.Score; no es autoritativo
	UpdatedAt      time.Time
}

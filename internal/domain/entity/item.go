package entity

import "time"

// Item representa un producto del catálogo (referencia de solo lectura para el ledger).
// Las cantidades viven en InventoryLot, nunca aquí.
type Item struct {
	ID        string
	Name      string
	Brand     string
	Category  string
	ColorCode string // color para la UI (ej. "#F4A261")
	Barcode   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

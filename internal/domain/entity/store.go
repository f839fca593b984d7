package entity

import "time"

// Capacidades de una tienda frente al inventario.
const (
	CapabilityReceiveOnly = "receive-only" // solo recibe mercancía
	CapabilitySellOnly    = "sell-only"    // solo vende; se surte únicamente por traslado
	CapabilityBoth        = "both"
)

// Store representa una tienda o punto del negocio donde se guarda inventario.
type Store struct {
	ID         string
	Name       string
	Location   string
	Capability string // receive-only, sell-only, both
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanReceive indica si la tienda puede recibir mercancía de proveedor.
// No aplica a destinos de traslado: una tienda sell-only se surte por traslado.
func (s *Store) CanReceive() bool {
	return s.Capability == CapabilityReceiveOnly || s.Capability == CapabilityBoth
}

// CanSell indica si la tienda puede registrar ventas.
func (s *Store) CanSell() bool {
	return s.Capability == CapabilitySellOnly || s.Capability == CapabilityBoth
}

// ValidCapability valida que la capacidad pertenezca al conjunto cerrado.
func ValidCapability(c string) bool {
	switch c {
	case CapabilityReceiveOnly, CapabilitySellOnly, CapabilityBoth:
		return true
	}
	return false
}

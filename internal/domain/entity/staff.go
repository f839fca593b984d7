package entity

import "time"

// Roles de empleado.
const (
	RoleAdmin     = "admin"
	RoleEncargado = "encargado" // encargado de tienda: recibe, traslada y vende
	RoleVendedor  = "vendedor"  // solo consulta y vende
)

// Staff representa un empleado que opera el inventario.
type Staff struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string // admin | encargado | vendedor
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

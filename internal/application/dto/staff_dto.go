package dto

import "time"

// RegisterRequest entrada para registrar un empleado.
type RegisterRequest struct {
	Name     string `json:"name" validate:"max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin encargado vendedor"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StaffResponse salida de un empleado (nunca incluye el hash).
type StaffResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token más datos del empleado autenticado.
type LoginResponse struct {
	Token string        `json:"token"`
	Staff StaffResponse `json:"staff"`
}

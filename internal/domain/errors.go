package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrStaffNotFound           = errors.New("empleado no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInsufficientQuantity    = errors.New("cantidad insuficiente en el lote")
	ErrSameStoreTransfer       = errors.New("la tienda de origen y destino son la misma")
	ErrInvalidStatusTransition = errors.New("transición de estado inválida para el lote")
	ErrConcurrentModification  = errors.New("modificación concurrente detectada, reintente")
)

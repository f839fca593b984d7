package dto

import "time"

// CreateStoreRequest entrada para crear una tienda.
type CreateStoreRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Location   string `json:"location" validate:"max=300"`
	Capability string `json:"capability" validate:"required,oneof=receive-only sell-only both"`
}

// UpdateStoreRequest entrada para actualizar una tienda.
type UpdateStoreRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location   *string `json:"location" validate:"omitempty,max=300"`
	Capability *string `json:"capability" validate:"omitempty,oneof=receive-only sell-only both"`
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Capability string    `json:"capability"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StoreListResponse lista paginada de tiendas.
type StoreListResponse struct {
	Items []StoreResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CreateItemRequest entrada para crear un producto del catálogo.
type CreateItemRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Brand     string `json:"brand" validate:"max=120"`
	Category  string `json:"category" validate:"max=120"`
	ColorCode string `json:"color_code" validate:"omitempty,hexcolor"`
	Barcode   string `json:"barcode" validate:"max=64"`
}

// UpdateItemRequest entrada para actualizar un producto.
type UpdateItemRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Brand     *string `json:"brand" validate:"omitempty,max=120"`
	Category  *string `json:"category" validate:"omitempty,max=120"`
	ColorCode *string `json:"color_code" validate:"omitempty,hexcolor"`
	Barcode   *string `json:"barcode" validate:"omitempty,max=64"`
}

// ItemResponse salida de un producto.
type ItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Category  string    `json:"category"`
	ColorCode string    `json:"color_code"`
	Barcode   string    `json:"barcode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de productos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

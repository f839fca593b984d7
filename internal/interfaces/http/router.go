package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockfifo-api/internal/application/auth"
	"github.com/jhoicas/stockfifo-api/internal/application/ledger"
	"github.com/jhoicas/stockfifo-api/internal/application/usecase"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StoreUC    *usecase.StoreUseCase
	ItemUC     *usecase.ItemUseCase
	ReceiveUC  *ledger.ReceiveUseCase
	TransferUC *ledger.TransferUseCase
	SellUC     *ledger.SellUseCase
	QueryUC    *ledger.QueryUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
// Reglas de rol: mover mercancía (recibir, trasladar) exige admin o encargado;
// vender y consultar está abierto a cualquier empleado autenticado; la
// administración del catálogo es de admin (el encargado puede crear productos).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	manageStock := RequireRole(entity.RoleAdmin, entity.RoleEncargado)

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", RequireRole(entity.RoleAdmin), storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id", RequireRole(entity.RoleAdmin), storeHandler.Update)

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", manageStock, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/barcode/:code", itemHandler.GetByBarcode)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", manageStock, itemHandler.Update)

	// Inventory ledger (protegido)
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ReceiveUC, deps.TransferUC, deps.SellUC, deps.QueryUC)
	inv.Post("/receipts", manageStock, inventoryHandler.Receive)
	inv.Post("/transfers", manageStock, inventoryHandler.Transfer)
	inv.Post("/lots/:id/sell", inventoryHandler.Sell)
	inv.Get("/lots", inventoryHandler.ListLots)
	inv.Get("/fifo", inventoryHandler.FifoOrder)
	inv.Get("/activity", inventoryHandler.Activity)
}

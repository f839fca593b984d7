package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockfifo-api/internal/application/dto"
	"github.com/jhoicas/stockfifo-api/internal/application/ledger"
	"github.com/jhoicas/stockfifo-api/pkg/validator"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	receive  *ledger.ReceiveUseCase
	transfer *ledger.TransferUseCase
	sell     *ledger.SellUseCase
	queries  *ledger.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(receive *ledger.ReceiveUseCase, transfer *ledger.TransferUseCase, sell *ledger.SellUseCase, queries *ledger.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{receive: receive, transfer: transfer, sell: sell, queries: queries}
}

// Receive godoc
// @Summary      Recibir mercancía
// @Description  Crea un lote en una tienda con capacidad de recepción y registra la entrada en el log de actividad.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "store_id, item_id, quantity, expiration_date (YYYY-MM-DD), batch_number (opcional)"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Validate(in); err != nil {
		return respondValidation(c, validator.FormatErrors(err))
	}
	expiration, err := time.Parse("2006-01-02", in.ExpirationDate)
	if err != nil {
		return respondValidation(c, map[string]string{"expiration_date": "formato esperado: YYYY-MM-DD"})
	}

	lot, err := h.receive.Receive(c.Context(), ledger.ReceiveInput{
		StoreID:        in.StoreID,
		ItemID:         in.ItemID,
		Quantity:       in.Quantity,
		ExpirationDate: expiration,
		BatchNumber:    in.BatchNumber,
		ReceivedBy:     GetStaffID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ledger.ToLotResponse(lot, time.Now()))
}

// Transfer godoc
// @Summary      Trasladar stock entre tiendas
// @Description  Mueve cantidad del lote más urgente (FIFO) del origen hacia el destino en una sola
//               transacción. El header Idempotency-Key (o idempotency_key del body) permite reintentar
//               sin duplicar el movimiento.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "clave de idempotencia del cliente"
// @Param        body             body    dto.TransferRequest  true   "item_id, from_store_id, to_store_id, quantity, notes"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Validate(in); err != nil {
		return respondValidation(c, validator.FormatErrors(err))
	}
	key := c.Get("Idempotency-Key")
	if key == "" {
		key = in.IdempotencyKey
	}

	transfer, err := h.transfer.Transfer(c.Context(), ledger.TransferInput{
		ItemID:         in.ItemID,
		FromStoreID:    in.FromStoreID,
		ToStoreID:      in.ToStoreID,
		Quantity:       in.Quantity,
		PerformedBy:    GetStaffID(c),
		Notes:          in.Notes,
		IdempotencyKey: key,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ledger.ToTransferResponse(transfer))
}

// Sell godoc
// @Summary      Marcar un lote como vendido
// @Description  Transición terminal: la cantidad queda en cero sin importar la previa.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Lot ID (UUID)"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id}/sell [post]
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	lot, err := h.sell.MarkSold(c.Context(), c.Params("id"), GetStaffID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ledger.ToLotResponse(lot, time.Now()))
}

// ListLots godoc
// @Summary      Listar lotes
// @Description  scope=active (default) lista lotes available; scope=archived lista transferred y sold.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "filtrar por tienda (UUID)"
// @Param        scope     query  string  false  "active | archived"
// @Param        limit     query  int     false  "máximo por página (default 20)"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {array}   dto.LotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	storeID := c.Query("store_id")

	var (
		lots []dto.LotResponse
		err  error
	)
	switch scope := c.Query("scope", "active"); scope {
	case "active":
		lots, err = h.queries.ListActive(c.Context(), storeID, page)
	case "archived":
		lots, err = h.queries.ListArchived(c.Context(), storeID, page)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "scope debe ser active o archived"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lots)
}

// FifoOrder godoc
// @Summary      Orden de salida recomendado (FIFO)
// @Description  Lotes con stock de una tienda ordenados por urgencia de expiración, score recalculado al momento.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  true  "tienda (UUID)"
// @Success      200  {array}   dto.LotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/fifo [get]
func (h *InventoryHandler) FifoOrder(c *fiber.Ctx) error {
	storeID := c.Query("store_id")
	if storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "store_id requerido"})
	}
	lots, err := h.queries.RecommendFifoOrder(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lots)
}

// Activity godoc
// @Summary      Feed de actividad
// @Description  Entradas del log de auditoría, más reciente primero. since (RFC 3339) devuelve solo lo
//               posterior, para polling de la UI; limit=0 quita el tope (conciliación).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "filtrar por tienda (UUID)"
// @Param        limit     query  int     false  "máximo de entradas (default 50, 0 = sin tope)"
// @Param        since     query  string  false  "timestamp RFC 3339"
// @Success      200  {array}   dto.ActivityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/activity [get]
func (h *InventoryHandler) Activity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "since debe ser RFC 3339"})
		}
		since = &parsed
	}

	entries, err := h.queries.RecentActivity(c.Context(), c.Query("store_id"), limit, since)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

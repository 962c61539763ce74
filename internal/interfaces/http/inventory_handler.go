package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/validator"
)

// InventoryHandler maneja movimientos manuales, consultas del libro y alertas de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.StockLedgerUseCase
	alerts *inventory.StockAlertUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedgerUseCase, alerts *inventory.StockAlertUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, alerts: alerts}
}

// RegisterMovement POST /api/inventory/movements
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validator.Validate(in); err != nil {
		return writeError(c, err)
	}
	mov, err := h.ledger.ApplyMovement(c.UserContext(), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Reference: in.Reference,
		ActorID:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockMovementResponse(mov))
}

// ListMovements GET /api/inventory/movements?product_id=&movement_type=&reference=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	list, err := h.ledger.ListMovements(c.UserContext(), repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Type:      c.Query("movement_type"),
		Reference: c.Query("reference"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToStockMovementList(list, limit, offset))
}

// Alerts GET /api/inventory/alerts
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	summary, err := h.alerts.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToStockAlertResponse(summary))
}

// LowStock GET /api/inventory/low-stock
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.alerts.ListLowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductList(list, len(list), 0))
}

// LedgerCheck GET /api/inventory/products/:id/ledger-check
func (h *InventoryHandler) LedgerCheck(c *fiber.Ctx) error {
	check, err := h.ledger.VerifyLedger(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LedgerCheckResponse{
		ProductID:             check.ProductID,
		StockQuantity:         check.StockQuantity,
		LastResultingQuantity: check.LastResultingQuantity,
		LastMovementID:        check.LastMovementID,
		Consistent:            check.Consistent,
	})
}

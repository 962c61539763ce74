package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/serviceorder"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// ServiceOrderHandler maneja las peticiones HTTP de órdenes de servicio (protegido).
type ServiceOrderHandler struct {
	uc *serviceorder.ServiceOrderUseCase
}

// NewServiceOrderHandler construye el handler.
func NewServiceOrderHandler(uc *serviceorder.ServiceOrderUseCase) *ServiceOrderHandler {
	return &ServiceOrderHandler{uc: uc}
}

// Create POST /api/service-orders
func (h *ServiceOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToServiceOrderResponse(order))
}

// List GET /api/service-orders?status=&vehicle_id=&customer_id=&limit=&offset=
func (h *ServiceOrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	list, err := h.uc.List(c.UserContext(), repository.ServiceOrderFilter{
		Status:     c.Query("status"),
		VehicleID:  c.Query("vehicle_id"),
		CustomerID: c.Query("customer_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderList(list, limit, offset))
}

// Statistics GET /api/service-orders/statistics
func (h *ServiceOrderHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.uc.Statistics(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderStatsResponse(stats))
}

// GetByID GET /api/service-orders/:id
func (h *ServiceOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderResponse(order))
}

// UpdateObservations PUT /api/service-orders/:id/observations
func (h *ServiceOrderHandler) UpdateObservations(c *fiber.Ctx) error {
	var in dto.UpdateObservationsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.UpdateObservations(c.UserContext(), c.Params("id"), in.Observations)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderResponse(order))
}

// AddItem POST /api/service-orders/:id/items
func (h *ServiceOrderHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.AddItem(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToServiceOrderResponse(order))
}

// UpdateItem PUT /api/service-orders/:id/items/:itemId
func (h *ServiceOrderHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.UpdateItem(c.UserContext(), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderResponse(order))
}

// RemoveItem DELETE /api/service-orders/:id/items/:itemId
func (h *ServiceOrderHandler) RemoveItem(c *fiber.Ctx) error {
	order, err := h.uc.RemoveItem(c.UserContext(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderResponse(order))
}

// Complete POST /api/service-orders/:id/complete
// Descuenta el inventario de las líneas PRODUCT; 409 INSUFFICIENT_STOCK indica la línea que falló.
func (h *ServiceOrderHandler) Complete(c *fiber.Ctx) error {
	order, err := h.uc.Complete(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderResponse(order))
}

// Cancel POST /api/service-orders/:id/cancel
func (h *ServiceOrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToServiceOrderResponse(order))
}

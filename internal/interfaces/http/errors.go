package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
)

// statusFor código HTTP de cada código de dominio.
func statusFor(code string) int {
	switch code {
	case "VALIDATION", "INVALID_QUANTITY":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "NOT_FOUND", "PRODUCT_NOT_FOUND", "ORDER_NOT_FOUND", "ITEM_NOT_FOUND":
		return fiber.StatusNotFound
	case "INSUFFICIENT_STOCK", "INVALID_TRANSITION", "EMPTY_ORDER", "CONCURRENT_UPDATE", "DUPLICATE", "CONFLICT":
		return fiber.StatusConflict
	case "PRODUCT_INACTIVE":
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// writeError traduce un error de dominio a dto.ErrorResponse. Los errores de línea incluyen la posición del ítem.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status := statusFor(code)

	var lineErr *domain.LineItemError
	if errors.As(err, &lineErr) {
		return c.Status(status).JSON(dto.LineItemErrorResponse{
			Code:        code,
			Message:     err.Error(),
			Position:    lineErr.Position,
			ItemID:      lineErr.ItemID,
			ProductID:   lineErr.ProductID,
			ProductName: lineErr.ProductName,
		})
	}
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		resp.Field = valErr.Field
	}
	if status == fiber.StatusInternalServerError {
		resp.Message = "error interno"
	}
	return c.Status(status).JSON(resp)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pageQuery lee limit/offset con los mismos topes que el resto de la API.
func pageQuery(c *fiber.Ctx) (int, int) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		page = dto.PageRequest{}
	}
	page.Normalize()
	return page.Limit, page.Offset
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(p))
}

// GetByID GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// List GET /api/products?category=&active=&low_stock=&limit=&offset=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		LowStock: c.QueryBool("low_stock", false),
		Limit:    limit,
		Offset:   offset,
	}
	if c.Query("active") != "" {
		active := c.QueryBool("active", true)
		filter.Active = &active
	}
	list, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductList(list, limit, offset))
}

// Categories GET /api/products/categories
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	if cats == nil {
		cats = []string{}
	}
	return c.JSON(fiber.Map{"categories": cats})
}

// Update PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

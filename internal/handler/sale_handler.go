package handler

import (
	"go-erp-sync/internal/middleware"
	"go-erp-sync/internal/model"
	"go-erp-sync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// AppendSale stores one sale under a fresh key.
// POST /api/v1/sales
func (h *SaleHandler) AppendSale(c *fiber.Ctx) error {
	var sale model.Sale
	if err := c.BodyParser(&sale); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	rec, err := h.service.Append(sale, middleware.Writer(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(rec)
}

// ListSales returns the most recent sales in insertion order.
// GET /api/v1/sales?limit=N
func (h *SaleHandler) ListSales(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "limit must not be negative"})
	}

	sales, err := h.service.List(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sales)
}

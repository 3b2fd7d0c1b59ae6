package handler

import (
	"errors"

	"go-erp-sync/internal/middleware"
	"go-erp-sync/internal/model"
	"go-erp-sync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

type PutInventoryRequest struct {
	Products []model.Product `json:"products"`
}

// GetInventory returns the current document.
// GET /api/v1/inventory/products
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	inv, err := h.service.Get()
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Inventory has not been written yet"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(inv)
}

// PutInventory overwrites the document wholesale.
// PUT /api/v1/inventory/products
func (h *InventoryHandler) PutInventory(c *fiber.Ctx) error {
	var req PutInventoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	inv, err := h.service.Put(req.Products, middleware.Writer(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(inv)
}

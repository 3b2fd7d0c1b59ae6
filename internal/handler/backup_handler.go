package handler

import (
	"errors"

	"go-erp-sync/internal/middleware"
	"go-erp-sync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BackupHandler struct {
	service service.BackupService
}

func NewBackupHandler(s service.BackupService) *BackupHandler {
	return &BackupHandler{service: s}
}

// POST /api/v1/backups
func (h *BackupHandler) CreateBackup(c *fiber.Ctx) error {
	summary, err := h.service.Create(middleware.Writer(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(summary)
}

// GET /api/v1/backups
func (h *BackupHandler) ListBackups(c *fiber.Ctx) error {
	list, err := h.service.List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

// GET /api/v1/backups/:key
func (h *BackupHandler) GetBackup(c *fiber.Ctx) error {
	snap, err := h.service.Get(c.Params("key"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Backup not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}

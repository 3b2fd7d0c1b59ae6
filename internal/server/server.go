// Package server wires the remote document store: REST routes under
// /api/v1 plus the /ws live channel.
package server

import (
	"errors"

	"go-erp-sync/internal/config"
	"go-erp-sync/internal/handler"
	"go-erp-sync/internal/middleware"
	"go-erp-sync/internal/model"
	"go-erp-sync/internal/repository"
	"go-erp-sync/internal/service"
	"go-erp-sync/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	App    *fiber.App
	Hub    *ws.Hub
	logger *zap.Logger
}

// New migrates and seeds db, starts the hub and registers every route.
func New(db *gorm.DB, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := Seed(db, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		return nil, err
	}

	wsHub := ws.NewHub(logger.Named("ws"))
	go wsHub.Run()

	userRepo := repository.NewUserRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	authService := service.NewAuthService(userRepo, logger)
	invService := service.NewInventoryService(repository.NewDocumentRepo(db), wsHub, logger)
	saleService := service.NewSaleService(saleRepo, wsHub, logger)
	backupService := service.NewBackupService(invService, saleRepo, repository.NewBackupRepo(db), wsHub, logger)

	authHandler := handler.NewAuthHandler(authService)
	invHandler := handler.NewInventoryHandler(invService)
	saleHandler := handler.NewSaleHandler(saleService)
	backupHandler := handler.NewBackupHandler(backupService)

	app := fiber.New(fiber.Config{
		AppName:               "ERP Sync Backend",
		ErrorHandler:          handler.ErrorHandler,
		DisableStartupMessage: true,
	})

	if cfg.Env != "test" {
		app.Use(fiberlogger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ DOCUMENT ROUTES ============
	authn := middleware.OptionalAuth(userRepo)
	guard := func(string) fiber.Handler {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if cfg.RequireAuth {
		authn = middleware.RequireAuth(userRepo)
		guard = middleware.RequirePrivilege
	}

	protected := api.Group("", authn)
	protected.Get("/inventory/products", guard(model.PrivInventoryRead), invHandler.GetInventory)
	protected.Put("/inventory/products", guard(model.PrivInventoryWrite), invHandler.PutInventory)

	protected.Get("/sales", guard(model.PrivSalesRead), saleHandler.ListSales)
	protected.Post("/sales", guard(model.PrivSalesCreate), saleHandler.AppendSale)

	protected.Get("/backups", guard(model.PrivBackupView), backupHandler.ListBackups)
	protected.Get("/backups/:key", guard(model.PrivBackupView), backupHandler.GetBackup)
	protected.Post("/backups", guard(model.PrivBackupCreate), backupHandler.CreateBackup)

	// ============ LIVE CHANNEL ============
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}, authn, guard(model.PrivInventoryRead))
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Join(c) {
			return
		}
		defer wsHub.Leave(c)

		// New subscribers start from the current document.
		if inv, err := invService.Get(); err == nil {
			msg, err := ws.Encode(ws.TypeInventoryUpdate, inv)
			if err == nil {
				if err := wsHub.SendTo(c, msg); err != nil {
					logger.Warn("failed to send initial inventory", zap.Error(err))
				}
			}
		} else if !errors.Is(err, service.ErrNotFound) {
			logger.Error("failed to read inventory for new subscriber", zap.Error(err))
		}

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return &Server{App: app, Hub: wsHub, logger: logger}, nil
}

// Shutdown stops the hub and the HTTP server.
func (s *Server) Shutdown() error {
	s.Hub.Stop()
	return s.App.Shutdown()
}

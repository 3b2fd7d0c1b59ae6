package blobstore

import (
	"fmt"

	"go-erp-sync/internal/config"
	"go-erp-sync/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis/v3"
	"gorm.io/gorm/logger"
)

// Open returns the storage selected by cfg.LocalDriver.
func Open(cfg config.Config) (fiber.Storage, error) {
	switch cfg.LocalDriver {
	case "sqlite", "":
		db, err := database.Connect(config.Database{Driver: "sqlite", SQLitePath: cfg.LocalPath}, logger.Silent)
		if err != nil {
			return nil, err
		}
		return NewGorm(db)
	case "postgres":
		db, err := database.Connect(cfg.DB, logger.Silent)
		if err != nil {
			return nil, err
		}
		return NewGorm(db)
	case "redis":
		// redis.New panics when the server is unreachable.
		return redis.New(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			Database: cfg.Redis.Database,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported local store driver %q", cfg.LocalDriver)
	}
}

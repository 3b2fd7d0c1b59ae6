// Package blobstore provides key/value byte storage behind fiber.Storage.
package blobstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is one stored value.
type Blob struct {
	Key       string     `gorm:"column:blob_key;type:varchar(255);primaryKey"`
	Value     []byte     `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Blob) TableName() string {
	return "local_blobs"
}

// GormStorage stores blobs in a single table of a gorm database.
type GormStorage struct {
	db *gorm.DB
}

var _ fiber.Storage = (*GormStorage)(nil)

// NewGorm migrates the blob table and returns the storage.
func NewGorm(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate blob table: %w", err)
	}
	return &GormStorage{db: db}, nil
}

// Get returns nil, nil for missing or expired keys.
func (s *GormStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var blob Blob
	if err := s.db.First(&blob, "blob_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	if blob.ExpiresAt != nil && time.Now().After(*blob.ExpiresAt) {
		return nil, nil
	}
	return blob.Value, nil
}

// Set upserts the value. A zero exp keeps the value forever.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	blob := Blob{Key: key, Value: val}
	if exp > 0 {
		at := time.Now().Add(exp)
		blob.ExpiresAt = &at
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}

func (s *GormStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	if err := s.db.Delete(&Blob{}, "blob_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}

// Reset removes every blob.
func (s *GormStorage) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Blob{}).Error
}

func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

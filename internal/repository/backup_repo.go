package repository

import (
	"errors"
	"fmt"

	"go-erp-sync/internal/model"

	"gorm.io/gorm"
)

type BackupRepository interface {
	Create(backup *model.Backup) error
	FindByKey(key string) (*model.Backup, error)
	FindAll() ([]model.Backup, error)
}

type backupRepo struct {
	db *gorm.DB
}

func NewBackupRepo(db *gorm.DB) BackupRepository {
	return &backupRepo{db}
}

func (r *backupRepo) Create(backup *model.Backup) error {
	if err := r.db.Create(backup).Error; err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	return nil
}

func (r *backupRepo) FindByKey(key string) (*model.Backup, error) {
	var backup model.Backup
	if err := r.db.First(&backup, "backup_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find backup: %w", err)
	}
	return &backup, nil
}

// FindAll returns backups newest first.
func (r *backupRepo) FindAll() ([]model.Backup, error) {
	var backups []model.Backup
	if err := r.db.Order("created_at DESC").Find(&backups).Error; err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return backups, nil
}

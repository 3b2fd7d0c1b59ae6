package repository

import (
	"errors"
	"fmt"

	"go-erp-sync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository interface {
	Get(path string) (*model.Document, error)
	Put(doc *model.Document) error
}

type documentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db}
}

func (r *documentRepo) Get(path string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, "path = ?", path).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return &doc, nil
}

// Put overwrites the whole document at doc.Path.
func (r *documentRepo) Put(doc *model.Document) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at", "updated_by"}),
	}).Create(doc).Error
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", doc.Path, err)
	}
	return nil
}

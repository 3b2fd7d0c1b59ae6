package repository

import (
	"errors"
	"fmt"
	"slices"

	"go-erp-sync/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	Append(sale *model.RemoteSale) error
	FindByKey(key string) (*model.RemoteSale, error)
	// ListLast returns the last limit entries in insertion order; limit <= 0 returns all.
	ListLast(limit int) ([]model.RemoteSale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Append(sale *model.RemoteSale) error {
	if err := r.db.Create(sale).Error; err != nil {
		return fmt.Errorf("failed to append sale: %w", err)
	}
	return nil
}

func (r *saleRepo) FindByKey(key string) (*model.RemoteSale, error) {
	var sale model.RemoteSale
	if err := r.db.First(&sale, "sale_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}
	return &sale, nil
}

func (r *saleRepo) ListLast(limit int) ([]model.RemoteSale, error) {
	var sales []model.RemoteSale
	if limit <= 0 {
		if err := r.db.Order("seq ASC").Find(&sales).Error; err != nil {
			return nil, fmt.Errorf("failed to list sales: %w", err)
		}
		return sales, nil
	}
	if err := r.db.Order("seq DESC").Limit(limit).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	slices.Reverse(sales)
	return sales, nil
}

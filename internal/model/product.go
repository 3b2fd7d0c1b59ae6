package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductLowStock   ProductStatus = "low_stock"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

// Product is an inventory item. Status is derived from Stock and MinStock
// and must only be set through Refresh.
type Product struct {
	ID        int             `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Stock     int             `json:"stock" validate:"gte=0"`
	MinStock  int             `json:"min_stock" validate:"gte=0"`
	Status    ProductStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductPatch carries the fields of a partial update; nil means "keep".
type ProductPatch struct {
	SKU      *string          `json:"sku,omitempty"`
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock    *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	MinStock *int             `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
}

// DeriveStatus maps a stock level to its status:
// out_of_stock when stock is 0, low_stock when 0 < stock <= minStock, else active.
func DeriveStatus(stock, minStock int) ProductStatus {
	switch {
	case stock == 0:
		return ProductOutOfStock
	case stock > 0 && stock <= minStock:
		return ProductLowStock
	default:
		return ProductActive
	}
}

// Refresh recomputes the derived status.
func (p *Product) Refresh() {
	p.Status = DeriveStatus(p.Stock, p.MinStock)
}

// Apply merges the non-nil patch fields and refreshes the status.
func (p *Product) Apply(patch ProductPatch) {
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.MinStock != nil {
		p.MinStock = *patch.MinStock
	}
	p.Refresh()
}

// Value is the inventory value of the product (price * stock).
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

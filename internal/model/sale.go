package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
	SaleCancelled SaleStatus = "cancelled"
)

// SaleItem is a line item. Name and price are copied from the product at
// sale time and never follow later product changes.
type SaleItem struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Sale struct {
	ID            int             `json:"id"`
	ClientID      int             `json:"client_id"`
	Date          time.Time       `json:"date"`
	Items         []SaleItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        SaleStatus      `json:"status"`
	PaymentMethod string          `json:"payment_method"`

	// RemoteKey is the key the backend allocated when the sale was pushed.
	// Empty means the sale has not been synced yet.
	RemoteKey string `json:"remote_key,omitempty"`
}

// SaleInput is what a caller supplies to record a sale.
type SaleInput struct {
	ClientID      int         `json:"client_id"`
	Date          time.Time   `json:"date"`
	Items         []ItemInput `json:"items"`
	Status        SaleStatus  `json:"status"`
	PaymentMethod string      `json:"payment_method"`
}

// ItemInput references a product by id; a zero UnitPrice takes the
// product's current price.
type ItemInput struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SalePatch struct {
	ClientID      *int        `json:"client_id,omitempty"`
	Date          *time.Time  `json:"date,omitempty"`
	Status        *SaleStatus `json:"status,omitempty"`
	PaymentMethod *string     `json:"payment_method,omitempty"`
}

func (s *Sale) Apply(patch SalePatch) {
	if patch.ClientID != nil {
		s.ClientID = *patch.ClientID
	}
	if patch.Date != nil {
		s.Date = *patch.Date
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.PaymentMethod != nil {
		s.PaymentMethod = *patch.PaymentMethod
	}
}

// Synced reports whether the sale already has a remote key.
func (s Sale) Synced() bool {
	return s.RemoteKey != ""
}

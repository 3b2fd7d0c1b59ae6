package store

import (
	"slices"

	"go-erp-sync/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func saleID(s model.Sale) int { return s.ID }

func (s *Store) Sales() []model.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.sales))
}

func (s *Store) Sale(id int) (model.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.sales, func(sl model.Sale) bool { return sl.ID == id })
}

// RecordSale appends a sale and takes each item's quantity out of the
// referenced product's stock. Nothing is validated: unknown products and
// clients are accepted and stock may go negative.
func (s *Store) RecordSale(in model.SaleInput) (model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := model.Sale{
		ID:            nextID(s.sales, saleID),
		ClientID:      in.ClientID,
		Date:          in.Date,
		Status:        in.Status,
		PaymentMethod: in.PaymentMethod,
		Total:         decimal.Zero,
		Items:         make([]model.SaleItem, 0, len(in.Items)),
	}
	if sale.Date.IsZero() {
		sale.Date = s.now()
	}
	if sale.Status == "" {
		sale.Status = model.SaleCompleted
	}

	err := s.commit(func() {
		for _, it := range in.Items {
			item := model.SaleItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			}
			if i := slices.IndexFunc(s.products, func(p model.Product) bool { return p.ID == it.ProductID }); i >= 0 {
				p := &s.products[i]
				item.ProductName = p.Name
				if item.UnitPrice.IsZero() {
					item.UnitPrice = p.Price
				}
				p.Stock -= it.Quantity
				p.Refresh()
				if p.Stock < 0 {
					s.logger.Warn("product oversold", zap.Int("product_id", p.ID), zap.Int("stock", p.Stock))
				}
			}
			item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			sale.Total = sale.Total.Add(item.Subtotal)
			sale.Items = append(sale.Items, item)
		}
		s.sales = append(s.sales, sale)
	})
	if err != nil {
		return model.Sale{}, err
	}
	return sale, nil
}

// UpdateSale changes the header fields of a sale. Items and total are
// captured at sale time and never change.
func (s *Store) UpdateSale(id int, patch model.SalePatch) (model.Sale, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.sales, func(sl model.Sale) bool { return sl.ID == id })
	if i < 0 {
		return model.Sale{}, false, nil
	}
	updated := s.sales[i]
	updated.Apply(patch)
	if err := s.commit(func() { s.sales[i] = updated }); err != nil {
		return model.Sale{}, true, err
	}
	return updated, true, nil
}

// DeleteSale removes the sale without restoring stock.
func (s *Store) DeleteSale(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.sales, func(sl model.Sale) bool { return sl.ID == id })
	if i < 0 {
		return false, nil
	}
	return true, s.commit(func() { s.sales = slices.Delete(s.sales, i, i+1) })
}

package store

import (
	"slices"

	"go-erp-sync/internal/model"
)

// ReplaceProducts overwrites the product collection, re-deriving every
// status.
func (s *Store) ReplaceProducts(products []model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() {
		s.products = slices.Clone(products)
		for i := range s.products {
			s.products[i].Refresh()
		}
	})
}

func (s *Store) ReplaceSales(sales []model.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() { s.sales = slices.Clone(sales) })
}

// UnsyncedSales returns the sales that have no remote key yet.
func (s *Store) UnsyncedSales() []model.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.sales, func(sl model.Sale) bool { return !sl.Synced() })
}

// MarkSaleSynced records the remote key on a local sale.
func (s *Store) MarkSaleSynced(id int, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.sales, func(sl model.Sale) bool { return sl.ID == id })
	if i < 0 {
		return false, nil
	}
	return true, s.commit(func() { s.sales[i].RemoteKey = key })
}

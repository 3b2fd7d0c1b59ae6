package store

import (
	"slices"

	"go-erp-sync/internal/model"
)

func supplierID(s model.Supplier) int { return s.ID }

func (s *Store) Suppliers() []model.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.suppliers))
}

func (s *Store) Supplier(id int) (model.Supplier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.suppliers, func(sp model.Supplier) bool { return sp.ID == id })
}

func (s *Store) AddSupplier(sp model.Supplier) (model.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp.ID = nextID(s.suppliers, supplierID)
	if sp.Status == "" {
		sp.Status = model.ClientActive
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = s.now()
	}
	if err := s.commit(func() { s.suppliers = append(s.suppliers, sp) }); err != nil {
		return model.Supplier{}, err
	}
	return sp, nil
}

func (s *Store) UpdateSupplier(id int, patch model.SupplierPatch) (model.Supplier, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.suppliers, func(sp model.Supplier) bool { return sp.ID == id })
	if i < 0 {
		return model.Supplier{}, false, nil
	}
	updated := s.suppliers[i]
	updated.Apply(patch)
	if err := s.commit(func() { s.suppliers[i] = updated }); err != nil {
		return model.Supplier{}, true, err
	}
	return updated, true, nil
}

func (s *Store) DeleteSupplier(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.suppliers, func(sp model.Supplier) bool { return sp.ID == id })
	if i < 0 {
		return false, nil
	}
	return true, s.commit(func() { s.suppliers = slices.Delete(s.suppliers, i, i+1) })
}

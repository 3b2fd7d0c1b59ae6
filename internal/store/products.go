package store

import (
	"slices"

	"go-erp-sync/internal/model"
	"go-erp-sync/pkg/validator"
)

func productID(p model.Product) int { return p.ID }

func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.products))
}

func (s *Store) Product(id int) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.products, func(p model.Product) bool { return p.ID == id })
}

// AddProduct rejects negative price, stock or minimum stock. Status is
// always derived, whatever the caller passed.
func (s *Store) AddProduct(p model.Product) (model.Product, error) {
	if err := validator.Check(p); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = nextID(s.products, productID)
	p.Refresh()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if err := s.commit(func() { s.products = append(s.products, p) }); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *Store) UpdateProduct(id int, patch model.ProductPatch) (model.Product, bool, error) {
	if err := validator.Check(patch); err != nil {
		return model.Product{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.products, func(p model.Product) bool { return p.ID == id })
	if i < 0 {
		return model.Product{}, false, nil
	}
	updated := s.products[i]
	updated.Apply(patch)
	if err := s.commit(func() { s.products[i] = updated }); err != nil {
		return model.Product{}, true, err
	}
	return updated, true, nil
}

func (s *Store) DeleteProduct(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.products, func(p model.Product) bool { return p.ID == id })
	if i < 0 {
		return false, nil
	}
	return true, s.commit(func() { s.products = slices.Delete(s.products, i, i+1) })
}

package store

import (
	"go-erp-sync/internal/model"

	"github.com/shopspring/decimal"
)

// SampleClients and SampleProducts are the demo records a fresh install
// starts with.
func SampleClients() []model.Client {
	return []model.Client{
		{ID: 1, Name: "Acme Corporation", Email: "purchasing@acme.example", Phone: "+1 555 0100", Address: "100 Industrial Way", Status: model.ClientActive},
		{ID: 2, Name: "Globex Ltd", Email: "orders@globex.example", Phone: "+1 555 0142", Address: "42 Harbor Road", Status: model.ClientActive},
		{ID: 3, Name: "Initech", Email: "office@initech.example", Phone: "+1 555 0199", Address: "9 Commerce Park", Status: model.ClientInactive},
	}
}

func SampleProducts() []model.Product {
	return []model.Product{
		{ID: 1, SKU: "FUR-001", Name: "Ergonomic Office Chair", Category: "Furniture", Price: decimal.RequireFromString("299.99"), Stock: 150, MinStock: 20},
		{ID: 2, SKU: "ACC-002", Name: "Wireless Mouse", Category: "Accessories", Price: decimal.RequireFromString("24.99"), Stock: 75, MinStock: 15},
		{ID: 3, SKU: "ACC-003", Name: "USB-C Docking Station", Category: "Accessories", Price: decimal.RequireFromString("89.99"), Stock: 8, MinStock: 10},
	}
}

// SeedSampleData replaces clients and products with the sample records.
func (s *Store) SeedSampleData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	clients := SampleClients()
	for i := range clients {
		clients[i].CreatedAt = now
	}
	products := SampleProducts()
	for i := range products {
		products[i].CreatedAt = now
		products[i].Refresh()
	}
	return s.commit(func() {
		s.clients = clients
		s.products = products
	})
}

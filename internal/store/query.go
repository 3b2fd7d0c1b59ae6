package store

import (
	"strings"
	"time"

	"go-erp-sync/internal/model"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard overview for one calendar month.
type Stats struct {
	Month              string          `json:"month"`
	MonthlyRevenue     decimal.Decimal `json:"monthly_revenue"`
	MonthlyOrders      int             `json:"monthly_orders"`
	TotalClients       int             `json:"total_clients"`
	ActiveClients      int             `json:"active_clients"`
	TotalProducts      int             `json:"total_products"`
	ActiveProducts     int             `json:"active_products"`
	LowStockProducts   int             `json:"low_stock_products"`
	OutOfStockProducts int             `json:"out_of_stock_products"`
	TotalEmployees     int             `json:"total_employees"`
}

type SalesReport struct {
	Start             time.Time       `json:"start"`
	End               time.Time       `json:"end"`
	Sales             []model.Sale    `json:"sales"`
	Revenue           decimal.Decimal `json:"revenue"`
	Orders            int             `json:"orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type InventoryReport struct {
	TotalProducts int             `json:"total_products"`
	Active        int             `json:"active"`
	LowStock      int             `json:"low_stock"`
	OutOfStock    int             `json:"out_of_stock"`
	TotalValue    decimal.Decimal `json:"total_value"`
	NeedsRestock  []model.Product `json:"needs_restock"`
}

func matches(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// SearchClients matches name, email and phone, case-insensitively, in
// collection order.
func (s *Store) SearchClients(query string) []model.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.clients, func(c model.Client) bool {
		return matches(query, c.Name, c.Email, c.Phone)
	})
}

// SearchProducts matches name, sku and category.
func (s *Store) SearchProducts(query string) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.products, func(p model.Product) bool {
		return matches(query, p.Name, p.SKU, p.Category)
	})
}

func (s *Store) SearchEmployees(query string) []model.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.employees, func(e model.Employee) bool {
		return matches(query, e.Name, e.Position, e.Department)
	})
}

func (s *Store) SearchSuppliers(query string) []model.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.suppliers, func(sp model.Supplier) bool {
		return matches(query, sp.Name, sp.Contact, sp.Email)
	})
}

// ComputeStats aggregates the sales of the calendar month containing now
// together with the current client, product and employee counts.
func (s *Store) ComputeStats(now time.Time) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Month:          now.Format("2006-01"),
		MonthlyRevenue: decimal.Zero,
		TotalClients:   len(s.clients),
		TotalProducts:  len(s.products),
		TotalEmployees: len(s.employees),
	}
	year, month, _ := now.Date()
	for _, sale := range s.sales {
		y, m, _ := sale.Date.In(now.Location()).Date()
		if y == year && m == month {
			stats.MonthlyRevenue = stats.MonthlyRevenue.Add(sale.Total)
			stats.MonthlyOrders++
		}
	}
	for _, c := range s.clients {
		if c.Status == model.ClientActive {
			stats.ActiveClients++
		}
	}
	for _, p := range s.products {
		switch p.Status {
		case model.ProductActive:
			stats.ActiveProducts++
		case model.ProductLowStock:
			stats.LowStockProducts++
		case model.ProductOutOfStock:
			stats.OutOfStockProducts++
		}
	}
	return stats
}

func day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SalesReport lists the sales dated between start and end, both days
// inclusive, in collection order.
func (s *Store) SalesReport(start, end time.Time) SalesReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc := start.Location()
	from, to := day(start, loc), day(end, loc)
	report := SalesReport{
		Start:             start,
		End:               end,
		Revenue:           decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	report.Sales = filter(s.sales, func(sale model.Sale) bool {
		d := day(sale.Date, loc)
		return !d.Before(from) && !d.After(to)
	})
	for _, sale := range report.Sales {
		report.Revenue = report.Revenue.Add(sale.Total)
	}
	report.Orders = len(report.Sales)
	if report.Orders > 0 {
		report.AverageOrderValue = report.Revenue.Div(decimal.NewFromInt(int64(report.Orders))).Round(2)
	}
	return report
}

func (s *Store) InventoryReport() InventoryReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := InventoryReport{
		TotalProducts: len(s.products),
		TotalValue:    decimal.Zero,
		NeedsRestock:  []model.Product{},
	}
	for _, p := range s.products {
		switch p.Status {
		case model.ProductActive:
			report.Active++
		case model.ProductLowStock:
			report.LowStock++
			report.NeedsRestock = append(report.NeedsRestock, p)
		case model.ProductOutOfStock:
			report.OutOfStock++
			report.NeedsRestock = append(report.NeedsRestock, p)
		}
		report.TotalValue = report.TotalValue.Add(p.Value())
	}
	return report
}

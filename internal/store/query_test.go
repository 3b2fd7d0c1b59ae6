package store

import (
	"testing"
	"time"

	"go-erp-sync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchClients(t *testing.T) {
	s, _ := seededStore(t)

	got := s.SearchClients("GLOBEX")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	got = s.SearchClients("555 01")
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID})

	assert.Empty(t, s.SearchClients("nobody"))
}

func TestSearchProducts(t *testing.T) {
	s, _ := seededStore(t)

	got := s.SearchProducts("acc")
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)

	got = s.SearchProducts("fur-001")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestSearchEmployeesAndSuppliers(t *testing.T) {
	s := newTestStore(t, newMemStorage())
	_, err := s.AddEmployee(model.Employee{Name: "Ana", Position: "Cashier", Department: "Retail"})
	require.NoError(t, err)
	_, err = s.AddEmployee(model.Employee{Name: "Luis", Position: "Buyer", Department: "Purchasing"})
	require.NoError(t, err)
	_, err = s.AddSupplier(model.Supplier{Name: "Parts Co", Contact: "Ana Ruiz", Email: "sales@parts.example"})
	require.NoError(t, err)

	assert.Len(t, s.SearchEmployees("retail"), 1)
	assert.Len(t, s.SearchEmployees("a"), 2)
	assert.Len(t, s.SearchSuppliers("ana"), 1)
}

func TestComputeStats_FixedClock(t *testing.T) {
	s, _ := seededStore(t)

	inMonth := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)
	_, err := s.RecordSale(model.SaleInput{Date: inMonth, Items: []model.ItemInput{{ProductID: 1, Quantity: 2}}})
	require.NoError(t, err)
	_, err = s.RecordSale(model.SaleInput{Date: inMonth, Items: []model.ItemInput{{ProductID: 2, Quantity: 4}}})
	require.NoError(t, err)
	_, err = s.RecordSale(model.SaleInput{Date: lastMonth, Items: []model.ItemInput{{ProductID: 2, Quantity: 1}}})
	require.NoError(t, err)

	stats := s.ComputeStats(fixedNow)

	assert.Equal(t, "2026-10", stats.Month)
	assert.Equal(t, "699.94", stats.MonthlyRevenue.String())
	assert.Equal(t, 2, stats.MonthlyOrders)
	assert.Equal(t, 3, stats.TotalClients)
	assert.Equal(t, 2, stats.ActiveClients)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 2, stats.ActiveProducts)
	assert.Equal(t, 1, stats.LowStockProducts)
	assert.Equal(t, 0, stats.OutOfStockProducts)

	assert.Equal(t, stats, s.ComputeStats(fixedNow))

	september := s.ComputeStats(lastMonth)
	assert.Equal(t, 1, september.MonthlyOrders)
	assert.Equal(t, "24.99", september.MonthlyRevenue.String())
}

func TestSalesReport_InclusiveDays(t *testing.T) {
	s, _ := seededStore(t)
	dates := []time.Time{
		time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 5, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		_, err := s.RecordSale(model.SaleInput{Date: d, Items: []model.ItemInput{{ProductID: 2, Quantity: 1}}})
		require.NoError(t, err)
	}
	_, err := s.RecordSale(model.SaleInput{Date: dates[0], Items: []model.ItemInput{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)

	report := s.SalesReport(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))

	require.Len(t, report.Sales, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{report.Sales[0].ID, report.Sales[1].ID, report.Sales[2].ID})
	assert.Equal(t, 3, report.Orders)
	assert.Equal(t, "349.97", report.Revenue.String())
	assert.Equal(t, "116.66", report.AverageOrderValue.String())
}

func TestSalesReport_Empty(t *testing.T) {
	s, _ := seededStore(t)
	report := s.SalesReport(fixedNow, fixedNow)
	assert.Empty(t, report.Sales)
	assert.Equal(t, 0, report.Orders)
	assert.True(t, report.AverageOrderValue.IsZero())
}

func TestInventoryReport(t *testing.T) {
	s, _ := seededStore(t)

	report := s.InventoryReport()

	assert.Equal(t, 3, report.TotalProducts)
	assert.Equal(t, 2, report.Active)
	assert.Equal(t, 1, report.LowStock)
	assert.Equal(t, 0, report.OutOfStock)
	assert.True(t, report.TotalValue.Equal(dec("47592.67")), report.TotalValue.String())
	require.Len(t, report.NeedsRestock, 1)
	assert.Equal(t, 3, report.NeedsRestock[0].ID)
}

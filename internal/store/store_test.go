package store

import (
	"encoding/json"
	"testing"
	"time"

	"go-erp-sync/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func assertStatusesDerived(t *testing.T, s *Store) {
	t.Helper()
	for _, p := range s.Products() {
		assert.Equal(t, model.DeriveStatus(p.Stock, p.MinStock), p.Status, "product %d", p.ID)
	}
}

func TestRecordSale_SampleScenario(t *testing.T) {
	s, _ := seededStore(t)

	sale, err := s.RecordSale(model.SaleInput{
		ClientID:      1,
		Items:         []model.ItemInput{{ProductID: 1, Quantity: 2}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	p, ok := s.Product(1)
	require.True(t, ok)
	assert.Equal(t, 148, p.Stock)
	assert.Equal(t, model.ProductActive, p.Status)

	assert.Equal(t, 1, sale.ID)
	assert.Equal(t, "599.98", sale.Total.String())
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, fixedNow, sale.Date)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Ergonomic Office Chair", sale.Items[0].ProductName)
	assert.True(t, sale.Items[0].UnitPrice.Equal(dec("299.99")))

	require.Len(t, s.Sales(), 1)
}

func TestRecordSale_PriceCapturedAtSaleTime(t *testing.T) {
	s, _ := seededStore(t)

	sale, err := s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 2, Quantity: 3}}})
	require.NoError(t, err)

	_, found, err := s.UpdateProduct(2, model.ProductPatch{Price: ptr(dec("30.00"))})
	require.NoError(t, err)
	require.True(t, found)

	stored, ok := s.Sale(sale.ID)
	require.True(t, ok)
	assert.Equal(t, "74.97", stored.Total.String())
	assert.True(t, stored.Items[0].UnitPrice.Equal(dec("24.99")))
}

func TestRecordSale_ExplicitPriceAndUnknownProduct(t *testing.T) {
	s, _ := seededStore(t)

	sale, err := s.RecordSale(model.SaleInput{
		ClientID: 99,
		Items: []model.ItemInput{
			{ProductID: 2, Quantity: 1, UnitPrice: dec("20.00")},
			{ProductID: 42, Quantity: 2, UnitPrice: dec("5.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "31", sale.Total.String())
	assert.Equal(t, "", sale.Items[1].ProductName)
	p, _ := s.Product(2)
	assert.Equal(t, 74, p.Stock)
}

func TestOutOfStockThenRestock(t *testing.T) {
	s, _ := seededStore(t)

	for i := 0; i < 4; i++ {
		_, err := s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 3, Quantity: 2}}})
		require.NoError(t, err)
	}
	p, _ := s.Product(3)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, model.ProductOutOfStock, p.Status)

	p, found, err := s.UpdateProduct(3, model.ProductPatch{Stock: ptr(25)})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.ProductActive, p.Status)
}

func TestRecordSale_Oversell(t *testing.T) {
	s, _ := seededStore(t)

	_, err := s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 3, Quantity: 10}}})
	require.NoError(t, err)

	p, _ := s.Product(3)
	assert.Equal(t, -2, p.Stock)
	assertStatusesDerived(t, s)
}

func TestProductStatusNeverStale(t *testing.T) {
	s := newTestStore(t, newMemStorage())

	steps := []func() error{
		func() error {
			_, err := s.AddProduct(model.Product{SKU: "A", Name: "A", Price: dec("1"), Stock: 5, MinStock: 5, Status: model.ProductActive})
			return err
		},
		func() error {
			_, err := s.AddProduct(model.Product{SKU: "B", Name: "B", Price: dec("2"), Stock: 0, MinStock: 3})
			return err
		},
		func() error {
			_, _, err := s.UpdateProduct(1, model.ProductPatch{MinStock: ptr(2)})
			return err
		},
		func() error {
			_, err := s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 1, Quantity: 4}}})
			return err
		},
		func() error {
			_, _, err := s.UpdateProduct(2, model.ProductPatch{Stock: ptr(3)})
			return err
		},
		func() error {
			_, err := s.DeleteProduct(1)
			return err
		},
		func() error {
			return s.ReplaceProducts([]model.Product{{ID: 7, Stock: 1, MinStock: 4, Status: model.ProductOutOfStock}})
		},
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assertStatusesDerived(t, s)
	}
}

func TestAddProduct_Validation(t *testing.T) {
	s := newTestStore(t, newMemStorage())

	_, err := s.AddProduct(model.Product{Name: "Bad", Price: dec("-1")})
	assert.Error(t, err)

	_, _, err = s.UpdateProduct(1, model.ProductPatch{MinStock: ptr(-1)})
	assert.Error(t, err)

	assert.Empty(t, s.Products())
}

func TestIDsAreMaxPlusOne(t *testing.T) {
	s := newTestStore(t, newMemStorage())

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.AddClient(model.Client{Name: name})
		require.NoError(t, err)
	}
	found, err := s.DeleteClient(3)
	require.NoError(t, err)
	assert.True(t, found)

	c, err := s.AddClient(model.Client{Name: "d"})
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)

	found, err = s.DeleteClient(1)
	require.NoError(t, err)
	assert.True(t, found)

	c, err = s.AddClient(model.Client{Name: "e"})
	require.NoError(t, err)
	assert.Equal(t, 4, c.ID)
}

func TestAddDefaults(t *testing.T) {
	s := newTestStore(t, newMemStorage())

	c, err := s.AddClient(model.Client{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, model.ClientActive, c.Status)
	assert.Equal(t, fixedNow, c.CreatedAt)

	e, err := s.AddEmployee(model.Employee{Name: "Ana", Salary: dec("3200")})
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
	assert.Equal(t, model.EmployeeActive, e.Status)
	assert.Equal(t, fixedNow, e.HireDate)

	sp, err := s.AddSupplier(model.Supplier{Name: "Parts Co"})
	require.NoError(t, err)
	assert.Equal(t, model.ClientActive, sp.Status)
}

func TestUpdateMergesOnlyGivenFields(t *testing.T) {
	s, _ := seededStore(t)

	c, found, err := s.UpdateClient(2, model.ClientPatch{Phone: ptr("+1 555 0000")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Globex Ltd", c.Name)
	assert.Equal(t, "orders@globex.example", c.Email)
	assert.Equal(t, "+1 555 0000", c.Phone)

	stored, _ := s.Client(2)
	assert.Equal(t, c, stored)
}

func TestNotFoundIsNotAnError(t *testing.T) {
	s, _ := seededStore(t)

	_, found, err := s.UpdateClient(99, model.ClientPatch{Name: ptr("x")})
	assert.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.UpdateProduct(99, model.ProductPatch{})
	assert.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.UpdateSale(99, model.SalePatch{})
	assert.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.UpdateEmployee(99, model.EmployeePatch{})
	assert.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.UpdateSupplier(99, model.SupplierPatch{})
	assert.NoError(t, err)
	assert.False(t, found)

	for _, del := range []func(int) (bool, error){s.DeleteClient, s.DeleteProduct, s.DeleteSale, s.DeleteEmployee, s.DeleteSupplier} {
		found, err := del(99)
		assert.NoError(t, err)
		assert.False(t, found)
	}
}

func TestUpdateSaleKeepsItemsAndTotal(t *testing.T) {
	s, _ := seededStore(t)
	sale, err := s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 1, Quantity: 1}}, Status: model.SalePending})
	require.NoError(t, err)

	updated, found, err := s.UpdateSale(sale.ID, model.SalePatch{Status: ptr(model.SaleCompleted), PaymentMethod: ptr("card")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.SaleCompleted, updated.Status)
	assert.Equal(t, "card", updated.PaymentMethod)
	assert.True(t, updated.Total.Equal(sale.Total))
	assert.Equal(t, sale.Items, updated.Items)
}

func TestPersistFailureRollsBack(t *testing.T) {
	blobs := newMemStorage()
	s, _ := seededStore(t)
	s.blobs = blobs
	blobs.fail = true

	_, err := s.AddClient(model.Client{Name: "Lost"})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, s.Clients(), 3)

	_, err = s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 1, Quantity: 5}}})
	assert.ErrorIs(t, err, errDiskFull)
	p, _ := s.Product(1)
	assert.Equal(t, 150, p.Stock)
	assert.Empty(t, s.Sales())
}

func TestEveryMutationPersists(t *testing.T) {
	s, blobs := seededStore(t)
	before := blobs.writes

	_, err := s.AddClient(model.Client{Name: "New"})
	require.NoError(t, err)
	_, _, err = s.UpdateProduct(1, model.ProductPatch{Name: ptr("Chair")})
	require.NoError(t, err)
	_, err = s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 2, Quantity: 1}}})
	require.NoError(t, err)
	_, err = s.DeleteClient(1)
	require.NoError(t, err)
	assert.Equal(t, before+4, blobs.writes)

	reloaded := newTestStore(t, blobs)
	ok, err := reloaded.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mustJSON(t, s.State()), mustJSON(t, reloaded.State()))
}

func TestLoad_Empty(t *testing.T) {
	s := newTestStore(t, newMemStorage())
	ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_MigratesLegacyLayout(t *testing.T) {
	blobs := newMemStorage()
	blobs.m[LegacyInventoryKey] = []byte(`[{"id":1,"sku":"X-1","name":"Widget","price":"2.50","stock":0,"min_stock":3,"status":"active"}]`)
	blobs.m[LegacySalesKey] = []byte(`[{"id":1,"client_id":2,"date":"2026-10-01T10:00:00Z","items":[],"total":"0","status":"completed"}]`)

	s := newTestStore(t, blobs)
	ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)

	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, model.ProductOutOfStock, products[0].Status)
	require.Len(t, s.Sales(), 1)

	assert.NotContains(t, blobs.m, LegacyInventoryKey)
	assert.NotContains(t, blobs.m, LegacySalesKey)
	assert.Contains(t, blobs.m, DefaultKey)
}

func TestLoad_Malformed(t *testing.T) {
	blobs := newMemStorage()
	blobs.m[DefaultKey] = []byte(`{not json`)

	_, err := newTestStore(t, blobs).Load()
	assert.ErrorIs(t, err, ErrMalformedSnapshot)
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := seededStore(t)
	_, err := s.AddEmployee(model.Employee{Name: "Ana", Position: "Clerk", Department: "Sales", Salary: dec("2500.00")})
	require.NoError(t, err)
	_, err = s.AddSupplier(model.Supplier{Name: "Parts Co", Contact: "Bo"})
	require.NoError(t, err)
	_, err = s.RecordSale(model.SaleInput{ClientID: 2, Items: []model.ItemInput{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 1}}})
	require.NoError(t, err)

	data, err := s.ExportSnapshot()
	require.NoError(t, err)

	other := newTestStore(t, newMemStorage())
	_, err = other.AddClient(model.Client{Name: "to be replaced"})
	require.NoError(t, err)
	require.NoError(t, other.ImportSnapshot(data))

	assert.Equal(t, mustJSON(t, s.State()), mustJSON(t, other.State()))

	again, err := other.ExportSnapshot()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestImportSnapshot_MalformedLeavesStateAlone(t *testing.T) {
	s, _ := seededStore(t)
	before := mustJSON(t, s.State())

	err := s.ImportSnapshot([]byte(`{"clients": "nope"`))
	assert.ErrorIs(t, err, ErrMalformedSnapshot)
	assert.Equal(t, before, mustJSON(t, s.State()))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "erp-backup-2026-10-15.json", ExportFileName(fixedNow))
}

func TestSyncHooks(t *testing.T) {
	s, _ := seededStore(t)
	a, err := s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	b, err := s.RecordSale(model.SaleInput{Items: []model.ItemInput{{ProductID: 2, Quantity: 1}}})
	require.NoError(t, err)

	found, err := s.MarkSaleSynced(a.ID, "k-1")
	require.NoError(t, err)
	assert.True(t, found)

	unsynced := s.UnsyncedSales()
	require.Len(t, unsynced, 1)
	assert.Equal(t, b.ID, unsynced[0].ID)

	found, err = s.MarkSaleSynced(99, "k-2")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.ReplaceSales(nil))
	assert.Empty(t, s.Sales())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestStoreWithoutBlobs(t *testing.T) {
	s := New(nil, WithClock(func() time.Time { return fixedNow }))
	_, err := s.AddClient(model.Client{Name: "memory only"})
	require.NoError(t, err)
	ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, s.Clients(), 1)
}

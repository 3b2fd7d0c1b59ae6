package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go-erp-sync/internal/model"
)

var errOffline = errors.New("connection refused")

// fakeBackend is an in-memory Backend. Setting fail[op] makes that call
// return errOffline.
type fakeBackend struct {
	mu        sync.Mutex
	inventory *model.InventoryDocument
	sales     []model.SaleRecord
	backups   map[string]model.BackupSnapshot
	fail      map[string]bool
	loggedIn  string
	writer    string
	appends   int
	live      chan model.InventoryDocument
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		backups: map[string]model.BackupSnapshot{},
		fail:    map[string]bool{},
		writer:  AnonymousWriter,
		live:    make(chan model.InventoryDocument),
	}
}

func (f *fakeBackend) err(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[op] {
		return errOffline
	}
	return nil
}

func (f *fakeBackend) setFail(op string, v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = v
}

// roundTrip mimics the wire so stored values never alias the caller's.
func roundTrip[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

func (f *fakeBackend) Ping(context.Context) error { return f.err("ping") }

func (f *fakeBackend) Login(_ context.Context, email, password string) error {
	if err := f.err("login"); err != nil {
		return err
	}
	if password != "secret" {
		return ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = email
	f.writer = email
	return nil
}

func (f *fakeBackend) GetInventory(context.Context) (*model.InventoryDocument, error) {
	if err := f.err("get_inventory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inventory == nil {
		return nil, ErrNotFound
	}
	doc := roundTrip(*f.inventory)
	return &doc, nil
}

func (f *fakeBackend) PutInventory(_ context.Context, products []model.Product) (*model.InventoryDocument, error) {
	if err := f.err("put_inventory"); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := model.InventoryDocument{Products: roundTrip(products), UpdatedBy: f.writer}
	f.inventory = &doc
	return &doc, nil
}

func (f *fakeBackend) AppendSale(_ context.Context, sale model.Sale) (*model.SaleRecord, error) {
	if err := f.err("append_sale"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	rec := model.SaleRecord{
		Key:      fmt.Sprintf("key-%03d", f.appends),
		Sale:     roundTrip(sale),
		SyncedBy: f.writer,
	}
	f.sales = append(f.sales, rec)
	return &rec, nil
}

func (f *fakeBackend) ListSales(_ context.Context, limit int) ([]model.SaleRecord, error) {
	if err := f.err("list_sales"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := roundTrip(f.sales)
	if limit > 0 && limit < len(out) {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeBackend) CreateBackup(context.Context) (*model.BackupSummary, error) {
	if err := f.err("create_backup"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := model.BackupSnapshot{Key: fmt.Sprintf("%d", len(f.backups)+1), Sales: roundTrip(f.sales), CreatedBy: f.writer}
	if f.inventory != nil {
		snap.Inventory = roundTrip(f.inventory.Products)
	}
	f.backups[snap.Key] = snap
	return &model.BackupSummary{Key: snap.Key, CreatedBy: snap.CreatedBy, ProductCount: len(snap.Inventory), SaleCount: len(snap.Sales)}, nil
}

func (f *fakeBackend) ListBackups(context.Context) ([]model.BackupSummary, error) {
	if err := f.err("list_backups"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.BackupSummary, 0, len(f.backups))
	for _, b := range f.backups {
		out = append(out, model.BackupSummary{Key: b.Key, ProductCount: len(b.Inventory), SaleCount: len(b.Sales)})
	}
	return out, nil
}

func (f *fakeBackend) GetBackup(_ context.Context, key string) (*model.BackupSnapshot, error) {
	if err := f.err("get_backup"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.backups[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}

// WatchInventory delivers documents sent on f.live until the channel is
// closed or ctx is done.
func (f *fakeBackend) WatchInventory(ctx context.Context, fn func(model.InventoryDocument)) error {
	if err := f.err("watch"); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case doc, ok := <-f.live:
			if !ok {
				return nil
			}
			fn(roundTrip(doc))
		}
	}
}

var _ Backend = (*fakeBackend)(nil)

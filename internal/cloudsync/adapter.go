package cloudsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go-erp-sync/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// AnonymousWriter is the identity used when no credentials are configured.
const AnonymousWriter = "system"

type State int32

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// SyncUpResult reports what SyncUp pushed.
type SyncUpResult struct {
	Products    int      `json:"products"`
	SalesPushed int      `json:"sales_pushed"`
	Keys        []string `json:"keys"`
}

// SyncDownResult reports which collections SyncDown overwrote.
type SyncDownResult struct {
	Products        int  `json:"products"`
	Sales           int  `json:"sales"`
	ProductsApplied bool `json:"products_applied"`
	SalesApplied    bool `json:"sales_applied"`
}

type Option func(*Adapter)

// WithCredentials makes Init log in; writes are then stamped with email.
func WithCredentials(email, password string) Option {
	return func(a *Adapter) {
		a.email = email
		a.password = password
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// Adapter mirrors inventory and sales between a LocalStore and a Backend.
// Clients, employees and suppliers are never touched.
type Adapter struct {
	backend Backend
	local   LocalStore
	logger  *zap.Logger

	email    string
	password string
	identity string

	state atomic.Int32

	// One lock per mirrored collection serializes pushes, pulls and live
	// updates that touch it.
	inventoryMu sync.Mutex
	salesMu     sync.Mutex
	flight      singleflight.Group
}

func New(backend Backend, local LocalStore, opts ...Option) *Adapter {
	a := &Adapter{
		backend:  backend,
		local:    local,
		logger:   zap.NewNop(),
		identity: AnonymousWriter,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) State() State {
	return State(a.state.Load())
}

// Identity is the writer recorded on remote writes.
func (a *Adapter) Identity() string {
	return a.identity
}

// Init checks the backend and logs in when credentials are configured.
// It is the only operation allowed while uninitialized.
func (a *Adapter) Init(ctx context.Context) error {
	if a.State() == StateReady {
		return nil
	}
	if err := a.backend.Ping(ctx); err != nil {
		return a.fail("init", err)
	}
	if a.email != "" {
		if err := a.backend.Login(ctx, a.email, a.password); err != nil {
			return a.fail("init", err)
		}
		a.identity = a.email
	}
	a.state.Store(int32(StateReady))
	a.logger.Info("cloud sync ready", zap.String("identity", a.identity))
	return nil
}

func (a *Adapter) ready() error {
	if a.State() != StateReady {
		return ErrNotReady
	}
	return nil
}

func (a *Adapter) fail(op string, err error) error {
	a.logger.Error("cloud sync failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

// PushInventory overwrites the remote inventory with products.
func (a *Adapter) PushInventory(ctx context.Context, products []model.Product) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.inventoryMu.Lock()
	defer a.inventoryMu.Unlock()
	return a.pushInventory(ctx, products)
}

func (a *Adapter) pushInventory(ctx context.Context, products []model.Product) error {
	if _, err := a.backend.PutInventory(ctx, products); err != nil {
		return a.fail("push inventory", err)
	}
	return nil
}

// PullInventory returns the remote products, or an empty list when the
// document was never written.
func (a *Adapter) PullInventory(ctx context.Context) ([]model.Product, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.pullInventory(ctx)
}

func (a *Adapter) pullInventory(ctx context.Context) ([]model.Product, error) {
	doc, err := a.backend.GetInventory(ctx)
	if errors.Is(err, ErrNotFound) {
		return []model.Product{}, nil
	}
	if err != nil {
		return nil, a.fail("pull inventory", err)
	}
	if doc.Products == nil {
		return []model.Product{}, nil
	}
	return doc.Products, nil
}

// PushSale appends sale remotely and returns the key the backend allocated.
func (a *Adapter) PushSale(ctx context.Context, sale model.Sale) (string, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	return a.pushSale(ctx, sale)
}

func (a *Adapter) pushSale(ctx context.Context, sale model.Sale) (string, error) {
	sale.RemoteKey = ""
	rec, err := a.backend.AppendSale(ctx, sale)
	if err != nil {
		return "", a.fail("push sale", err)
	}
	return rec.Key, nil
}

// PullSales returns at most limit of the most recent remote sales in
// storage order; limit 0 returns all of them.
func (a *Adapter) PullSales(ctx context.Context, limit int) ([]model.SaleRecord, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.pullSales(ctx, limit)
}

func (a *Adapter) pullSales(ctx context.Context, limit int) ([]model.SaleRecord, error) {
	recs, err := a.backend.ListSales(ctx, limit)
	if errors.Is(err, ErrNotFound) {
		return []model.SaleRecord{}, nil
	}
	if err != nil {
		return nil, a.fail("pull sales", err)
	}
	if recs == nil {
		recs = []model.SaleRecord{}
	}
	return recs, nil
}

// SubscribeInventory follows the remote inventory until ctx is done. Each
// pushed document that differs from the local products overwrites them and
// is handed to onChange; identical documents are ignored.
func (a *Adapter) SubscribeInventory(ctx context.Context, onChange func([]model.Product)) error {
	if err := a.ready(); err != nil {
		return err
	}
	// Frames can overlap around connect; never step back to an older document.
	var newest time.Time
	err := a.backend.WatchInventory(ctx, func(doc model.InventoryDocument) {
		if doc.LastUpdated.Before(newest) {
			a.logger.Debug("dropped stale live inventory",
				zap.Time("last_updated", doc.LastUpdated), zap.Time("newest", newest))
			return
		}
		newest = doc.LastUpdated
		products, changed, err := a.applyRemoteInventory(doc.Products)
		if err != nil {
			a.logger.Error("failed to apply live inventory", zap.Error(err))
			return
		}
		if changed && onChange != nil {
			onChange(products)
		}
	})
	if err != nil {
		return a.fail("subscribe inventory", err)
	}
	return nil
}

func (a *Adapter) applyRemoteInventory(remote []model.Product) ([]model.Product, bool, error) {
	products := make([]model.Product, len(remote))
	copy(products, remote)
	for i := range products {
		products[i].Refresh()
	}

	a.inventoryMu.Lock()
	defer a.inventoryMu.Unlock()

	same, err := sameJSON(products, a.local.Products())
	if err != nil || same {
		return products, false, err
	}
	if err := a.local.ReplaceProducts(products); err != nil {
		return products, false, err
	}
	a.logger.Info("applied live inventory", zap.Int("products", len(products)))
	return products, true, nil
}

func sameJSON(x, y interface{}) (bool, error) {
	a, err := json.Marshal(x)
	if err != nil {
		return false, err
	}
	b, err := json.Marshal(y)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

// SyncUp pushes the local inventory, then every local sale without a remote
// key, recording the returned key on the local sale. Already synced sales
// are skipped, so repeating SyncUp pushes nothing new.
func (a *Adapter) SyncUp(ctx context.Context) (*SyncUpResult, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	v, err, _ := a.flight.Do("sync-up", func() (interface{}, error) {
		return a.syncUp(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SyncUpResult), nil
}

func (a *Adapter) syncUp(ctx context.Context) (*SyncUpResult, error) {
	result := &SyncUpResult{Keys: []string{}}

	a.inventoryMu.Lock()
	products := a.local.Products()
	err := a.pushInventory(ctx, products)
	a.inventoryMu.Unlock()
	if err != nil {
		return nil, err
	}
	result.Products = len(products)

	a.salesMu.Lock()
	defer a.salesMu.Unlock()
	for _, sale := range a.local.UnsyncedSales() {
		key, err := a.pushSale(ctx, sale)
		if err != nil {
			return result, err
		}
		if _, err := a.local.MarkSaleSynced(sale.ID, key); err != nil {
			return result, a.fail("sync up", err)
		}
		result.SalesPushed++
		result.Keys = append(result.Keys, key)
	}

	a.logger.Info("sync up complete",
		zap.Int("products", result.Products),
		zap.Int("sales_pushed", result.SalesPushed),
	)
	return result, nil
}

// SyncDown pulls inventory and sales and overwrites the local collections.
// An empty pulled list means nothing to apply; it never clears local data.
func (a *Adapter) SyncDown(ctx context.Context) (*SyncDownResult, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	v, err, _ := a.flight.Do("sync-down", func() (interface{}, error) {
		return a.syncDown(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SyncDownResult), nil
}

func (a *Adapter) syncDown(ctx context.Context) (*SyncDownResult, error) {
	var (
		products []model.Product
		records  []model.SaleRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = a.pullInventory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = a.pullSales(gctx, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SyncDownResult{Products: len(products), Sales: len(records)}

	if len(products) > 0 {
		a.inventoryMu.Lock()
		err := a.local.ReplaceProducts(products)
		a.inventoryMu.Unlock()
		if err != nil {
			return nil, a.fail("sync down", err)
		}
		result.ProductsApplied = true
	}

	if len(records) > 0 {
		a.salesMu.Lock()
		err := a.local.ReplaceSales(salesFromRecords(records))
		a.salesMu.Unlock()
		if err != nil {
			return nil, a.fail("sync down", err)
		}
		result.SalesApplied = true
	}

	a.logger.Info("sync down complete",
		zap.Int("products", result.Products),
		zap.Int("sales", result.Sales),
	)
	return result, nil
}

func salesFromRecords(records []model.SaleRecord) []model.Sale {
	sales := make([]model.Sale, 0, len(records))
	for _, rec := range records {
		sale := rec.Sale
		sale.RemoteKey = rec.Key
		sales = append(sales, sale)
	}
	return sales
}

func (a *Adapter) CreateBackup(ctx context.Context) (*model.BackupSummary, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	summary, err := a.backend.CreateBackup(ctx)
	if err != nil {
		return nil, a.fail("create backup", err)
	}
	return summary, nil
}

func (a *Adapter) ListBackups(ctx context.Context) ([]model.BackupSummary, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	list, err := a.backend.ListBackups(ctx)
	if err != nil {
		return nil, a.fail("list backups", err)
	}
	if list == nil {
		list = []model.BackupSummary{}
	}
	return list, nil
}

// RestoreBackup overwrites the local inventory and sales with the backup
// stored under key.
func (a *Adapter) RestoreBackup(ctx context.Context, key string) (*model.BackupSnapshot, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	snap, err := a.backend.GetBackup(ctx, key)
	if err != nil {
		return nil, a.fail("restore backup", err)
	}

	a.inventoryMu.Lock()
	err = a.local.ReplaceProducts(snap.Inventory)
	a.inventoryMu.Unlock()
	if err != nil {
		return nil, a.fail("restore backup", err)
	}

	a.salesMu.Lock()
	err = a.local.ReplaceSales(salesFromRecords(snap.Sales))
	a.salesMu.Unlock()
	if err != nil {
		return nil, a.fail("restore backup", err)
	}

	a.logger.Info("backup restored",
		zap.String("key", key),
		zap.Int("products", len(snap.Inventory)),
		zap.Int("sales", len(snap.Sales)),
	)
	return snap, nil
}

// Package cloudsync mirrors the inventory and sales collections of a local
// store to the remote document store.
package cloudsync

import (
	"context"
	"errors"

	"go-erp-sync/internal/model"
)

var (
	// ErrNotReady is returned by every adapter operation before Init succeeds.
	ErrNotReady = errors.New("cloudsync: adapter not initialized")
	// ErrNotFound reports a remote document that has never been written.
	ErrNotFound     = errors.New("cloudsync: remote document not found")
	ErrUnauthorized = errors.New("cloudsync: unauthorized")
	ErrForbidden    = errors.New("cloudsync: forbidden")
)

// Backend is the remote document store. Every call returns a result or an
// error; absent documents are reported with ErrNotFound.
type Backend interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, email, password string) error

	GetInventory(ctx context.Context) (*model.InventoryDocument, error)
	PutInventory(ctx context.Context, products []model.Product) (*model.InventoryDocument, error)

	AppendSale(ctx context.Context, sale model.Sale) (*model.SaleRecord, error)
	// ListSales returns the last limit sales in storage order; 0 means all.
	ListSales(ctx context.Context, limit int) ([]model.SaleRecord, error)

	CreateBackup(ctx context.Context) (*model.BackupSummary, error)
	ListBackups(ctx context.Context) ([]model.BackupSummary, error)
	GetBackup(ctx context.Context, key string) (*model.BackupSnapshot, error)

	// WatchInventory calls fn for every inventory document pushed on the
	// live channel until ctx is done or the connection drops.
	WatchInventory(ctx context.Context, fn func(model.InventoryDocument)) error
}

// LocalStore is the part of the local store the adapter reads and overwrites.
type LocalStore interface {
	Products() []model.Product
	Sales() []model.Sale
	UnsyncedSales() []model.Sale
	ReplaceProducts(products []model.Product) error
	ReplaceSales(sales []model.Sale) error
	MarkSaleSynced(id int, key string) (bool, error)
}

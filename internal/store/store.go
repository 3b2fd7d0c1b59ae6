// Package store holds the local business records (clients, products,
// sales, employees, suppliers) and persists the whole state as one blob
// after every mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go-erp-sync/internal/model"
	"go-erp-sync/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	DefaultKey = "erp_data"

	// Keys of the older layout that kept inventory and sales apart.
	LegacyInventoryKey = "inventory"
	LegacySalesKey     = "sales"
)

var ErrMalformedSnapshot = errors.New("malformed snapshot")

type Option func(*Store)

// WithKey overrides the blob key the state is persisted under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger.OrNop(l)
	}
}

// Store is safe for concurrent use. Every mutation either persists or is
// rolled back.
type Store struct {
	mu        sync.RWMutex
	clients   []model.Client
	products  []model.Product
	sales     []model.Sale
	employees []model.Employee
	suppliers []model.Supplier

	blobs  fiber.Storage
	key    string
	now    func() time.Time
	logger *zap.Logger
}

// New creates an empty store. A nil blobs keeps the state in memory only.
func New(blobs fiber.Storage, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		key:    DefaultKey,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the blob key the state is persisted under.
func (s *Store) Key() string {
	return s.key
}

// State returns a copy of all five collections.
func (s *Store) State() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() model.Snapshot {
	return model.Snapshot{
		Clients:   nonNil(slices.Clone(s.clients)),
		Products:  nonNil(slices.Clone(s.products)),
		Sales:     nonNil(slices.Clone(s.sales)),
		Employees: nonNil(slices.Clone(s.employees)),
		Suppliers: nonNil(slices.Clone(s.suppliers)),
	}
}

func (s *Store) setLocked(snap model.Snapshot) {
	s.clients = slices.Clone(snap.Clients)
	s.products = slices.Clone(snap.Products)
	for i := range s.products {
		s.products[i].Refresh()
	}
	s.sales = slices.Clone(snap.Sales)
	s.employees = slices.Clone(snap.Employees)
	s.suppliers = slices.Clone(snap.Suppliers)
}

// commit applies fn and writes the full state. The previous state is
// restored when the write fails.
func (s *Store) commit(fn func()) error {
	prev := s.stateLocked()
	fn()
	if err := s.persistLocked(); err != nil {
		s.setLocked(prev)
		s.logger.Error("failed to persist local state", zap.String("key", s.key), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) persistLocked() error {
	if s.blobs == nil {
		return nil
	}
	data, err := json.Marshal(s.stateLocked())
	if err != nil {
		return fmt.Errorf("failed to encode local state: %w", err)
	}
	if err := s.blobs.Set(s.key, data, 0); err != nil {
		return fmt.Errorf("failed to persist local state: %w", err)
	}
	return nil
}

// Load rehydrates the state from blob storage. When the unified key is
// absent it migrates the legacy inventory/sales keys. It reports whether
// any state was found.
func (s *Store) Load() (bool, error) {
	if s.blobs == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.blobs.Get(s.key)
	if err != nil {
		return false, fmt.Errorf("failed to read local state: %w", err)
	}
	if len(data) > 0 {
		var snap model.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		s.setLocked(snap)
		s.logger.Info("local state loaded",
			zap.String("key", s.key),
			zap.Int("products", len(s.products)),
			zap.Int("sales", len(s.sales)),
		)
		return true, nil
	}

	return s.migrateLegacyLocked()
}

func (s *Store) migrateLegacyLocked() (bool, error) {
	inventory, err := s.blobs.Get(LegacyInventoryKey)
	if err != nil {
		return false, fmt.Errorf("failed to read legacy inventory: %w", err)
	}
	sales, err := s.blobs.Get(LegacySalesKey)
	if err != nil {
		return false, fmt.Errorf("failed to read legacy sales: %w", err)
	}
	if len(inventory) == 0 && len(sales) == 0 {
		return false, nil
	}

	var snap model.Snapshot
	if len(inventory) > 0 {
		if err := json.Unmarshal(inventory, &snap.Products); err != nil {
			return false, fmt.Errorf("%w: legacy inventory: %v", ErrMalformedSnapshot, err)
		}
	}
	if len(sales) > 0 {
		if err := json.Unmarshal(sales, &snap.Sales); err != nil {
			return false, fmt.Errorf("%w: legacy sales: %v", ErrMalformedSnapshot, err)
		}
	}

	if err := s.commit(func() { s.setLocked(snap) }); err != nil {
		return false, err
	}
	for _, key := range []string{LegacyInventoryKey, LegacySalesKey} {
		if err := s.blobs.Delete(key); err != nil {
			s.logger.Warn("failed to delete legacy key", zap.String("key", key), zap.Error(err))
		}
	}
	s.logger.Info("migrated legacy local layout",
		zap.Int("products", len(snap.Products)),
		zap.Int("sales", len(snap.Sales)),
	)
	return true, nil
}

// ExportSnapshot serializes the whole state as the export artifact.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	snap := s.stateLocked()
	s.mu.RUnlock()

	exported := s.now()
	snap.ExportDate = &exported
	return json.MarshalIndent(snap, "", "  ")
}

// ImportSnapshot replaces the whole state with the given document. The
// store is unchanged when the document does not parse.
func (s *Store) ImportSnapshot(data []byte) error {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() { s.setLocked(snap) })
}

// ExportFileName names the export artifact after the given date.
func ExportFileName(now time.Time) string {
	return "erp-backup-" + now.Format("2006-01-02") + ".json"
}

func nextID[T any](items []T, id func(T) int) int {
	highest := 0
	for _, it := range items {
		if v := id(it); v > highest {
			highest = v
		}
	}
	return highest + 1
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	if i := slices.IndexFunc(items, match); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

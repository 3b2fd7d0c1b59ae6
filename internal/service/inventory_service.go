package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-erp-sync/internal/model"
	"go-erp-sync/internal/repository"
	"go-erp-sync/internal/ws"

	"go.uber.org/zap"
)

// InventoryService owns the single inventory document.
type InventoryService interface {
	Get() (*model.InventoryDocument, error)
	Put(products []model.Product, writer string) (*model.InventoryDocument, error)
}

type inventoryService struct {
	docRepo repository.DocumentRepository
	wsHub   *ws.Hub
	logger  *zap.Logger
	now     func() time.Time
	// writeMu orders store writes and their broadcasts together.
	writeMu sync.Mutex
}

func NewInventoryService(docRepo repository.DocumentRepository, hub *ws.Hub, logger *zap.Logger) InventoryService {
	return &inventoryService{
		docRepo: docRepo,
		wsHub:   hub,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *inventoryService) Get() (*model.InventoryDocument, error) {
	doc, err := s.docRepo.Get(model.InventoryPath)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var inv model.InventoryDocument
	if err := json.Unmarshal(doc.Body, &inv); err != nil {
		return nil, fmt.Errorf("corrupt inventory document: %w", err)
	}
	if inv.Products == nil {
		inv.Products = []model.Product{}
	}
	return &inv, nil
}

// Put replaces the whole document; the timestamp and writer come from the server.
func (s *inventoryService) Put(products []model.Product, writer string) (*model.InventoryDocument, error) {
	if products == nil {
		products = []model.Product{}
	}
	for i := range products {
		products[i].Refresh()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	inv := &model.InventoryDocument{
		Products:    products,
		LastUpdated: s.now().UTC(),
		UpdatedBy:   writer,
	}
	body, err := json.Marshal(inv)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.Put(&model.Document{
		Path:      model.InventoryPath,
		Body:      body,
		UpdatedAt: inv.LastUpdated,
		UpdatedBy: writer,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("inventory overwritten", zap.Int("products", len(products)), zap.String("by", writer))
	s.wsHub.Publish(ws.TypeInventoryUpdate, inv)
	return inv, nil
}

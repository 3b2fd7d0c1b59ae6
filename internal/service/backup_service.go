package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-erp-sync/internal/model"
	"go-erp-sync/internal/repository"
	"go-erp-sync/internal/ws"

	"go.uber.org/zap"
)

type BackupService interface {
	Create(writer string) (*model.BackupSummary, error)
	List() ([]model.BackupSummary, error)
	Get(key string) (*model.BackupSnapshot, error)
}

type backupService struct {
	inventory  InventoryService
	saleRepo   repository.SaleRepository
	backupRepo repository.BackupRepository
	wsHub      *ws.Hub
	logger     *zap.Logger
	now        func() time.Time
}

func NewBackupService(inventory InventoryService, saleRepo repository.SaleRepository, backupRepo repository.BackupRepository, hub *ws.Hub, logger *zap.Logger) BackupService {
	return &backupService{
		inventory:  inventory,
		saleRepo:   saleRepo,
		backupRepo: backupRepo,
		wsHub:      hub,
		logger:     logger,
		now:        time.Now,
	}
}

// Create copies the current inventory and every sale under a key derived
// from the creation time.
func (s *backupService) Create(writer string) (*model.BackupSummary, error) {
	products := []model.Product{}
	inv, err := s.inventory.Get()
	switch {
	case err == nil:
		products = inv.Products
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	rows, err := s.saleRepo.ListLast(0)
	if err != nil {
		return nil, err
	}
	sales, err := decodeSales(rows)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	snap := model.BackupSnapshot{
		Key:       strconv.FormatInt(now.UnixNano(), 10),
		Inventory: products,
		Sales:     sales,
		CreatedAt: now,
		CreatedBy: writer,
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	if err := s.backupRepo.Create(&model.Backup{
		Key:       snap.Key,
		Body:      body,
		CreatedAt: now,
		CreatedBy: writer,
	}); err != nil {
		return nil, err
	}

	summary := summarize(snap)
	s.logger.Info("backup created",
		zap.String("key", snap.Key),
		zap.Int("products", summary.ProductCount),
		zap.Int("sales", summary.SaleCount),
	)
	s.wsHub.Publish(ws.TypeBackupCreated, summary)
	return &summary, nil
}

func (s *backupService) List() ([]model.BackupSummary, error) {
	backups, err := s.backupRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]model.BackupSummary, 0, len(backups))
	for _, b := range backups {
		snap, err := decodeBackup(b)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(*snap))
	}
	return out, nil
}

func (s *backupService) Get(key string) (*model.BackupSnapshot, error) {
	b, err := s.backupRepo.FindByKey(key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeBackup(*b)
}

func decodeBackup(b model.Backup) (*model.BackupSnapshot, error) {
	var snap model.BackupSnapshot
	if err := json.Unmarshal(b.Body, &snap); err != nil {
		return nil, fmt.Errorf("corrupt backup %s: %w", b.Key, err)
	}
	return &snap, nil
}

func summarize(snap model.BackupSnapshot) model.BackupSummary {
	return model.BackupSummary{
		Key:          snap.Key,
		CreatedAt:    snap.CreatedAt,
		CreatedBy:    snap.CreatedBy,
		ProductCount: len(snap.Inventory),
		SaleCount:    len(snap.Sales),
	}
}

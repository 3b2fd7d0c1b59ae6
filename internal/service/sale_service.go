package service

import (
	"encoding/json"
	"fmt"
	"time"

	"go-erp-sync/internal/model"
	"go-erp-sync/internal/repository"
	"go-erp-sync/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService manages the append-only remote sales collection.
type SaleService interface {
	Append(sale model.Sale, writer string) (*model.SaleRecord, error)
	List(limit int) ([]model.SaleRecord, error)
}

type saleService struct {
	saleRepo repository.SaleRepository
	wsHub    *ws.Hub
	logger   *zap.Logger
	now      func() time.Time
}

func NewSaleService(saleRepo repository.SaleRepository, hub *ws.Hub, logger *zap.Logger) SaleService {
	return &saleService{
		saleRepo: saleRepo,
		wsHub:    hub,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *saleService) Append(sale model.Sale, writer string) (*model.SaleRecord, error) {
	// The remote key is assigned here; a client-supplied one is ignored.
	sale.RemoteKey = ""
	body, err := json.Marshal(sale)
	if err != nil {
		return nil, err
	}

	rec := &model.RemoteSale{
		Key:      uuid.New().String(),
		Body:     body,
		SyncedAt: s.now().UTC(),
		SyncedBy: writer,
	}
	if err := s.saleRepo.Append(rec); err != nil {
		return nil, err
	}

	out := &model.SaleRecord{Key: rec.Key, Sale: sale, SyncedAt: rec.SyncedAt, SyncedBy: rec.SyncedBy}
	s.logger.Info("sale appended", zap.String("key", rec.Key), zap.Int("sale_id", sale.ID), zap.String("by", writer))
	s.wsHub.Publish(ws.TypeSaleCreated, out)
	return out, nil
}

func (s *saleService) List(limit int) ([]model.SaleRecord, error) {
	rows, err := s.saleRepo.ListLast(limit)
	if err != nil {
		return nil, err
	}
	return decodeSales(rows)
}

func decodeSales(rows []model.RemoteSale) ([]model.SaleRecord, error) {
	out := make([]model.SaleRecord, 0, len(rows))
	for _, row := range rows {
		var sale model.Sale
		if err := json.Unmarshal(row.Body, &sale); err != nil {
			return nil, fmt.Errorf("corrupt sale %s: %w", row.Key, err)
		}
		out = append(out, model.SaleRecord{
			Key:      row.Key,
			Sale:     sale,
			SyncedAt: row.SyncedAt,
			SyncedBy: row.SyncedBy,
		})
	}
	return out, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"acquisti/internal/amqp"
	"acquisti/internal/core"
	"acquisti/internal/storage"
)

// PurchaseService is the single entry point the API shell talks to. It
// validates boundary input, delegates to the repository, the stats
// engine and the bulk transfer, and announces completed writes over
// AMQP. Event publication is best-effort: a broker failure never fails
// the request, and a nil client disables it entirely.
type PurchaseService struct {
	repo       *storage.PurchaseRepository
	stats      *storage.StatsEngine
	transfer   *storage.Transfer
	amqpClient *amqp.Client
}

func NewPurchaseService(store *storage.Store, amqpClient *amqp.Client) *PurchaseService {
	return &PurchaseService{
		repo:       storage.NewPurchaseRepository(store),
		stats:      storage.NewStatsEngine(store),
		transfer:   storage.NewTransfer(store),
		amqpClient: amqpClient,
	}
}

// CreatePurchase validates and writes one purchase, returning its id.
func (s *PurchaseService) CreatePurchase(ctx context.Context, date string, items []core.Item) (string, error) {
	if err := core.ValidateNew(date, items); err != nil {
		return "", err
	}

	id, err := s.repo.Create(ctx, date, items)
	if err != nil {
		return "", fmt.Errorf("create purchase: %w", err)
	}

	s.publish(ctx, amqp.NewPurchaseCreatedMessage(id))
	return id, nil
}

// ListPurchases returns purchases matching query, date-ordered.
func (s *PurchaseService) ListPurchases(ctx context.Context, query, order string) ([]core.Purchase, error) {
	return s.repo.List(ctx, query, core.NormalizeOrder(order))
}

// DeletePurchase removes one purchase and its items.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, amqp.NewPurchaseDeletedMessage(id))
	return nil
}

// TotalInRange sums totals over the lexical date window.
func (s *PurchaseService) TotalInRange(ctx context.Context, from, to string) (core.RangeTotal, error) {
	return s.stats.TotalInRange(ctx, from, to)
}

// TopProducts ranks item groups by summed quantity.
func (s *PurchaseService) TopProducts(ctx context.Context, limit int) ([]core.ProductRank, error) {
	return s.stats.TopProducts(ctx, limit)
}

// ExportAll dumps the whole dataset.
func (s *PurchaseService) ExportAll(ctx context.Context) ([]core.Purchase, error) {
	return s.transfer.ExportAll(ctx)
}

// ImportAll atomically replaces the whole dataset.
func (s *PurchaseService) ImportAll(ctx context.Context, records []core.Purchase) error {
	imported, err := s.transfer.ImportAll(ctx, records)
	if err != nil {
		return err
	}

	s.publish(ctx, amqp.NewDatasetReplacedMessage(imported))
	return nil
}

func (s *PurchaseService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerEvent(ctx, msg); err != nil {
		// The write already landed; losing the event is acceptable.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", msg.Kind,
			"purchase_id", msg.PurchaseID,
			"error", err)
	}
}

package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertService registers price alerts and checks them against the catalog.
type AlertService struct {
	repo    domain.AlertRepository
	catalog SnapshotProvider
}

// NewAlertService creates an alert service over repo and the catalog snapshots.
func NewAlertService(repo domain.AlertRepository, catalog SnapshotProvider) *AlertService {
	return &AlertService{repo: repo, catalog: catalog}
}

// Add validates and stores an alert, returning it with its assigned ID.
func (s *AlertService) Add(ctx context.Context, alert domain.PriceAlert) (domain.PriceAlert, error) {
	if strings.TrimSpace(alert.ProductName) == "" {
		return domain.PriceAlert{}, fmt.Errorf("%w: product name is required", domain.ErrInvalidAlert)
	}
	if strings.TrimSpace(alert.Currency) == "" {
		return domain.PriceAlert{}, fmt.Errorf("%w: currency is required", domain.ErrInvalidAlert)
	}
	if !alert.TargetPrice.IsPositive() {
		return domain.PriceAlert{}, fmt.Errorf("%w: target price must be positive", domain.ErrInvalidAlert)
	}

	alert.ID = uuid.NewString()
	alert.CurrentPrice = decimal.NullDecimal{}
	alert.Store = ""

	if err := s.repo.Add(ctx, alert); err != nil {
		return domain.PriceAlert{}, err
	}

	log.Printf("[ALERT] Added alert %s: %q at %s %s", alert.ID, alert.ProductName, alert.TargetPrice, alert.Currency)
	return alert, nil
}

// List returns the registered alerts.
func (s *AlertService) List(ctx context.Context) ([]domain.PriceAlert, error) {
	return s.repo.List(ctx)
}

// CheckAll checks every registered alert against the current catalog snapshot.
func (s *AlertService) CheckAll(ctx context.Context) ([]domain.PriceAlert, error) {
	alerts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	return s.Check(alerts, s.catalog.Snapshot().Products), nil
}

// Check reports, for every alert with a currency, each catalog offer whose
// normalized name equals the alert's, whose currency matches ignoring case,
// and whose price is at or below the target.
func (s *AlertService) Check(alerts []domain.PriceAlert, catalog []domain.Product) []domain.PriceAlert {
	triggered := []domain.PriceAlert{}
	if len(alerts) == 0 || len(catalog) == 0 {
		return triggered
	}

	indexed := indexCatalog(catalog)

	for _, alert := range alerts {
		if strings.TrimSpace(alert.Currency) == "" {
			log.Printf("[ALERT] Skipping alert for %q without currency", alert.ProductName)
			continue
		}

		name := Normalize(alert.ProductName)
		if name == "" {
			continue
		}

		for _, p := range indexed {
			if p.name != name || p.product.Currency == "" || !p.product.Price.IsPositive() {
				continue
			}
			if !strings.EqualFold(p.product.Currency, alert.Currency) {
				continue
			}
			if p.product.Price.GreaterThan(alert.TargetPrice) {
				continue
			}

			triggered = append(triggered, domain.PriceAlert{
				ID:           alert.ID,
				ProductName:  p.product.ProductName,
				TargetPrice:  alert.TargetPrice,
				Currency:     alert.Currency,
				CurrentPrice: decimal.NewNullDecimal(p.product.Price),
				Store:        p.product.Source,
			})
			log.Printf("[ALERT] Triggered: %q at %s %s in %s (target %s)",
				p.product.ProductName, p.product.Price, p.product.Currency, p.product.Source, alert.TargetPrice)
		}
	}

	return triggered
}

package usecase

import (
	"slices"
	"strings"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
)

// HistoryService builds price histories from dated catalog snapshots.
type HistoryService struct{}

// NewHistoryService creates a price history service
func NewHistoryService() *HistoryService {
	return &HistoryService{}
}

// History returns one entry per catalog offer matching filter, oldest first.
// The product name matches by normalized containment, brand and category
// ignoring case, and store by its strict key.
func (s *HistoryService) History(filter domain.HistoryFilter, catalog []domain.Product) []domain.PriceHistoryEntry {
	entries := []domain.PriceHistoryEntry{}

	name := Normalize(filter.ProductName)
	store := NormalizeKey(filter.Store)
	brand := strings.TrimSpace(filter.Brand)
	category := strings.TrimSpace(filter.Category)

	for _, p := range catalog {
		if p.ProductName == "" || !p.Price.IsPositive() {
			continue
		}
		if name != "" && !strings.Contains(Normalize(p.ProductName), name) {
			continue
		}
		if brand != "" && !strings.EqualFold(strings.TrimSpace(p.Brand), brand) {
			continue
		}
		if store != "" && NormalizeKey(p.Source) != store {
			continue
		}
		if category != "" && !strings.EqualFold(strings.TrimSpace(p.ProductCategory), category) {
			continue
		}

		entries = append(entries, domain.PriceHistoryEntry{
			ProductName: p.ProductName,
			Brand:       p.Brand,
			Store:       p.Source,
			Category:    p.ProductCategory,
			Date:        p.SnapshotDate,
			Price:       p.Price,
		})
	}

	slices.SortStableFunc(entries, func(a, b domain.PriceHistoryEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := strings.Compare(a.Store, b.Store); c != 0 {
			return c
		}
		return strings.Compare(a.ProductName, b.ProductName)
	})

	return entries
}

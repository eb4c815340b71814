package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
)

// SnapshotProvider hands out the catalog snapshot a call should work on.
type SnapshotProvider interface {
	Snapshot() *domain.Snapshot
}

// CatalogService owns the current catalog snapshot. Readers get one immutable
// snapshot per call; Reload swaps in a new one atomically.
type CatalogService struct {
	loader  domain.CatalogLoader
	current atomic.Pointer[domain.Snapshot]
	mu      sync.Mutex // serializes reloads
	hooks   []func(*domain.Snapshot)
	now     func() time.Time
}

// NewCatalogService creates a catalog service holding an empty snapshot until
// the first Reload.
func NewCatalogService(loader domain.CatalogLoader) *CatalogService {
	s := &CatalogService{loader: loader, now: time.Now}
	s.current.Store(&domain.Snapshot{})
	return s
}

// Snapshot returns the current snapshot. It is never nil.
func (s *CatalogService) Snapshot() *domain.Snapshot {
	return s.current.Load()
}

// OnReload registers fn to run after every successful reload, with the new
// snapshot. Hooks run while reloads are serialized.
func (s *CatalogService) OnReload(fn func(*domain.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Reload loads the catalog again and publishes it. On failure the previous
// snapshot stays current.
func (s *CatalogService) Reload(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[CATALOG] Reloading catalog")
	products, discounts, err := s.loader.Load(ctx)
	if err != nil {
		log.Printf("[CATALOG] Reload failed, keeping version %d: %v", s.Snapshot().Version, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	next := &domain.Snapshot{
		Products:  products,
		Discounts: discounts,
		LoadedAt:  s.now(),
		Version:   s.Snapshot().Version + 1,
	}
	s.current.Store(next)

	log.Printf("[CATALOG] Loaded version %d: %d products, %d discounts", next.Version, len(products), len(discounts))
	for _, hook := range s.hooks {
		hook(next)
	}
	return next, nil
}

// RunPeriodicReload reloads the catalog every interval until ctx is done.
func (s *CatalogService) RunPeriodicReload(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				log.Printf("[CATALOG] Periodic reload error: %v", err)
			}
		}
	}
}

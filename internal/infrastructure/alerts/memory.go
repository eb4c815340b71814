package alerts

import (
	"context"
	"slices"
	"sync"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory alert repository. Alerts live for the
// lifetime of the process.
type MemoryStore struct {
	alerts []domain.PriceAlert
	mutex  sync.RWMutex
}

// NewMemoryStore creates an empty alert store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add appends an alert
func (s *MemoryStore) Add(ctx context.Context, alert domain.PriceAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.alerts = append(s.alerts, alert)
	return nil
}

// List returns a copy of the stored alerts in insertion order
func (s *MemoryStore) List(ctx context.Context) ([]domain.PriceAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if len(s.alerts) == 0 {
		return []domain.PriceAlert{}, nil
	}
	return slices.Clone(s.alerts), nil
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	products []domain.Product
	err      error
	calls    int
}

func (l *stubLoader) Load(_ context.Context) ([]domain.Product, []domain.Discount, error) {
	l.calls++
	if l.err != nil {
		return nil, nil, l.err
	}
	return l.products, []domain.Discount{{ProductName: "lapte"}}, nil
}

func TestCatalogService_Reload(t *testing.T) {
	ctx := context.Background()
	loader := &stubLoader{products: milkCatalog()}
	svc := NewCatalogService(loader)

	t.Run("starts with an empty snapshot", func(t *testing.T) {
		snapshot := svc.Snapshot()
		require.NotNil(t, snapshot)
		assert.Empty(t, snapshot.Products)
		assert.Zero(t, snapshot.Version)
	})

	t.Run("publishes a new version", func(t *testing.T) {
		snapshot, err := svc.Reload(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), snapshot.Version)
		assert.Len(t, snapshot.Products, len(milkCatalog()))
		assert.Len(t, snapshot.Discounts, 1)
		assert.Same(t, snapshot, svc.Snapshot())
	})

	t.Run("keeps the previous snapshot on failure", func(t *testing.T) {
		previous := svc.Snapshot()
		loader.err = errors.New("disk on fire")

		_, err := svc.Reload(ctx)
		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
		assert.Same(t, previous, svc.Snapshot())
		loader.err = nil
	})
}

func TestCatalogService_OnReload(t *testing.T) {
	loader := &stubLoader{products: milkCatalog()}
	svc := NewCatalogService(loader)

	var versions []uint64
	svc.OnReload(func(s *domain.Snapshot) {
		versions = append(versions, s.Version)
	})

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	loader.err = errors.New("unreachable")
	_, err = svc.Reload(context.Background())
	require.Error(t, err)

	loader.err = nil
	_, err = svc.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestCatalogService_RunPeriodicReload(t *testing.T) {
	loader := &stubLoader{products: milkCatalog()}
	svc := NewCatalogService(loader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunPeriodicReload(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return svc.Snapshot().Version >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("periodic reload did not stop")
	}
}

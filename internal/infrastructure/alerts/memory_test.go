package alerts

import (
	"context"
	"sync"
	"testing"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	require.NoError(t, store.Add(ctx, domain.PriceAlert{ID: "1", ProductName: "lapte"}))
	require.NoError(t, store.Add(ctx, domain.PriceAlert{ID: "2", ProductName: "paine"}))

	list, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)

	list[0].ProductName = "changed"
	again, _ := store.List(ctx)
	assert.Equal(t, "lapte", again[0].ProductName, "List must return a copy")
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore()
	assert.ErrorIs(t, store.Add(ctx, domain.PriceAlert{ID: "1"}), context.Canceled)

	_, err := store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Add(ctx, domain.PriceAlert{ProductName: "lapte"})
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

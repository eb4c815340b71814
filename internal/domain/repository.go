package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogSource opens named catalog files. Open returns ErrSourceNotFound when
// the file does not exist.
type CatalogSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// CatalogLoader produces a fresh set of catalog records.
type CatalogLoader interface {
	Load(ctx context.Context) ([]Product, []Discount, error)
}

// AlertRepository stores user price alerts
type AlertRepository interface {
	Add(ctx context.Context, alert PriceAlert) error
	List(ctx context.Context) ([]PriceAlert, error)
}

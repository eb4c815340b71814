package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when no catalog product matches a requested name
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidAlert is returned when a price alert misses its name, currency or a positive target
	ErrInvalidAlert = errors.New("invalid price alert")

	// ErrCatalogUnavailable is returned when no catalog snapshot could be loaded
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrSourceNotFound is returned when a catalog file does not exist at its source
	ErrSourceNotFound = errors.New("catalog source not found")

	// ErrSourceFailure is returned when a catalog source cannot be read
	ErrSourceFailure = errors.New("catalog source request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

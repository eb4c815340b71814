package domain

import "github.com/shopspring/decimal"

// PriceAlert is a user's request to be told when a product drops to a target price.
// The same shape reports a triggered alert, in which case CurrentPrice and Store
// describe the matching offer.
type PriceAlert struct {
	ID           string              `json:"id,omitempty"`
	ProductName  string              `json:"productName" binding:"required"`
	TargetPrice  decimal.Decimal     `json:"targetPrice"`
	Currency     string              `json:"currency" binding:"required"`
	CurrentPrice decimal.NullDecimal `json:"currentPrice"`
	Store        string              `json:"store,omitempty"`
}

// IsTriggered reports whether the alert describes a matched offer.
func (a PriceAlert) IsTriggered() bool {
	return a.CurrentPrice.Valid
}

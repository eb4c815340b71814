package domain

import "github.com/shopspring/decimal"

// BasketItem is one requested line of a shopping basket.
type BasketItem struct {
	ProductName string `json:"productName" binding:"required"`
	Brand       string `json:"brand,omitempty"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	Source      string `json:"source,omitempty"` // optional store hint
}

// Basket is an ordered list of items. Duplicate names are allowed and are
// grouped at optimization time.
type Basket struct {
	Items []BasketItem `json:"items" binding:"dive"`
}

// OptimizedBasketItem is the cheapest offer resolved for one grouped basket entry.
type OptimizedBasketItem struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Store       string          `json:"store"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// NewOptimizedBasketItem prices quantity units of product.
func NewOptimizedBasketItem(product Product, quantity int) OptimizedBasketItem {
	return OptimizedBasketItem{
		ProductName: product.ProductName,
		Quantity:    quantity,
		Store:       product.Source,
		UnitPrice:   product.Price,
		TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// OptimizedShoppingList holds the optimized items bought at one store.
type OptimizedShoppingList struct {
	Store     string                `json:"store"`
	Items     []OptimizedBasketItem `json:"items"`
	TotalCost decimal.Decimal       `json:"totalCost"`
}

// NewOptimizedShoppingList sums the total prices of items into TotalCost.
func NewOptimizedShoppingList(store string, items []OptimizedBasketItem) OptimizedShoppingList {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return OptimizedShoppingList{Store: store, Items: items, TotalCost: total}
}

// OptimizationResult is a flat optimization plus the basket names nothing matched.
type OptimizationResult struct {
	Items     []OptimizedBasketItem `json:"items"`
	Unmatched []string              `json:"unmatched"`
}

// MatchResult is the catalog product resolved for a requested name.
type MatchResult struct {
	Product       Product  `json:"product"`
	Score         float64  `json:"score"` // 1 for exact name matches, Jaccard score otherwise
	Exact         bool     `json:"exact"`
	MatchedTokens []string `json:"matchedTokens,omitempty"`
}

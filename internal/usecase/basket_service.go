package usecase

import (
	"context"
	"errors"
	"log"
	"slices"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
)

// BasketService turns a shopping basket into the cheapest catalog offers.
type BasketService struct {
	matcher            *MatchingService
	enableDebugLogging bool
}

// NewBasketService creates a basket optimizer backed by matcher
func NewBasketService(matcher *MatchingService, enableDebugLogging bool) *BasketService {
	return &BasketService{
		matcher:            matcher,
		enableDebugLogging: enableDebugLogging,
	}
}

// basketGroup is every basket line sharing one normalized product name.
type basketGroup struct {
	name     string // first name as written by the user
	key      string
	quantity int
}

// groupBasket merges lines by normalized name, summing quantities, in order of
// first appearance. Brand is not part of the key. Lines without a usable name
// or with a non-positive quantity are ignored.
func groupBasket(items []domain.BasketItem) []basketGroup {
	var groups []basketGroup
	positions := make(map[string]int)

	for _, item := range items {
		key := Normalize(item.ProductName)
		if key == "" || item.Quantity <= 0 {
			continue
		}
		if i, ok := positions[key]; ok {
			groups[i].quantity += item.Quantity
			continue
		}
		positions[key] = len(groups)
		groups = append(groups, basketGroup{name: item.ProductName, key: key, quantity: item.Quantity})
	}

	return groups
}

// Optimize finds the cheapest matching offer for every distinct basket item.
// Items nothing matches are left out of the result.
func (s *BasketService) Optimize(
	ctx context.Context,
	basket []domain.BasketItem,
	catalog []domain.Product,
) ([]domain.OptimizedBasketItem, error) {
	result, err := s.OptimizeDetailed(ctx, basket, catalog)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// OptimizeDetailed is Optimize that also reports the basket names left unmatched.
func (s *BasketService) OptimizeDetailed(
	ctx context.Context,
	basket []domain.BasketItem,
	catalog []domain.Product,
) (domain.OptimizationResult, error) {
	result := domain.OptimizationResult{
		Items:     []domain.OptimizedBasketItem{},
		Unmatched: []string{},
	}

	groups := groupBasket(basket)
	if len(groups) == 0 {
		return result, nil
	}
	if len(catalog) == 0 {
		log.Printf("[OPTIMIZE] Catalog is empty, %d basket items left unmatched", len(groups))
		for _, g := range groups {
			result.Unmatched = append(result.Unmatched, g.name)
		}
		return result, nil
	}

	indexed := indexCatalog(catalog)

	for _, g := range groups {
		match, err := s.matcher.FindBestMatch(ctx, g.key, indexed)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				log.Printf("[OPTIMIZE] No match (exact or similarity) for basket item %q", g.key)
				result.Unmatched = append(result.Unmatched, g.name)
				continue
			}
			return domain.OptimizationResult{}, err
		}

		if s.enableDebugLogging {
			log.Printf("[OPTIMIZE] %q x%d -> %q at %s (%s, exact=%v)",
				g.key, g.quantity, match.Product.ProductName, match.Product.Source, match.Product.Price, match.Exact)
		}
		result.Items = append(result.Items, domain.NewOptimizedBasketItem(match.Product, g.quantity))
	}

	log.Printf("[OPTIMIZE] Basket optimized: %d of %d items matched", len(result.Items), len(groups))
	return result, nil
}

// OptimizeAndSplitByStore optimizes the basket and groups the picks into one
// shopping list per store, ordered by store name.
func (s *BasketService) OptimizeAndSplitByStore(
	ctx context.Context,
	basket []domain.BasketItem,
	catalog []domain.Product,
) ([]domain.OptimizedShoppingList, error) {
	items, err := s.Optimize(ctx, basket, catalog)
	if err != nil {
		return nil, err
	}
	return SplitByStore(items), nil
}

// SplitByStore groups optimized items by store. No item is dropped or duplicated.
func SplitByStore(items []domain.OptimizedBasketItem) []domain.OptimizedShoppingList {
	byStore := make(map[string][]domain.OptimizedBasketItem)
	var stores []string
	for _, item := range items {
		if _, ok := byStore[item.Store]; !ok {
			stores = append(stores, item.Store)
		}
		byStore[item.Store] = append(byStore[item.Store], item)
	}

	slices.Sort(stores)

	lists := make([]domain.OptimizedShoppingList, 0, len(stores))
	for _, store := range stores {
		lists = append(lists, domain.NewOptimizedShoppingList(store, byStore[store]))
	}
	return lists
}

package usecase

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
)

// DefaultMaxAlternatives caps the number of suggested products.
const DefaultMaxAlternatives = 5

// RecommendationConfig holds configuration for the recommendation service
type RecommendationConfig struct {
	MaxAlternatives    int
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// RecommendationService suggests products with a better price per standard unit.
type RecommendationService struct {
	cache              domain.CacheRepository
	catalog            SnapshotProvider
	maxAlternatives    int
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewRecommendationService creates a recommendation service. cache and catalog
// are only needed by Recommend.
func NewRecommendationService(
	cache domain.CacheRepository,
	catalog SnapshotProvider,
	config RecommendationConfig,
) *RecommendationService {
	maxAlternatives := config.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = DefaultMaxAlternatives
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	return &RecommendationService{
		cache:              cache,
		catalog:            catalog,
		maxAlternatives:    maxAlternatives,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Recommend runs BetterValueAlternatives against the current catalog snapshot.
// Results are cached per snapshot version, so a reload never serves stale picks.
func (s *RecommendationService) Recommend(ctx context.Context, query string) ([]domain.Product, error) {
	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	snapshot := s.catalog.Snapshot()

	cacheKey := s.generateCacheKey(snapshot.Version, query)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			if products, ok := cached.([]domain.Product); ok {
				return slices.Clone(products), nil
			}
		}
	}

	products, err := s.BetterValueAlternatives(ctx, query, snapshot.Products)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, slices.Clone(products), s.cacheTTL); err != nil {
			log.Printf("[RECOMMEND] Failed to cache result for %q: %v", query, err)
		}
	}

	return products, nil
}

// generateCacheKey creates a cache key from the snapshot version and query.
// Format: "recommend:{version}:{normalized_query}"
func (s *RecommendationService) generateCacheKey(version uint64, query string) string {
	return fmt.Sprintf("recommend:%d:%s", version, Normalize(query))
}

// BetterValueAlternatives finds a reference product for query and suggests
// related products of the same category, currency and unit type that cost
// strictly less per standard unit.
//
// The reference is the cheapest per unit among products whose normalized name
// contains the query, exact name matches first. When nothing is cheaper the
// other name matches comparable to the reference are returned instead, and
// failing those the reference alone.
func (s *RecommendationService) BetterValueAlternatives(
	ctx context.Context,
	query string,
	catalog []domain.Product,
) ([]domain.Product, error) {
	normalizedQuery := Normalize(query)
	if normalizedQuery == "" || len(catalog) == 0 {
		return []domain.Product{}, nil
	}

	indexed := indexCatalog(catalog)

	var candidates []int
	for i, p := range indexed {
		if !p.product.HasStandardPrice() || p.product.Currency == "" {
			continue
		}
		if strings.Contains(p.name, normalizedQuery) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		log.Printf("[RECOMMEND] No suitable reference product for query %q", query)
		return []domain.Product{}, nil
	}

	slices.SortStableFunc(candidates, func(a, b int) int {
		exactA, exactB := indexed[a].name == normalizedQuery, indexed[b].name == normalizedQuery
		if exactA != exactB {
			if exactA {
				return -1
			}
			return 1
		}
		return indexed[a].product.PricePerStandardUnit.Decimal.Cmp(indexed[b].product.PricePerStandardUnit.Decimal)
	})

	refIndex := candidates[0]
	ref := indexed[refIndex].product
	refUnitPrice := ref.PricePerStandardUnit.Decimal

	if s.enableDebugLogging {
		log.Printf("[RECOMMEND] Reference for %q: %q (%s), %s %s/%s, type %s",
			query, ref.ProductName, ref.Source, refUnitPrice.StringFixed(2), ref.Currency, ref.StandardUnit, ref.BaseUnitType)
	}

	sameClass := func(p domain.Product) bool {
		return p.HasStandardPrice() &&
			p.BaseUnitType == ref.BaseUnitType &&
			p.Currency == ref.Currency &&
			p.ProductCategory == ref.ProductCategory
	}

	var alternatives []domain.Product
	for i, p := range indexed {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if i == refIndex || !sameClass(p.product) {
			continue
		}
		if !isPotentiallyRelated(p.name, normalizedQuery, ref.BaseUnitType) {
			continue
		}
		if p.product.PricePerStandardUnit.Decimal.LessThan(refUnitPrice) {
			alternatives = append(alternatives, p.product)
		}
	}

	if len(alternatives) > 0 {
		slices.SortStableFunc(alternatives, func(a, b domain.Product) int {
			if c := a.PricePerStandardUnit.Decimal.Cmp(b.PricePerStandardUnit.Decimal); c != 0 {
				return c
			}
			return compareNames(a, b)
		})
		return s.limit(alternatives), nil
	}

	var variants []domain.Product
	for _, i := range candidates {
		if i != refIndex && sameClass(indexed[i].product) {
			variants = append(variants, indexed[i].product)
		}
	}

	if len(variants) > 0 {
		log.Printf("[RECOMMEND] No better value for %q, returning %d comparable variants", query, len(variants))
		slices.SortStableFunc(variants, func(a, b domain.Product) int {
			if c := a.PricePerStandardUnit.Decimal.Cmp(b.PricePerStandardUnit.Decimal); c != 0 {
				return c
			}
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c
			}
			return compareNames(a, b)
		})
		return s.limit(variants), nil
	}

	if ref.PricePerStandardUnit.Valid {
		log.Printf("[RECOMMEND] No alternatives for %q, returning the reference product", query)
		return []domain.Product{ref}, nil
	}
	return []domain.Product{}, nil
}

func (s *RecommendationService) limit(products []domain.Product) []domain.Product {
	if len(products) > s.maxAlternatives {
		return products[:s.maxAlternatives]
	}
	return products
}

func compareNames(a, b domain.Product) int {
	return cmp.Compare(strings.ToLower(a.ProductName), strings.ToLower(b.ProductName))
}

// isPotentiallyRelated decides whether a normalized product name is close enough
// to the normalized query to be suggested. Countable goods need name containment;
// weighed or measured goods also accept a shared token of three or more letters.
func isPotentiallyRelated(productName, query string, unitType domain.BaseUnitType) bool {
	if productName == "" || query == "" {
		return false
	}

	if unitType == domain.UnitTypeCount {
		if len(strings.Fields(query)) <= 2 {
			return strings.Contains(productName, query) || strings.Contains(query, productName)
		}
		return strings.Contains(productName, query)
	}

	return strings.Contains(productName, query) || sharesKeyTokens(productName, query)
}

// sharesKeyTokens reports whether two names share a token of at least three characters.
func sharesKeyTokens(a, b string) bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(a) {
		if len(t) >= 3 {
			tokens[t] = true
		}
	}
	for _, t := range strings.Fields(b) {
		if len(t) >= 3 && tokens[t] {
			return true
		}
	}
	return false
}

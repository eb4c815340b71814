package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
)

// DefaultMinSimilarity is the lowest token overlap accepted by the fallback matcher.
const DefaultMinSimilarity = 0.2

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinSimilarity      float64
	EnableDebugLogging bool
}

// MatchingService resolves free-text product names to catalog products.
// An exact normalized-name match always wins; token overlap is only the fallback.
type MatchingService struct {
	minSimilarity      float64
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.MinSimilarity
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMinSimilarity
	}

	return &MatchingService{
		minSimilarity:      threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// indexedProduct caches the normalized name and token set of a catalog product
// for the duration of one call.
type indexedProduct struct {
	product domain.Product
	name    string
	tokens  []string
}

// indexCatalog normalizes every product name once.
func indexCatalog(products []domain.Product) []indexedProduct {
	indexed := make([]indexedProduct, 0, len(products))
	for _, p := range products {
		name := Normalize(p.ProductName)
		indexed = append(indexed, indexedProduct{
			product: p,
			name:    name,
			tokens:  strings.Fields(name),
		})
	}
	return indexed
}

// FindBestMatch finds the catalog product for a requested name.
//
// Products whose normalized name equals the normalized request are exact
// matches and the cheapest one is returned. Without an exact match every
// product is scored by token overlap; the highest score at or above the
// threshold wins, ties going to the lower price. Returns ErrProductNotFound
// when nothing qualifies.
func (s *MatchingService) FindBestMatch(
	ctx context.Context,
	productName string,
	catalog []indexedProduct,
) (*domain.MatchResult, error) {
	normalized := Normalize(productName)
	if normalized == "" || len(catalog) == 0 {
		return nil, domain.ErrProductNotFound
	}

	var exact *indexedProduct
	for i := range catalog {
		candidate := &catalog[i]
		if !isMatchable(candidate) || candidate.name != normalized {
			continue
		}
		if exact == nil || candidate.product.Price.LessThan(exact.product.Price) {
			exact = candidate
		}
	}

	if exact != nil {
		if s.enableDebugLogging {
			log.Printf("[MATCH] Exact match for %q: %q from %s at %s",
				normalized, exact.product.ProductName, exact.product.Source, exact.product.Price)
		}
		return &domain.MatchResult{
			Product:       exact.product,
			Score:         1,
			Exact:         true,
			MatchedTokens: exact.tokens,
		}, nil
	}

	queryTokens := strings.Fields(normalized)

	var best *indexedProduct
	bestScore := 0.0
	for i := range catalog {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidate := &catalog[i]
		if !isMatchable(candidate) {
			continue
		}

		score := tokenOverlap(queryTokens, candidate.tokens)
		if score < s.minSimilarity {
			continue
		}

		if best == nil || score > bestScore ||
			(score == bestScore && candidate.product.Price.LessThan(best.product.Price)) {
			best = candidate
			bestScore = score
		}
	}

	if best == nil {
		if s.enableDebugLogging {
			log.Printf("[MATCH] No match for %q (threshold %.2f)", normalized, s.minSimilarity)
		}
		return nil, domain.ErrProductNotFound
	}

	_, matched := findIntersection(queryTokens, best.tokens)

	if s.enableDebugLogging {
		log.Printf("[MATCH] Similarity match for %q: %q from %s at %s (score: %.2f, matched: %v)",
			normalized, best.product.ProductName, best.product.Source, best.product.Price, bestScore, matched)
	}

	return &domain.MatchResult{
		Product:       best.product,
		Score:         bestScore,
		MatchedTokens: matched,
	}, nil
}

// isMatchable excludes rows that cannot be offered: no name or no price.
func isMatchable(p *indexedProduct) bool {
	return p.name != "" && p.product.Price.IsPositive()
}

// TokenOverlap returns the Jaccard index of the token sets of two product names,
// both normalized first. Empty token sets score 0.
func TokenOverlap(nameA, nameB string) float64 {
	return tokenOverlap(tokenize(nameA), tokenize(nameB))
}

// tokenize splits a normalized name on whitespace.
func tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

func tokenOverlap(tokens1, tokens2 []string) float64 {
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	intersection, _ := findIntersection(tokens1, tokens2)
	union := findUnion(tokens1, tokens2)
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool, len(tokens1))
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool, len(tokens1)+len(tokens2))
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// fileNamePattern matches "<store>_<yyyy-mm-dd>.csv" and
// "<store>_discounts_<yyyy-mm-dd>.csv" (or "discounts-").
var fileNamePattern = regexp.MustCompile(`(?i)^([^_]+)_(?:discounts[_-])?(\d{4}-\d{2}-\d{2})\.csv$`)

// FileInfo is what a catalog file name says about its contents.
type FileInfo struct {
	Source string
	Date   time.Time // zero when the name carries no date
}

// ParseFileName extracts the store and snapshot date from a catalog file name.
// The store is the lowercased text before the first underscore, or "unknown".
func ParseFileName(name string) FileInfo {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))

	info := FileInfo{Source: "unknown"}
	if i := strings.Index(base, "_"); i > 0 {
		info.Source = strings.ToLower(base[:i])
	}

	if m := fileNamePattern.FindStringSubmatch(base); m != nil {
		if t, err := time.Parse(domain.DateLayout, m[2]); err == nil {
			info.Date = t
		}
	}
	return info
}

// DefaultConcurrency is how many catalog files are read at once.
const DefaultConcurrency = 4

// Loader reads the configured product and discount files from a source.
type Loader struct {
	source        domain.CatalogSource
	productFiles  []string
	discountFiles []string
	concurrency   int
}

// NewLoader creates a loader over source for the given file lists
func NewLoader(source domain.CatalogSource, productFiles, discountFiles []string) *Loader {
	return &Loader{
		source:        source,
		productFiles:  productFiles,
		discountFiles: discountFiles,
		concurrency:   DefaultConcurrency,
	}
}

// fileResult is the outcome of reading one configured file.
type fileResult struct {
	products  []domain.Product
	discounts []domain.Discount
	err       error
}

// Load reads every configured file. Missing or unreadable files are logged and
// skipped; only a cancelled context or a source that yields nothing at all is
// an error. Records keep the order of the configured file lists.
func (l *Loader) Load(ctx context.Context) ([]domain.Product, []domain.Discount, error) {
	total := len(l.productFiles) + len(l.discountFiles)
	results := make([]fileResult, total)

	var g errgroup.Group
	g.SetLimit(max(l.concurrency, 1))

	for i, name := range l.productFiles {
		i, name := i, name
		g.Go(func() error {
			products, err := l.loadProducts(ctx, name)
			results[i] = fileResult{products: products, err: err}
			return nil
		})
	}
	for i, name := range l.discountFiles {
		i, name := i, name
		g.Go(func() error {
			discounts, err := l.loadDiscounts(ctx, name)
			results[len(l.productFiles)+i] = fileResult{discounts: discounts, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	products := []domain.Product{}
	discounts := []domain.Discount{}
	loadedFiles := 0

	for i, result := range results {
		if result.err != nil {
			logSkippedFile(l.fileName(i), result.err)
			continue
		}
		loadedFiles++
		products = append(products, result.products...)
		discounts = append(discounts, result.discounts...)
	}

	if loadedFiles == 0 && total > 0 {
		return nil, nil, fmt.Errorf("%w: none of %d catalog files could be read", domain.ErrSourceFailure, total)
	}

	log.Printf("[CATALOG] Finished loading %d files: %d products, %d discounts", loadedFiles, len(products), len(discounts))
	return products, discounts, nil
}

func (l *Loader) fileName(i int) string {
	if i < len(l.productFiles) {
		return l.productFiles[i]
	}
	return l.discountFiles[i-len(l.productFiles)]
}

func (l *Loader) loadProducts(ctx context.Context, name string) ([]domain.Product, error) {
	rc, err := l.source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	info := ParseFileName(name)
	products, skipped, err := ReadProducts(rc, info.Source, info.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	log.Printf("[CATALOG] Loaded %d products from %s (source %s, %d rows skipped)", len(products), name, info.Source, skipped)
	return products, nil
}

func (l *Loader) loadDiscounts(ctx context.Context, name string) ([]domain.Discount, error) {
	rc, err := l.source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	info := ParseFileName(name)
	discounts, skipped, err := ReadDiscounts(rc, info.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	log.Printf("[CATALOG] Loaded %d discounts from %s (source %s, %d rows skipped)", len(discounts), name, info.Source, skipped)
	return discounts, nil
}

func logSkippedFile(name string, err error) {
	if errors.Is(err, domain.ErrSourceNotFound) {
		log.Printf("[CATALOG] File not found, skipping: %s", name)
		return
	}
	log.Printf("[CATALOG] Failed to load %s, skipping: %v", name, err)
}

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog CSV column names
const (
	ColumnProductID       = "product_id"
	ColumnProductName     = "product_name"
	ColumnProductCategory = "product_category"
	ColumnBrand           = "brand"
	ColumnPackageQuantity = "package_quantity"
	ColumnPackageUnit     = "package_unit"
	ColumnPrice           = "price"
	ColumnCurrency        = "currency"
	ColumnFromDate        = "from_date"
	ColumnToDate          = "to_date"
	ColumnPercentage      = "percentage_of_discount"
	ColumnSource          = "source"
)

// errSkipRow marks a row that is readable but unusable.
var errSkipRow = errors.New("row skipped")

// row gives by-name access to one CSV record.
type row struct {
	columns map[string]int
	record  []string
}

func (r row) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// newReader returns a reader for the semicolon-separated catalog format.
func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// readHeader maps lowercased column names to their positions.
func readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty catalog file")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}
	return columns, nil
}

// parseDecimal accepts both '.' and ',' as decimal separator.
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// MapProductRow converts one product row into a Product. Rows without a name
// or without a positive price return errSkipRow. A missing quantity or unit
// keeps the row, with no standardized price.
func MapProductRow(r row, source string, snapshotDate time.Time) (domain.Product, error) {
	name := r.get(ColumnProductName)
	if name == "" {
		return domain.Product{}, errSkipRow
	}

	price, err := parseDecimal(r.get(ColumnPrice))
	if err != nil || !price.IsPositive() {
		return domain.Product{}, errSkipRow
	}

	return domain.NewProduct(domain.ProductInput{
		ProductID:       r.get(ColumnProductID),
		ProductName:     name,
		ProductCategory: r.get(ColumnProductCategory),
		Brand:           r.get(ColumnBrand),
		PackageQuantity: r.get(ColumnPackageQuantity),
		PackageUnit:     r.get(ColumnPackageUnit),
		Price:           price,
		Currency:        r.get(ColumnCurrency),
		Source:          source,
		SnapshotDate:    snapshotDate,
	}), nil
}

// MapDiscountRow converts one discount row into a Discount. A source column,
// when present and filled, overrides the source taken from the file name.
// Rows without a name or with an unreadable percentage or date return errSkipRow.
func MapDiscountRow(r row, source string) (domain.Discount, error) {
	name := r.get(ColumnProductName)
	if name == "" {
		return domain.Discount{}, errSkipRow
	}

	percentage, err := strconv.Atoi(r.get(ColumnPercentage))
	if err != nil || percentage < 0 || percentage > 100 {
		return domain.Discount{}, errSkipRow
	}

	from, err := domain.ParseDate(r.get(ColumnFromDate))
	if err != nil {
		return domain.Discount{}, errSkipRow
	}
	to, err := domain.ParseDate(r.get(ColumnToDate))
	if err != nil {
		return domain.Discount{}, errSkipRow
	}

	quantity, _ := domain.ParseQuantity(r.get(ColumnPackageQuantity))

	if s := r.get(ColumnSource); s != "" {
		source = strings.ToLower(s)
	}

	return domain.Discount{
		ProductID:            r.get(ColumnProductID),
		ProductName:          name,
		Brand:                r.get(ColumnBrand),
		PackageQuantity:      quantity,
		PackageUnit:          r.get(ColumnPackageUnit),
		ProductCategory:      r.get(ColumnProductCategory),
		FromDate:             from,
		ToDate:               to,
		PercentageOfDiscount: percentage,
		Source:               source,
	}, nil
}

// ReadProducts parses a product file. Unusable rows are skipped and counted.
func ReadProducts(r io.Reader, source string, snapshotDate time.Time) ([]domain.Product, int, error) {
	reader := newReader(r)
	columns, err := readHeader(reader)
	if err != nil {
		return nil, 0, err
	}

	var products []domain.Product
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		p, err := MapProductRow(row{columns: columns, record: record}, source, snapshotDate)
		if err != nil {
			skipped++
			continue
		}
		products = append(products, p)
	}

	return products, skipped, nil
}

// ReadDiscounts parses a discount file. Unusable rows are skipped and counted.
func ReadDiscounts(r io.Reader, source string) ([]domain.Discount, int, error) {
	reader := newReader(r)
	columns, err := readHeader(reader)
	if err != nil {
		return nil, 0, err
	}

	var discounts []domain.Discount
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		d, err := MapDiscountRow(row{columns: columns, record: record}, source)
		if err != nil {
			skipped++
			continue
		}
		discounts = append(discounts, d)
	}

	return discounts, skipped, nil
}

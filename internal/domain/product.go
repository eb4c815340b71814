package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one retailer's offer for one item on one catalog snapshot.
// Source and SnapshotDate come from the originating file name. Values are
// built by NewProduct and are not modified afterwards.
type Product struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Brand           string          `json:"brand"`
	PackageQuantity string          `json:"packageQuantity"`
	PackageUnit     string          `json:"packageUnit"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	Source          string          `json:"source"`
	SnapshotDate    time.Time       `json:"snapshotDate,omitzero"`

	StandardUnit         string              `json:"standardUnit"`
	BaseUnitType         BaseUnitType        `json:"baseUnitType"`
	PricePerStandardUnit decimal.NullDecimal `json:"pricePerStandardUnit"`
}

// ProductInput carries the raw fields of one catalog row.
type ProductInput struct {
	ProductID       string
	ProductName     string
	ProductCategory string
	Brand           string
	PackageQuantity string
	PackageUnit     string
	Price           decimal.Decimal
	Currency        string
	Source          string
	SnapshotDate    time.Time
}

// NewProduct builds a Product with its standardized metrics computed.
//
// Products in an always-count category are priced per item regardless of the
// package unit. Otherwise the price is converted into kg, l or item terms; an
// unusable quantity, unit or price leaves PricePerStandardUnit invalid.
func NewProduct(in ProductInput) Product {
	p := Product{
		ProductID:       in.ProductID,
		ProductName:     in.ProductName,
		ProductCategory: in.ProductCategory,
		Brand:           in.Brand,
		PackageQuantity: in.PackageQuantity,
		PackageUnit:     in.PackageUnit,
		Price:           in.Price,
		Currency:        in.Currency,
		Source:          in.Source,
		SnapshotDate:    in.SnapshotDate,
	}

	if IsAlwaysCountCategory(in.ProductCategory) {
		p.BaseUnitType = UnitTypeCount
		p.StandardUnit = BaseUnitItem
		if in.Price.IsPositive() {
			p.PricePerStandardUnit = decimal.NewNullDecimal(in.Price)
		}
		return p
	}

	p.BaseUnitType = BaseUnitTypeOf(in.PackageUnit)
	p.StandardUnit = BaseUnit(in.PackageUnit)
	p.PricePerStandardUnit = StandardizePrice(in.PackageQuantity, in.PackageUnit, in.Price)
	return p
}

// HasStandardPrice reports whether the product can take part in per-unit comparisons.
func (p Product) HasStandardPrice() bool {
	return p.PricePerStandardUnit.Valid && p.BaseUnitType != UnitTypeUnknown
}

// Snapshot is one immutable load of the catalog.
type Snapshot struct {
	Products  []Product
	Discounts []Discount
	LoadedAt  time.Time
	Version   uint64
}

// PriceHistoryEntry is one observed price of a product on a dated catalog snapshot.
type PriceHistoryEntry struct {
	ProductName string          `json:"productName"`
	Brand       string          `json:"brand"`
	Store       string          `json:"store"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Price       decimal.Decimal `json:"price"`
}

// HistoryFilter selects price history entries. Empty fields match everything.
type HistoryFilter struct {
	ProductName string `form:"productName"`
	Brand       string `form:"brand"`
	Store       string `form:"store"`
	Category    string `form:"category"`
}

package usecase

import (
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func newTestProduct(name, source, price, quantity, unit, category string) domain.Product {
	return domain.NewProduct(domain.ProductInput{
		ProductName:     name,
		ProductCategory: category,
		PackageQuantity: quantity,
		PackageUnit:     unit,
		Price:           decimal.RequireFromString(price),
		Currency:        "RON",
		Source:          source,
	})
}

func date(s string) *time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func fixedClock(s string) func() time.Time {
	t := *date(s)
	return func() time.Time { return t }
}

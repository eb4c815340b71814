package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the date format used by catalog files.
const DateLayout = "2006-01-02"

// Discount is a retailer promotion on one product for an inclusive date window.
// A nil bound leaves the window open on that side.
type Discount struct {
	ProductID            string          `json:"productId"`
	ProductName          string          `json:"productName"`
	Brand                string          `json:"brand"`
	PackageQuantity      decimal.Decimal `json:"packageQuantity"`
	PackageUnit          string          `json:"packageUnit"`
	ProductCategory      string          `json:"productCategory"`
	FromDate             *time.Time      `json:"fromDate,omitempty"`
	ToDate               *time.Time      `json:"toDate,omitempty"`
	PercentageOfDiscount int             `json:"percentageOfDiscount"`
	Source               string          `json:"source"`
}

// ActiveOn reports whether the discount applies on the calendar day of t.
func (d Discount) ActiveOn(t time.Time) bool {
	day := truncateToDay(t)
	if d.FromDate != nil && day.Before(truncateToDay(*d.FromDate)) {
		return false
	}
	if d.ToDate != nil && day.After(truncateToDay(*d.ToDate)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a catalog date. Blank input yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package usecase

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
)

// DiscountService answers discount queries over a catalog snapshot.
type DiscountService struct {
	now func() time.Time
}

// NewDiscountService creates a discount service. A nil clock means time.Now.
func NewDiscountService(now func() time.Time) *DiscountService {
	if now == nil {
		now = time.Now
	}
	return &DiscountService{now: now}
}

// Today returns the service's reference date.
func (s *DiscountService) Today() time.Time {
	return s.now()
}

// discountIdentity is the (name, brand, source) key a discount and a basket item
// must share. ok is false when any part is blank.
func discountIdentity(name, brand, source string) (key [3]string, ok bool) {
	key = [3]string{Normalize(name), Normalize(brand), Normalize(source)}
	for _, part := range key {
		if part == "" {
			return key, false
		}
	}
	return key, true
}

// FindDiscountsForBasket returns the discounts whose product name, brand and
// source all match a basket item. Dates are not checked here; combine with
// ActiveDiscounts for the ones running today.
func (s *DiscountService) FindDiscountsForBasket(
	basket []domain.BasketItem,
	discounts []domain.Discount,
) []domain.Discount {
	matched := []domain.Discount{}
	if len(basket) == 0 || len(discounts) == 0 {
		return matched
	}

	type keyedDiscount struct {
		key [3]string
		d   domain.Discount
	}
	keyed := make([]keyedDiscount, 0, len(discounts))
	for _, d := range discounts {
		if key, ok := discountIdentity(d.ProductName, d.Brand, d.Source); ok {
			keyed = append(keyed, keyedDiscount{key: key, d: d})
		}
	}

	for _, item := range basket {
		key, ok := discountIdentity(item.ProductName, item.Brand, item.Source)
		if !ok {
			continue
		}
		for _, kd := range keyed {
			if kd.key == key {
				matched = append(matched, kd.d)
			}
		}
	}

	return matched
}

// ActiveDiscounts keeps the discounts whose validity window contains day.
func (s *DiscountService) ActiveDiscounts(discounts []domain.Discount, day time.Time) []domain.Discount {
	active := []domain.Discount{}
	for _, d := range discounts {
		if d.ActiveOn(day) {
			active = append(active, d)
		}
	}
	return active
}

// BestDiscounts keeps the highest percentage per product name and brand
// (case-insensitive), sorted by percentage descending and truncated to limit.
func (s *DiscountService) BestDiscounts(discounts []domain.Discount, limit int) []domain.Discount {
	if limit <= 0 {
		return []domain.Discount{}
	}

	best := make(map[string]domain.Discount)
	var order []string
	for _, d := range discounts {
		key := strings.ToLower(strings.TrimSpace(d.ProductName)) + "|" + strings.ToLower(strings.TrimSpace(d.Brand))
		current, ok := best[key]
		if !ok {
			order = append(order, key)
		}
		if !ok || d.PercentageOfDiscount > current.PercentageOfDiscount {
			best[key] = d
		}
	}

	result := make([]domain.Discount, 0, len(order))
	for _, key := range order {
		result = append(result, best[key])
	}

	slices.SortStableFunc(result, func(a, b domain.Discount) int {
		if c := cmp.Compare(b.PercentageOfDiscount, a.PercentageOfDiscount); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.ProductName), strings.ToLower(b.ProductName))
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// NewDiscounts keeps discounts that started no earlier than days before today.
// Discounts without a start date are not considered new.
func (s *DiscountService) NewDiscounts(discounts []domain.Discount, days int) []domain.Discount {
	fresh := []domain.Discount{}
	if days < 0 {
		return fresh
	}

	y, m, d := s.now().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)

	for _, discount := range discounts {
		if discount.FromDate == nil {
			continue
		}
		fy, fm, fd := discount.FromDate.Date()
		from := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
		if !from.Before(cutoff) {
			fresh = append(fresh, discount)
		}
	}
	return fresh
}

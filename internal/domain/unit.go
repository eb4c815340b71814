package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BaseUnitType is the comparability class of a package unit.
type BaseUnitType string

const (
	UnitTypeWeight  BaseUnitType = "WEIGHT"
	UnitTypeVolume  BaseUnitType = "VOLUME"
	UnitTypeCount   BaseUnitType = "COUNT"
	UnitTypeUnknown BaseUnitType = "UNKNOWN"
)

// Canonical base units
const (
	BaseUnitKilogram = "kg"
	BaseUnitLiter    = "l"
	BaseUnitItem     = "item"
	baseUnitUnknown  = "unknown"
)

type unitSpec struct {
	base   string
	kind   BaseUnitType
	factor decimal.Decimal
}

// unitTable maps a lowercased package unit to its base unit and the multiplier
// that converts a quantity in that unit into the base unit.
var unitTable = func() map[string]unitSpec {
	table := map[string]unitSpec{
		"g":  {base: BaseUnitKilogram, kind: UnitTypeWeight, factor: decimal.RequireFromString("0.001")},
		"kg": {base: BaseUnitKilogram, kind: UnitTypeWeight, factor: decimal.NewFromInt(1)},
		"mg": {base: BaseUnitKilogram, kind: UnitTypeWeight, factor: decimal.RequireFromString("0.000001")},
		"ml": {base: BaseUnitLiter, kind: UnitTypeVolume, factor: decimal.RequireFromString("0.001")},
		"l":  {base: BaseUnitLiter, kind: UnitTypeVolume, factor: decimal.NewFromInt(1)},
		"cl": {base: BaseUnitLiter, kind: UnitTypeVolume, factor: decimal.RequireFromString("0.01")},
	}

	countUnits := []string{
		"unit", "units", "buc", "bucata", "pachet", "pachete", "pcs", "pc",
		"item", "items", "pack", "packs", "each", "rola", "role", "doza", "doze", "set",
	}
	for _, u := range countUnits {
		table[u] = unitSpec{base: BaseUnitItem, kind: UnitTypeCount, factor: decimal.NewFromInt(1)}
	}
	table["dozen"] = unitSpec{base: BaseUnitItem, kind: UnitTypeCount, factor: decimal.NewFromInt(12)}

	return table
}()

// alwaysCountCategories are compared per physical item whatever the nominal package unit says.
var alwaysCountCategories = map[string]bool{
	"electronice":    true,
	"electrocasnice": true,
	"it":             true,
	"telefoane":      true,
	"gaming":         true,
	"carti":          true,
	"jucarii":        true,

	// English catalog exports
	"electronics": true,
	"appliances":  true,
	"phones":      true,
	"books":       true,
	"toys":        true,
}

func cleanUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// BaseUnitTypeOf classifies a package unit. Unmapped or empty units are UNKNOWN.
func BaseUnitTypeOf(unit string) BaseUnitType {
	spec, ok := unitTable[cleanUnit(unit)]
	if !ok {
		return UnitTypeUnknown
	}
	return spec.kind
}

// BaseUnit returns the canonical unit name for unit, or the lowercased input when unmapped.
func BaseUnit(unit string) string {
	u := cleanUnit(unit)
	if u == "" {
		return baseUnitUnknown
	}
	if spec, ok := unitTable[u]; ok {
		return spec.base
	}
	return u
}

// ConversionFactor returns the multiplier converting a quantity in unit into its base unit.
// The boolean is false for unmapped units.
func ConversionFactor(unit string) (decimal.Decimal, bool) {
	spec, ok := unitTable[cleanUnit(unit)]
	if !ok {
		return decimal.Decimal{}, false
	}
	return spec.factor, true
}

// IsAlwaysCountCategory reports whether products of category are compared per item.
func IsAlwaysCountCategory(category string) bool {
	return alwaysCountCategories[strings.ToLower(strings.TrimSpace(category))]
}

// ParseQuantity parses a package quantity, accepting a comma as decimal separator.
func ParseQuantity(quantity string) (decimal.Decimal, bool) {
	q := strings.TrimSpace(quantity)
	if q == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(q, ",", "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// StandardizePrice computes price / (quantity x conversion factor).
// The result is invalid when the quantity does not parse or is not positive,
// the unit is unmapped, or the price is not positive.
func StandardizePrice(quantity, unit string, price decimal.Decimal) decimal.NullDecimal {
	if !price.IsPositive() {
		return decimal.NullDecimal{}
	}

	q, ok := ParseQuantity(quantity)
	if !ok || !q.IsPositive() {
		return decimal.NullDecimal{}
	}

	factor, ok := ConversionFactor(unit)
	if !ok {
		return decimal.NullDecimal{}
	}

	standardQuantity := q.Mul(factor)
	if !standardQuantity.IsPositive() {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(price.Div(standardQuantity))
}

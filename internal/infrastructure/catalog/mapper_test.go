package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/efteilucian/price-comaprator-backend/internal/domain"
	"github.com/efteilucian/price-comaprator-backend/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productCSV = `product_id;product_name;product_category;brand;package_quantity;package_unit;price;currency
P001;lapte zuzu;lactate;Zuzu;1;l;9.90;RON
P002;iaurt grecesc;lactate;Olympus;0,4;kg;11,50;RON
P003;telefon;telefoane;Samsung;1;buc;999;RON
P004;fara pret;lactate;Zuzu;1;l;;RON
P005;;lactate;Zuzu;1;l;3;RON
P006;fara unitate;lactate;Zuzu;1;;3;RON
P007;gratuit;lactate;Zuzu;1;l;0;RON
`

const discountCSV = `product_id;product_name;brand;package_quantity;package_unit;product_category;from_date;to_date;percentage_of_discount
P001;lapte zuzu;Zuzu;1;l;lactate;2025-05-01;2025-05-07;10
P002;iaurt grecesc;Olympus;0,4;kg;lactate;;2025-05-07;15
P003;telefon;Samsung;1;buc;telefoane;2025-05-01;2025-05-07;abc
P004;cafea;Jacobs;250;g;cafea;05/01/2025;2025-05-07;20
`

func TestReadProducts(t *testing.T) {
	day := time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC)

	products, skipped, err := ReadProducts(strings.NewReader(productCSV), "lidl", day)
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, 3, skipped)

	milk := products[0]
	assert.Equal(t, "P001", milk.ProductID)
	assert.Equal(t, "lidl", milk.Source)
	assert.Equal(t, day, milk.SnapshotDate)
	assert.Equal(t, domain.UnitTypeVolume, milk.BaseUnitType)
	assert.True(t, decimal.RequireFromString("9.9").Equal(milk.PricePerStandardUnit.Decimal))

	yogurt := products[1]
	assert.True(t, decimal.RequireFromString("11.5").Equal(yogurt.Price))
	assert.Equal(t, "kg", yogurt.StandardUnit)
	assert.True(t, decimal.RequireFromString("28.75").Equal(yogurt.PricePerStandardUnit.Decimal))

	phone := products[2]
	assert.Equal(t, domain.UnitTypeCount, phone.BaseUnitType)
	assert.True(t, decimal.RequireFromString("999").Equal(phone.PricePerStandardUnit.Decimal))

	noUnit := products[3]
	assert.Equal(t, "fara unitate", noUnit.ProductName)
	assert.Equal(t, domain.UnitTypeUnknown, noUnit.BaseUnitType)
	assert.Equal(t, "unknown", noUnit.StandardUnit)
	assert.False(t, noUnit.PricePerStandardUnit.Valid)
}

func TestReadProducts_MissingQuantityOrUnit(t *testing.T) {
	csv := `product_id;product_name;product_category;brand;package_quantity;package_unit;price;currency
P010;Paine alba;panificatie;Vel Pitar;;buc;3.50;RON
P011;Oua marimea M;oua;Lidl;10;;12.00;RON
`

	products, skipped, err := ReadProducts(strings.NewReader(csv), "lidl", time.Time{})
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.False(t, p.PricePerStandardUnit.Valid, p.ProductName)
	}

	svc := usecase.NewBasketService(usecase.NewMatchingService(usecase.MatchConfig{}), false)
	items, err := svc.Optimize(context.Background(), []domain.BasketItem{
		{ProductName: "paine alba", Quantity: 2},
		{ProductName: "Oua marimea M", Quantity: 1},
	}, products)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Paine alba", items[0].ProductName)
	assert.True(t, decimal.RequireFromString("7").Equal(items[0].TotalPrice))
	assert.Equal(t, "Oua marimea M", items[1].ProductName)
}

func TestReadProducts_HeaderOrderAndBOM(t *testing.T) {
	csv := "\ufeffPrice;Product_Name;package_unit;package_quantity;currency\n4,20;paine alba;g;500;RON\n"

	products, skipped, err := ReadProducts(strings.NewReader(csv), "kaufland", time.Time{})
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, products, 1)
	assert.Equal(t, "paine alba", products[0].ProductName)
	assert.True(t, decimal.RequireFromString("8.4").Equal(products[0].PricePerStandardUnit.Decimal))
}

func TestReadProducts_Empty(t *testing.T) {
	_, _, err := ReadProducts(strings.NewReader(""), "lidl", time.Time{})
	assert.Error(t, err)
}

func TestReadDiscounts(t *testing.T) {
	discounts, skipped, err := ReadDiscounts(strings.NewReader(discountCSV), "lidl")
	require.NoError(t, err)
	require.Len(t, discounts, 2)
	assert.Equal(t, 2, skipped)

	first := discounts[0]
	assert.Equal(t, "lapte zuzu", first.ProductName)
	assert.Equal(t, "lidl", first.Source)
	assert.Equal(t, 10, first.PercentageOfDiscount)
	require.NotNil(t, first.FromDate)
	assert.Equal(t, "2025-05-01", first.FromDate.Format(domain.DateLayout))

	second := discounts[1]
	assert.Nil(t, second.FromDate)
	assert.True(t, decimal.RequireFromString("0.4").Equal(second.PackageQuantity))
}

func TestReadDiscounts_SourceColumn(t *testing.T) {
	csv := "product_name;brand;percentage_of_discount;source\nlapte;Zuzu;10;Profi\nlapte;Zuzu;5;\n"

	discounts, _, err := ReadDiscounts(strings.NewReader(csv), "lidl")
	require.NoError(t, err)
	require.Len(t, discounts, 2)
	assert.Equal(t, "profi", discounts[0].Source)
	assert.Equal(t, "lidl", discounts[1].Source)
}

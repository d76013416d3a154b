package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

func classify(t *testing.T, rows [][]string) []*models.ParsedRow {
	t.Helper()
	headerRow, hm := ResolveHeader(rows)
	return ClassifyRows("test.csv", rows, headerRow, hm)
}

func TestClassifyRowsStickyContext(t *testing.T) {
	rows := [][]string{
		{"Brand", "Area", "Colour", "Product Name", "Packed Case", "Size"},
		{"Klawer Cellars", "", "", "", "", ""}, // brand section header
		{"White Wine"},                         // colour section marker
		{"", "Olifants River", "", "Chardonnay", "12", "750ml"},
		// No colour token and no varietal in the name: inherits WHITE
		// from the section marker above.
		{"", "Olifants River", "", "House Cuvee No 3", "12", "750ml"},
		{"", "Olifants River", "RED", "Mystery Blend", "6", "750ml"},
		{"", "Olifants River", "", "House Cuvee No 5", "12", "750ml"},
	}

	parsed := classify(t, rows)
	require.Len(t, parsed, 5)

	header := parsed[0]
	assert.True(t, header.IsSectionHeader)
	assert.Equal(t, "Klawer Cellars", header.ProductName)
	assert.Equal(t, 2, header.RowNumber)

	chardonnay := parsed[1]
	assert.Equal(t, "Klawer Cellars", chardonnay.Brand)
	assert.Equal(t, models.ColorWhite, chardonnay.Color)
	assert.Equal(t, 4, chardonnay.RowNumber)

	inherited := parsed[2]
	assert.Equal(t, models.ColorWhite, inherited.Color)

	// Explicit colour overrides the section for that row only.
	mystery := parsed[3]
	assert.Equal(t, "Mystery Blend", mystery.ProductName)
	assert.Equal(t, models.ColorRed, mystery.Color)

	// The next row falls back to the section colour, not the override.
	assert.Equal(t, models.ColorWhite, parsed[4].Color)
}

func TestClassifyRowsColourSectionEmitsNoRow(t *testing.T) {
	rows := [][]string{
		{"Brand", "Area", "Product", "Case", "Size"},
		{"Red Wines"},
		{"Klawer Cellars", "Olifants River", "Pinotage", "12", "750ml"},
	}

	parsed := classify(t, rows)
	require.Len(t, parsed, 1)
	assert.False(t, parsed[0].IsSectionHeader)
	assert.Equal(t, models.ColorRed, parsed[0].Color)
}

func TestClassifyRowsKeywordSectionLabel(t *testing.T) {
	rows := [][]string{
		{"Brand", "Area", "Product", "Case", "Size"},
		{"Klawer Cellars", "", "", "", ""},
		{"Sparkling Wines", "", "", "", ""},
		{"", "Olifants River", "House Cuvee No 3", "12", "750ml"},
	}

	parsed := classify(t, rows)
	require.Len(t, parsed, 2)

	// The keyword label is consumed as a colour marker; it must not be
	// mistaken for a brand header that would clobber the section brand.
	product := parsed[1]
	assert.Equal(t, "Klawer Cellars", product.Brand)
	assert.Equal(t, models.ColorWhite, product.Color)
}

func TestClassifyRowsSkipsBlankRows(t *testing.T) {
	rows := [][]string{
		{"Brand", "Area", "Product", "Case", "Size"},
		{"", "", "", "", ""},
		{},
		{"Klawer Cellars", "Olifants River", "Pinotage", "12", "750ml"},
	}

	parsed := classify(t, rows)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Pinotage", parsed[0].ProductName)
	assert.Equal(t, 4, parsed[0].RowNumber)
}

func TestClassifyRowsDropsNamelessProductRows(t *testing.T) {
	rows := [][]string{
		{"Brand", "Area", "Product", "Case", "Size"},
		{"Klawer Cellars", "Olifants River", "", "12", "750ml"},
	}

	parsed := classify(t, rows)
	assert.Empty(t, parsed)
}

func TestClassifyRowsExplicitBrandOverridesSection(t *testing.T) {
	rows := [][]string{
		{"Brand", "Area", "Product", "Case", "Size"},
		{"Klawer Cellars", "", "", "", ""},
		{"Spier", "Stellenbosch", "Merlot", "6", "750ml"},
		{"", "Olifants River", "Chenin", "12", "750ml"},
	}

	parsed := classify(t, rows)
	require.Len(t, parsed, 3)
	assert.Equal(t, "Spier", parsed[1].Brand)
	// The section brand is still inherited by later blank-brand rows.
	assert.Equal(t, "Klawer Cellars", parsed[2].Brand)
}

func TestComputeDisplayPriceFallbackOrder(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	r := &models.ParsedRow{
		PackedCase:    12,
		ExVATPerCase:  f(2288.23),
		ExVATPerUnit:  f(190.69),
		IncVATPerCase: f(2631.47),
		IncVATPerUnit: f(219.29),
	}
	require.NotNil(t, ComputeDisplayPrice(r))
	assert.InDelta(t, 219.29, *ComputeDisplayPrice(r), 0.0001)

	r.IncVATPerUnit = nil
	assert.InDelta(t, 190.69, *ComputeDisplayPrice(r), 0.0001)

	r.ExVATPerUnit = nil
	assert.InDelta(t, 2631.47/12, *ComputeDisplayPrice(r), 0.0001)

	r.IncVATPerCase = nil
	assert.InDelta(t, 2288.23/12, *ComputeDisplayPrice(r), 0.0001)

	r.ExVATPerCase = nil
	assert.Nil(t, ComputeDisplayPrice(r))
}

func TestComputeDisplayPriceNoCaseCount(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	// Case prices without a case count cannot derive a unit price.
	r := &models.ParsedRow{IncVATPerCase: f(2631.47)}
	assert.Nil(t, ComputeDisplayPrice(r))
}

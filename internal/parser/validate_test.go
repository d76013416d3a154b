package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

func validRow() *models.ParsedRow {
	price := 219.29
	return &models.ParsedRow{
		RowNumber:     4,
		Brand:         "Klawer Cellars",
		Area:          "Olifants River",
		Color:         models.ColorWhite,
		ProductName:   "Chardonnay",
		PackedCase:    12,
		SizeText:      "750ml",
		IncVATPerUnit: &price,
		DisplayPrice:  &price,
	}
}

func TestValidateRowValid(t *testing.T) {
	r := validRow()
	ValidateRow(r)
	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidateRowRequiredFields(t *testing.T) {
	r := validRow()
	r.Brand = ""
	r.Area = ""
	r.SizeText = ""
	ValidateRow(r)

	assert.False(t, r.IsValid)
	assert.Contains(t, r.Errors, "brand is required")
	assert.Contains(t, r.Errors, "area is required")
	assert.Contains(t, r.Errors, "size is required")
}

func TestValidateRowPackedCase(t *testing.T) {
	r := validRow()
	r.PackedCase = 0
	ValidateRow(r)

	assert.False(t, r.IsValid)
	assert.Contains(t, r.Errors, "packed case must be a positive whole number")
}

func TestValidateRowNegativePrice(t *testing.T) {
	r := validRow()
	bad := -10.0
	r.ExVATPerCase = &bad
	ValidateRow(r)

	assert.False(t, r.IsValid)
	assert.Contains(t, r.Errors, "ex VAT per case cannot be negative")
}

func TestValidateRowWarningsAreAdvisory(t *testing.T) {
	r := validRow()
	r.Color = ""
	r.IncVATPerUnit = nil
	r.DisplayPrice = nil
	ValidateRow(r)

	// Warnings never invalidate the row.
	assert.True(t, r.IsValid)
	assert.Contains(t, r.Warnings, "no unit price could be derived from the available price fields")
	assert.Contains(t, r.Warnings, "wine colour could not be determined")
}

func TestValidateRowSectionHeader(t *testing.T) {
	r := &models.ParsedRow{RowNumber: 2, IsSectionHeader: true, ProductName: "Klawer Cellars"}
	ValidateRow(r)

	assert.False(t, r.IsValid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidateRowReplacesPreviousMessages(t *testing.T) {
	r := validRow()
	r.Brand = ""
	ValidateRow(r)
	assert.False(t, r.IsValid)

	r.Brand = "Klawer Cellars"
	ValidateRow(r)
	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
}

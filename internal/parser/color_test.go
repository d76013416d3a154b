package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

func TestNormalizeColorExplicitToken(t *testing.T) {
	tests := []struct {
		raw  string
		want models.WineColor
	}{
		{"red", models.ColorRed},
		{"RED", models.ColorRed},
		{" Rouge ", models.ColorRed},
		{"rooi", models.ColorRed},
		{"blanc", models.ColorWhite},
		{"wit", models.ColorWhite},
		{"rosé", models.ColorRose},
		{"blush", models.ColorRose},
		{"sweet", models.ColorDessert},
		{"fortified", models.ColorDessert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeColor(tt.raw, ""), "token %q", tt.raw)
	}
}

func TestNormalizeColorIdempotent(t *testing.T) {
	// A value that already resolved must resolve to itself on re-entry,
	// so row edits can round-trip the stored code.
	for _, c := range []models.WineColor{models.ColorRed, models.ColorWhite, models.ColorRose, models.ColorDessert} {
		assert.Equal(t, c, NormalizeColor(string(c), ""))
	}
}

func TestNormalizeColorFromProductName(t *testing.T) {
	tests := []struct {
		product string
		want    models.WineColor
	}{
		{"Chardonnay", models.ColorWhite},
		{"Cabernet Sauvignon", models.ColorRed},
		{"Shiraz Rosé", models.ColorRose}, // rose marker beats the varietal
		{"Noble Late Harvest Chenin", models.ColorDessert},
		{"Cape Ruby Port", models.ColorDessert},
		{"Brut MCC", models.ColorWhite},
		{"Sparkling Pinotage Brut", models.ColorWhite}, // sparkling classifies WHITE ahead of red varietals
		{"Mystery Blend", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeColor("", tt.product), "product %q", tt.product)
	}
}

func TestNormalizeColorNeverGuesses(t *testing.T) {
	assert.Equal(t, models.WineColor(""), NormalizeColor("unknown", ""))
	assert.Equal(t, models.WineColor(""), NormalizeColor("", ""))
}

func TestMatchSectionLabel(t *testing.T) {
	tests := []struct {
		label string
		want  models.WineColor
		ok    bool
	}{
		{"Red Wine", models.ColorRed, true},
		{"WHITE WINES", models.ColorWhite, true},
		{"rose", models.ColorRose, true},
		{"Dessert Wines", models.ColorDessert, true},
		{"Sweet", models.ColorDessert, true},
		// Keyword-only labels resolve through the same rules as product
		// names, not just the synonym table.
		{"Sparkling Wines", models.ColorWhite, true},
		{"Cap Classique", models.ColorWhite, true},
		{"Port", models.ColorDessert, true},
		{"Klawer Cellars", "", false},
		{"", "", false},
		// A product name containing a colour word is not a section row.
		{"Some Red Blend Reserve Special Edition", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchSectionLabel(tt.label)
		assert.Equal(t, tt.ok, ok, "label %q", tt.label)
		assert.Equal(t, tt.want, got, "label %q", tt.label)
	}
}

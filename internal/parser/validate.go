package parser

import (
	"fmt"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

// ValidateRow applies schema constraints to a single row, replacing its
// error and warning lists in place. Validation never removes a row from
// the batch - invalid rows stay visible for correction. Section headers
// are always invalid and carry no messages.
//
// Re-running validation on one edited row must not affect any other
// row's state; duplicate warnings are layered on separately by
// RecomputeDuplicates.
func ValidateRow(r *models.ParsedRow) {
	r.Errors = nil
	r.Warnings = nil

	if r.IsSectionHeader {
		r.IsValid = false
		return
	}

	if r.Brand == "" {
		r.Errors = append(r.Errors, "brand is required")
	}
	if r.Area == "" {
		r.Errors = append(r.Errors, "area is required")
	}
	if r.ProductName == "" {
		r.Errors = append(r.Errors, "product name is required")
	}
	if r.SizeText == "" {
		r.Errors = append(r.Errors, "size is required")
	}
	if r.PackedCase <= 0 {
		r.Errors = append(r.Errors, "packed case must be a positive whole number")
	}
	checkPrice(r, r.ExVATPerCase, "ex VAT per case")
	checkPrice(r, r.ExVATPerUnit, "ex VAT per unit")
	checkPrice(r, r.IncVATPerCase, "inc VAT per case")
	checkPrice(r, r.IncVATPerUnit, "inc VAT per unit")

	// Advisory only - these never block an otherwise valid row.
	if r.DisplayPrice == nil {
		r.Warnings = append(r.Warnings, "no unit price could be derived from the available price fields")
	}
	if r.Color == "" {
		r.Warnings = append(r.Warnings, "wine colour could not be determined")
	}

	r.IsValid = len(r.Errors) == 0
}

func checkPrice(r *models.ParsedRow, v *float64, field string) {
	if v != nil && *v < 0 {
		r.Errors = append(r.Errors, fmt.Sprintf("%s cannot be negative", field))
	}
}

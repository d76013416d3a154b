package parser

import (
	"strings"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

// mostlyEmptyThreshold is the share of blank non-first cells above which
// a row with a populated first cell is treated as a brand/section
// header rather than a product row.
const mostlyEmptyThreshold = 0.7

// ClassifyRows walks the data rows in order, carrying the sticky
// section context (current brand, active colour) that source sheets
// express positionally: products are grouped visually under brand and
// colour headers instead of repeating those values per row. The pass
// must stay a sequential fold - reordering or parallelizing it would
// silently misclassify rows that rely on inherited context.
//
// Rows classify as one of: colour-section marker (consumed, no row
// emitted), brand/section header (emitted with IsSectionHeader set),
// fully empty (skipped), or product row (extracted and typed). Product
// rows with no product name are dropped entirely.
func ClassifyRows(sourceFile string, rows [][]string, headerRow int, hm HeaderMap) []*models.ParsedRow {
	var (
		out          []*models.ParsedRow
		currentBrand string
		activeColor  models.WineColor
	)

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1

		label := joinedLabel(row)
		if color, ok := MatchSectionLabel(label); ok {
			activeColor = color
			continue
		}

		first, blanks, rest := cellProfile(row)
		if first == "" && blanks == rest {
			// Entirely blank.
			continue
		}

		if first != "" && rest > 0 && float64(blanks)/float64(rest) >= mostlyEmptyThreshold {
			currentBrand = first
			out = append(out, &models.ParsedRow{
				RowNumber:       rowNumber,
				SourceFile:      sourceFile,
				IsSectionHeader: true,
				ProductName:     first,
			})
			continue
		}
		if first != "" && rest == 0 {
			// Single-cell row: nothing but a label.
			currentBrand = first
			out = append(out, &models.ParsedRow{
				RowNumber:       rowNumber,
				SourceFile:      sourceFile,
				IsSectionHeader: true,
				ProductName:     first,
			})
			continue
		}

		parsed := extractProductRow(sourceFile, rowNumber, row, hm, currentBrand, activeColor)
		if parsed == nil {
			continue
		}
		out = append(out, parsed)
	}

	return out
}

// extractProductRow types the fields of a product row, applying the
// inherited brand and colour where the sheet left the columns blank.
// Returns nil when the row has no product name.
func extractProductRow(sourceFile string, rowNumber int, row []string, hm HeaderMap, currentBrand string, activeColor models.WineColor) *models.ParsedRow {
	productName := hm.Cell(row, FieldProductName)
	if productName == "" {
		return nil
	}

	brand := hm.Cell(row, FieldBrand)
	if brand == "" {
		brand = currentBrand
	}

	color := NormalizeColor(hm.Cell(row, FieldColor), productName)
	if color == "" {
		color = activeColor
	}

	parsed := &models.ParsedRow{
		RowNumber:     rowNumber,
		SourceFile:    sourceFile,
		Brand:         brand,
		Area:          hm.Cell(row, FieldArea),
		Color:         color,
		ProductName:   productName,
		PackedCase:    ParseCaseCount(hm.Cell(row, FieldPackedCase)),
		SizeText:      hm.Cell(row, FieldSizeText),
		ExVATPerCase:  ParseNumber(hm.Cell(row, FieldExVATPerCase)),
		ExVATPerUnit:  ParseNumber(hm.Cell(row, FieldExVATPerUnit)),
		IncVATPerCase: ParseNumber(hm.Cell(row, FieldIncVATPerCase)),
		IncVATPerUnit: ParseNumber(hm.Cell(row, FieldIncVATPerUnit)),
	}
	parsed.DisplayPrice = ComputeDisplayPrice(parsed)
	return parsed
}

// ComputeDisplayPrice derives the single per-unit price shown to end
// users. Fallback order is fixed: incl-VAT unit, excl-VAT unit,
// incl-VAT case divided by case count, excl-VAT case divided by case
// count, else nil. Must be re-run whenever a price field or the case
// count changes.
func ComputeDisplayPrice(r *models.ParsedRow) *float64 {
	if r.IncVATPerUnit != nil {
		v := *r.IncVATPerUnit
		return &v
	}
	if r.ExVATPerUnit != nil {
		v := *r.ExVATPerUnit
		return &v
	}
	if r.IncVATPerCase != nil && r.PackedCase > 0 {
		v := *r.IncVATPerCase / float64(r.PackedCase)
		return &v
	}
	if r.ExVATPerCase != nil && r.PackedCase > 0 {
		v := *r.ExVATPerCase / float64(r.PackedCase)
		return &v
	}
	return nil
}

// joinedLabel flattens a row's non-empty cells into one short label for
// section matching.
func joinedLabel(row []string) string {
	var parts []string
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// cellProfile returns the trimmed first cell, plus blank count and total
// count of the remaining cells.
func cellProfile(row []string) (first string, blanks, rest int) {
	if len(row) > 0 {
		first = strings.TrimSpace(row[0])
	}
	for i := 1; i < len(row); i++ {
		rest++
		if strings.TrimSpace(row[i]) == "" {
			blanks++
		}
	}
	return first, blanks, rest
}

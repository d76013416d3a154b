package parser

import "strings"

// Canonical field names spreadsheet columns are mapped onto regardless
// of their original header text.
const (
	FieldBrand         = "brand"
	FieldArea          = "area"
	FieldColor         = "color"
	FieldProductName   = "product_name"
	FieldPackedCase    = "packed_case"
	FieldSizeText      = "size_text"
	FieldExVATPerCase  = "ex_vat_per_case"
	FieldExVATPerUnit  = "ex_vat_per_unit"
	FieldIncVATPerCase = "inc_vat_per_case"
	FieldIncVATPerUnit = "inc_vat_per_unit"
)

// HeaderMap maps a canonical field name to a zero-based column index.
// A field with no matching column is simply absent; downstream reads
// treat absence as "value always empty".
type HeaderMap map[string]int

// fieldAliases holds accepted header spellings per canonical field,
// already normalized (lower-case, alphanumerics only). Static
// configuration - not user-editable at runtime.
var fieldAliases = map[string][]string{
	FieldBrand:         {"brand", "producer", "winery", "cellar", "estate", "supplier"},
	FieldArea:          {"area", "region", "origin", "appellation", "district"},
	FieldColor:         {"color", "colour", "winetype", "style", "type"},
	FieldProductName:   {"productname", "product", "winename", "wine", "description", "item", "name"},
	FieldPackedCase:    {"packedcase", "packed", "casesize", "packsize", "unitspercase", "btlscase", "bottlespercase", "case", "pack"},
	FieldSizeText:      {"size", "bottlesize", "volume", "format", "ml"},
	FieldExVATPerCase:  {"exvatpercase", "exvpercase", "exvcase", "excase", "casepriceexvat", "pricepercaseexvat", "exvatcase"},
	FieldExVATPerUnit:  {"exvatperunit", "exvperunit", "exvunit", "exunit", "exvatperbottle", "exvbtl", "unitpriceexvat", "exvatunit"},
	FieldIncVATPerCase: {"incvatpercase", "incvpercase", "incvcase", "inccase", "casepriceincvat", "incvatcase", "inclvatpercase"},
	FieldIncVATPerUnit: {"incvatperunit", "incvperunit", "incvunit", "incunit", "incvatperbottle", "unitpriceincvat", "incvatunit", "inclvatperunit"},
}

// requiredSignals are the canonical fields that mark a plausible header
// row. A candidate row needs hits on at least headerSignalThreshold of
// them to be chosen over row 0.
var requiredSignals = []string{FieldBrand, FieldArea, FieldProductName, FieldPackedCase, FieldSizeText}

const (
	headerScanRows        = 5
	headerSignalThreshold = 3
)

// normalizeHeaderCell lower-cases a header cell and strips everything
// but letters and digits, so "Ex VAT per Case" and "EXV / CASE" both
// normalize to comparable tokens.
func normalizeHeaderCell(cell string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(cell) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalFields fixes the order fields claim columns in, so the
// containment pass below is deterministic.
var canonicalFields = []string{
	FieldBrand, FieldArea, FieldColor, FieldProductName, FieldPackedCase,
	FieldSizeText, FieldExVATPerCase, FieldExVATPerUnit,
	FieldIncVATPerCase, FieldIncVATPerUnit,
}

func matchExact(cells []string, aliases []string) (int, bool) {
	for _, alias := range aliases {
		for i, cell := range cells {
			if cell == alias {
				return i, true
			}
		}
	}
	return 0, false
}

func matchContains(cells []string, aliases []string, taken map[int]bool) (int, bool) {
	for _, alias := range aliases {
		for i, cell := range cells {
			if !taken[i] && cell != "" && strings.Contains(cell, alias) {
				return i, true
			}
		}
	}
	return 0, false
}

// matchColumn is the presence check used when scoring candidate header
// rows; the real mapping in ResolveHeader binds exact matches for every
// field before any containment match is allowed.
func matchColumn(cells []string, aliases []string) (int, bool) {
	if i, ok := matchExact(cells, aliases); ok {
		return i, true
	}
	return matchContains(cells, aliases, nil)
}

// ResolveHeader scans the first few rows of a sheet, picks the header
// row, and builds the canonical-field column mapping. When no candidate
// row carries enough signal the first row is assumed to be the header.
func ResolveHeader(rows [][]string) (int, HeaderMap) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	headerRow := 0
	for i := 0; i < limit; i++ {
		cells := normalizeRow(rows[i])
		hits := 0
		for _, field := range requiredSignals {
			if _, ok := matchColumn(cells, fieldAliases[field]); ok {
				hits++
			}
		}
		if hits >= headerSignalThreshold {
			headerRow = i
			break
		}
	}

	hm := make(HeaderMap)
	if headerRow < len(rows) {
		cells := normalizeRow(rows[headerRow])
		taken := make(map[int]bool)

		// Exact matches bind first across all fields, so a loose alias
		// like product_name's "wine" cannot steal a column another
		// field names exactly ("Wine Type" belongs to color).
		for _, field := range canonicalFields {
			if idx, ok := matchExact(cells, fieldAliases[field]); ok {
				hm[field] = idx
				taken[idx] = true
			}
		}
		for _, field := range canonicalFields {
			if _, done := hm[field]; done {
				continue
			}
			if idx, ok := matchContains(cells, fieldAliases[field], taken); ok {
				hm[field] = idx
				taken[idx] = true
			}
		}
	}
	return headerRow, hm
}

func normalizeRow(row []string) []string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = normalizeHeaderCell(c)
	}
	return cells
}

// Cell returns the raw value of a canonical field within a row, or ""
// when the column is unmapped or the row is too short.
func (hm HeaderMap) Cell(row []string, field string) string {
	idx, ok := hm[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

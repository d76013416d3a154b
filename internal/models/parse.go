package models

import "time"

// SheetFormat represents the file format for upload
type SheetFormat string

const (
	SheetFormatCSV  SheetFormat = "csv"
	SheetFormatXLSX SheetFormat = "xlsx"
)

// ParsedRow represents one logical line of pricing data after
// classification. Section headers carry only a label in ProductName and
// are never valid; product rows carry typed business fields plus the
// derived display price and review annotations.
type ParsedRow struct {
	RowNumber  int    `json:"rowNumber"`
	SourceFile string `json:"sourceFile"`

	IsSectionHeader bool `json:"isSectionHeader"`
	IsValid         bool `json:"isValid"`

	Brand         string    `json:"brand"`
	Area          string    `json:"area"`
	Color         WineColor `json:"color,omitempty"`
	ProductName   string    `json:"productName"`
	PackedCase    int       `json:"packedCase"`
	SizeText      string    `json:"sizeText"`
	ExVATPerCase  *float64  `json:"exVatPerCase,omitempty"`
	ExVATPerUnit  *float64  `json:"exVatPerUnit,omitempty"`
	IncVATPerCase *float64  `json:"incVatPerCase,omitempty"`
	IncVATPerUnit *float64  `json:"incVatPerUnit,omitempty"`

	// Derived - never user-entered.
	DisplayPrice *float64 `json:"displayPrice,omitempty"`
	DuplicateKey string   `json:"duplicateKey,omitempty"`

	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ParseResult aggregates the parsed rows with summary counts. Counts and
// the flattened error/warning lists are always recomputed wholesale from
// the current row list, never maintained incrementally.
type ParseResult struct {
	SourceFile     string       `json:"sourceFile"`
	Rows           []*ParsedRow `json:"rows"`
	TotalRows      int          `json:"totalRows"`
	ValidRows      int          `json:"validRows"`
	InvalidRows    int          `json:"invalidRows"`
	SectionHeaders int          `json:"sectionHeaders"`
	Errors         []string     `json:"errors,omitempty"`
	Warnings       []string     `json:"warnings,omitempty"`
}

// UpdateRowRequest is a partial edit to a single previewed row. Values
// arrive as raw cell text and run back through the same normalization
// the upload pass uses, so an edited price cell of "1 234,50" behaves
// exactly like an uploaded one.
type UpdateRowRequest struct {
	Brand         *string `json:"brand,omitempty"`
	Area          *string `json:"area,omitempty"`
	Color         *string `json:"color,omitempty"`
	ProductName   *string `json:"productName,omitempty"`
	PackedCase    *string `json:"packedCase,omitempty"`
	SizeText      *string `json:"sizeText,omitempty"`
	ExVATPerCase  *string `json:"exVatPerCase,omitempty"`
	ExVATPerUnit  *string `json:"exVatPerUnit,omitempty"`
	IncVATPerCase *string `json:"incVatPerCase,omitempty"`
	IncVATPerUnit *string `json:"incVatPerUnit,omitempty"`
}

// ImportStatus is the terminal status of an import run
type ImportStatus string

const (
	ImportStatusComplete ImportStatus = "complete"
	ImportStatusQueued   ImportStatus = "queued"
	ImportStatusError    ImportStatus = "error"
)

// ImportRowError represents an error for a specific row, keyed by the
// original sheet row number and product name so the user can retry just
// the failed subset.
type ImportRowError struct {
	Row     int    `json:"row"`
	Product string `json:"product"`
	Error   string `json:"error"`
}

// ImportResult represents the outcome of an import run
type ImportResult struct {
	Status       ImportStatus     `json:"status"`
	Imported     int              `json:"imported"`
	Skipped      int              `json:"skipped"`
	TotalChunks  int              `json:"totalChunks"`
	QueueEntryID *string          `json:"queueEntryId,omitempty"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	ProcessingMs int64            `json:"processingMs"`
}

// QueueEntrySummary describes one batch parked in the offline queue
type QueueEntrySummary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	RowCount   int       `json:"rowCount"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// PriceListImportColumns returns the column definitions for the upload
// template. Real sheets rarely use these exact headers - the header
// resolver maps a wide alias set onto them - but the template gives
// users a known-good starting point.
func PriceListImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "Brand", Description: "Producer or cellar name. May be left blank under a brand section row.", Required: true, Type: "string", Example: "Klawer Cellars"},
		{Name: "Area", Description: "Region of origin", Required: true, Type: "string", Example: "Olifants River"},
		{Name: "Colour", Description: "RED, WHITE, ROSE or DESSERT. May be left blank under a colour section row.", Required: false, Type: "string", Example: "WHITE"},
		{Name: "Product Name", Description: "Wine name as printed on the list", Required: true, Type: "string", Example: "Chardonnay"},
		{Name: "Packed Case", Description: "Bottles per case", Required: true, Type: "number", Example: "12"},
		{Name: "Size", Description: "Bottle size", Required: true, Type: "string", Example: "750ml"},
		{Name: "Ex VAT per Case", Description: "Case price excluding VAT", Required: false, Type: "number", Example: "2288.23"},
		{Name: "Ex VAT per Unit", Description: "Unit price excluding VAT", Required: false, Type: "number", Example: "190.69"},
		{Name: "Inc VAT per Case", Description: "Case price including VAT", Required: false, Type: "number", Example: "2631.47"},
		{Name: "Inc VAT per Unit", Description: "Unit price including VAT", Required: false, Type: "number", Example: "219.29"},
	}
}

// PriceListImportTemplate returns the template definition for price lists
func PriceListImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "pricelists",
		Version: "1.0",
		Columns: PriceListImportColumns(),
	}
}

package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

// Parser turns an uploaded price sheet into a validated ParseResult.
// The pipeline is a single sequential pass: decode, header resolution,
// classification, validation, duplicate detection, summary. A decode
// failure is the only error it returns; every row-level problem is
// reported as data on the result.
type Parser struct {
	logger *logrus.Entry
}

func New(logger *logrus.Logger) *Parser {
	return &Parser{logger: logger.WithField("component", "parser")}
}

// SupportedFormat maps a filename to its sheet format.
func SupportedFormat(filename string) (models.SheetFormat, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return models.SheetFormatCSV, true
	case ".xlsx":
		return models.SheetFormatXLSX, true
	}
	return "", false
}

// ParseFile decodes and normalizes one uploaded sheet.
func (p *Parser) ParseFile(filename string, r io.Reader) (*models.ParseResult, error) {
	format, ok := SupportedFormat(filename)
	if !ok {
		return nil, fmt.Errorf("unsupported file format %q: only CSV and XLSX are supported", filepath.Ext(filename))
	}

	var (
		rows [][]string
		err  error
	)
	if format == models.SheetFormatCSV {
		rows, err = decodeCSV(r)
	} else {
		rows, err = decodeXLSX(r)
	}
	if err != nil {
		return nil, err
	}

	result := p.Parse(filename, rows)
	p.logger.WithFields(logrus.Fields{
		"file":           filename,
		"totalRows":      result.TotalRows,
		"validRows":      result.ValidRows,
		"invalidRows":    result.InvalidRows,
		"sectionHeaders": result.SectionHeaders,
	}).Info("Parsed price sheet")
	return result, nil
}

// Parse runs the normalization pipeline over an already-decoded grid.
func (p *Parser) Parse(filename string, rows [][]string) *models.ParseResult {
	headerRow, hm := ResolveHeader(rows)
	parsed := ClassifyRows(filename, rows, headerRow, hm)
	for _, row := range parsed {
		ValidateRow(row)
	}
	RecomputeDuplicates(parsed)

	result := &models.ParseResult{SourceFile: filename, Rows: parsed}
	Summarize(result)
	return result
}

func decodeCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // supplier sheets have ragged rows
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("the file contains no rows")
	}
	return rows, nil
}

func decodeXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("the file contains no rows")
	}
	return rows, nil
}

package parser

import (
	"fmt"
	"strings"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

// duplicateWarningPrefix tags the warnings this file owns so a wholesale
// recompute can strip stale ones without touching validator warnings.
const duplicateWarningPrefix = "duplicate product:"

// DuplicateKey builds the grouping key for duplicate detection:
// brand|product|size, falling back to product|size when the brand is
// blank. Lower-cased so casing differences between rows still collide.
func DuplicateKey(r *models.ParsedRow) string {
	name := strings.ToLower(strings.TrimSpace(r.ProductName))
	size := strings.ToLower(strings.TrimSpace(r.SizeText))
	brand := strings.ToLower(strings.TrimSpace(r.Brand))
	if brand == "" {
		return name + "|" + size
	}
	return brand + "|" + name + "|" + size
}

// RecomputeDuplicates regroups every non-section row by duplicate key
// and attaches a count-bearing warning to each member of a group with
// more than one row. The recompute is wholesale and order-independent:
// the group size, not row identity, drives the message. Called after
// the initial pass and again whenever rows change.
func RecomputeDuplicates(rows []*models.ParsedRow) {
	groups := make(map[string][]*models.ParsedRow)
	for _, r := range rows {
		if r.IsSectionHeader {
			continue
		}
		r.DuplicateKey = DuplicateKey(r)
		groups[r.DuplicateKey] = append(groups[r.DuplicateKey], r)

		// Drop warnings from a previous recompute.
		kept := r.Warnings[:0]
		for _, w := range r.Warnings {
			if !strings.HasPrefix(w, duplicateWarningPrefix) {
				kept = append(kept, w)
			}
		}
		r.Warnings = kept
	}

	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		for _, r := range members {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("%s %d rows share %q", duplicateWarningPrefix, len(members), key))
		}
	}
}

// Summarize recomputes the batch-level counts and flattened messages as
// a pure function of the current row list.
func Summarize(result *models.ParseResult) {
	result.TotalRows = len(result.Rows)
	result.ValidRows = 0
	result.InvalidRows = 0
	result.SectionHeaders = 0
	result.Errors = nil
	result.Warnings = nil

	for _, r := range result.Rows {
		switch {
		case r.IsSectionHeader:
			result.SectionHeaders++
		case r.IsValid:
			result.ValidRows++
		default:
			result.InvalidRows++
		}
		for _, e := range r.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", r.RowNumber, e))
		}
		for _, w := range r.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %s", r.RowNumber, w))
		}
	}
}

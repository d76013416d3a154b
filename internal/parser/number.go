package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumber converts a raw cell value into a finite number, tolerating
// the formats that show up in supplier sheets: "2 581,00", "R 1,234.50",
// "190,69", "2,288.23". Empty or unparsable input yields nil - failure
// is never an error here; whether the field was required is the
// caller's decision.
func ParseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	// Drop all whitespace, including non-breaking spaces used as
	// thousands separators.
	var compact strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) && r != ' ' {
			compact.WriteRune(r)
		}
	}
	s = compact.String()

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// Decimal point wins; commas are thousands separators.
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	// Strip currency symbols and unit suffixes.
	var num strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' {
			num.WriteRune(r)
		}
	}
	s = num.String()
	if s == "" || s == "." || s == "+" || s == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseCaseCount extracts a case count from a cell like "12", "12 pk"
// or "x6". Non-digit characters are removed; no digits means 0, which
// the validator then rejects.
func ParseCaseCount(raw string) int {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

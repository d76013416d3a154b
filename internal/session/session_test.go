package session

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ernest01982/winelistmanager/internal/models"
	"github.com/Ernest01982/winelistmanager/internal/parser"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testResult(t *testing.T) *models.ParseResult {
	t.Helper()
	csvData := strings.Join([]string{
		"Brand,Area,Product,Case,Size,Inc VAT per Unit",
		"Klawer Cellars,,,,,",
		"Klawer Cellars,Olifants River,Chardonnay,12,750ml,219.29",
		"Klawer Cellars,Olifants River,Chenin Blanc,12,750ml,",
	}, "\n")

	p := parser.New(testLogger())
	result, err := p.ParseFile("test.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	return result
}

func strPtr(s string) *string { return &s }

func TestManagerPutGetClear(t *testing.T) {
	m := NewManager(time.Hour, testLogger())

	_, ok := m.Get("tenant-1")
	assert.False(t, ok)

	result := testResult(t)
	s := m.Put("tenant-1", "test.csv", result)
	assert.NotEmpty(t, s.ID)

	got, ok := m.Get("tenant-1")
	require.True(t, ok)
	assert.Same(t, result, got.Result)

	// Sessions are tenant-scoped.
	_, ok = m.Get("tenant-2")
	assert.False(t, ok)

	m.Clear("tenant-1")
	_, ok = m.Get("tenant-1")
	assert.False(t, ok)
}

func TestManagerPutReplacesSession(t *testing.T) {
	m := NewManager(time.Hour, testLogger())

	first := m.Put("tenant-1", "first.csv", testResult(t))
	second := m.Put("tenant-1", "second.csv", testResult(t))
	assert.NotEqual(t, first.ID, second.ID)

	got, ok := m.Get("tenant-1")
	require.True(t, ok)
	assert.Equal(t, "second.csv", got.FileName)
}

func TestManagerTTLExpiry(t *testing.T) {
	m := NewManager(10*time.Millisecond, testLogger())
	m.Put("tenant-1", "test.csv", testResult(t))

	time.Sleep(30 * time.Millisecond)
	_, ok := m.Get("tenant-1")
	assert.False(t, ok)
}

func TestUpdateRowNoSession(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	_, err := m.UpdateRow("tenant-1", 3, models.UpdateRowRequest{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestUpdateRowNotFound(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	m.Put("tenant-1", "test.csv", testResult(t))

	_, err := m.UpdateRow("tenant-1", 99, models.UpdateRowRequest{})
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestUpdateRowSectionHeaderRejected(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	m.Put("tenant-1", "test.csv", testResult(t))

	// Row 2 is the brand section header.
	_, err := m.UpdateRow("tenant-1", 2, models.UpdateRowRequest{ProductName: strPtr("Renamed")})
	assert.ErrorIs(t, err, ErrRowNotEditable)
}

func TestUpdateRowNormalizesAndRevalidates(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	m.Put("tenant-1", "test.csv", testResult(t))

	result, err := m.UpdateRow("tenant-1", 4, models.UpdateRowRequest{
		IncVATPerUnit: strPtr("R 185,50"),
		Color:         strPtr("rooi"),
	})
	require.NoError(t, err)

	var row *models.ParsedRow
	for _, r := range result.Rows {
		if r.RowNumber == 4 {
			row = r
		}
	}
	require.NotNil(t, row)

	// Edited cells run through the same normalization as uploads.
	require.NotNil(t, row.IncVATPerUnit)
	assert.InDelta(t, 185.50, *row.IncVATPerUnit, 0.0001)
	require.NotNil(t, row.DisplayPrice)
	assert.InDelta(t, 185.50, *row.DisplayPrice, 0.0001)
	assert.Equal(t, models.ColorRed, row.Color)
	assert.True(t, row.IsValid)
}

func TestUpdateRowIsolation(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	m.Put("tenant-1", "test.csv", testResult(t))

	before, ok := m.Get("tenant-1")
	require.True(t, ok)
	var otherBefore models.ParsedRow
	for _, r := range before.Result.Rows {
		if r.RowNumber == 3 {
			otherBefore = *r
		}
	}

	result, err := m.UpdateRow("tenant-1", 4, models.UpdateRowRequest{Area: strPtr("")})
	require.NoError(t, err)

	// The edit invalidates only its own row.
	for _, r := range result.Rows {
		if r.RowNumber == 3 {
			assert.Equal(t, otherBefore.IsValid, r.IsValid)
			assert.Equal(t, otherBefore.Brand, r.Brand)
			assert.Equal(t, otherBefore.Area, r.Area)
			assert.Equal(t, otherBefore.Errors, r.Errors)
		}
		if r.RowNumber == 4 {
			assert.False(t, r.IsValid)
			assert.Contains(t, r.Errors, "area is required")
		}
	}

	// Summary counts track the change wholesale.
	assert.Equal(t, 1, result.ValidRows)
	assert.Equal(t, 1, result.InvalidRows)
}

func TestUpdateRowEditCreatesDuplicate(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	m.Put("tenant-1", "test.csv", testResult(t))

	// Renaming Chenin Blanc to Chardonnay collides with row 3.
	result, err := m.UpdateRow("tenant-1", 4, models.UpdateRowRequest{ProductName: strPtr("Chardonnay")})
	require.NoError(t, err)

	flagged := 0
	for _, r := range result.Rows {
		for _, w := range r.Warnings {
			if strings.HasPrefix(w, "duplicate product:") {
				flagged++
			}
		}
	}
	assert.Equal(t, 2, flagged)
}

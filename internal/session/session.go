// Package session owns the in-progress ParseResult between upload and
// import. One session per tenant, replaced wholesale on a new upload and
// dropped on clear - no row survives across sessions unless imported.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Ernest01982/winelistmanager/internal/models"
	"github.com/Ernest01982/winelistmanager/internal/parser"
)

var (
	ErrNoSession      = errors.New("no active review session")
	ErrRowNotFound    = errors.New("row not found in current session")
	ErrRowNotEditable = errors.New("section header rows cannot be edited")
)

// Session holds one tenant's current upload under review.
type Session struct {
	ID         string
	TenantID   string
	FileName   string
	Result     *models.ParseResult
	CreatedAt  time.Time
	LastAccess time.Time
}

// Manager is the single writer for all review sessions. All mutation of
// a ParseResult after upload goes through it, so row edits and summary
// recomputes never race.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *logrus.Entry
}

func NewManager(ttl time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.WithField("component", "session"),
	}
}

// Put replaces the tenant's session with a fresh one for the given
// parse result.
func (m *Manager) Put(tenantID, filename string, result *models.ParseResult) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()

	s := &Session{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		FileName:   filename,
		Result:     result,
		CreatedAt:  time.Now(),
		LastAccess: time.Now(),
	}
	m.sessions[tenantID] = s
	m.logger.WithFields(logrus.Fields{
		"tenantId": tenantID,
		"file":     filename,
		"rows":     result.TotalRows,
	}).Info("Review session replaced")
	return s
}

// Get returns the tenant's active session, if any.
func (m *Manager) Get(tenantID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()

	s, ok := m.sessions[tenantID]
	if !ok {
		return nil, false
	}
	s.LastAccess = time.Now()
	return s, true
}

// Clear discards the tenant's session. Rows already submitted to the
// store are not rolled back.
func (m *Manager) Clear(tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tenantID)
}

// UpdateRow applies a partial edit to exactly one previewed row, then
// re-derives its display price, re-validates it, and recomputes the
// batch duplicates and summary. No other row's fields change.
func (m *Manager) UpdateRow(tenantID string, rowNumber int, patch models.UpdateRowRequest) (*models.ParseResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[tenantID]
	if !ok {
		return nil, ErrNoSession
	}
	s.LastAccess = time.Now()

	var row *models.ParsedRow
	for _, r := range s.Result.Rows {
		if r.RowNumber == rowNumber {
			row = r
			break
		}
	}
	if row == nil {
		return nil, ErrRowNotFound
	}
	if row.IsSectionHeader {
		return nil, ErrRowNotEditable
	}

	applyPatch(row, patch)
	row.DisplayPrice = parser.ComputeDisplayPrice(row)
	parser.ValidateRow(row)
	parser.RecomputeDuplicates(s.Result.Rows)
	parser.Summarize(s.Result)

	return s.Result, nil
}

// applyPatch runs edited cells through the same normalization the
// upload pass uses.
func applyPatch(row *models.ParsedRow, patch models.UpdateRowRequest) {
	if patch.Brand != nil {
		row.Brand = strings.TrimSpace(*patch.Brand)
	}
	if patch.Area != nil {
		row.Area = strings.TrimSpace(*patch.Area)
	}
	if patch.ProductName != nil {
		row.ProductName = strings.TrimSpace(*patch.ProductName)
	}
	if patch.SizeText != nil {
		row.SizeText = strings.TrimSpace(*patch.SizeText)
	}
	if patch.Color != nil {
		row.Color = parser.NormalizeColor(*patch.Color, row.ProductName)
	}
	if patch.PackedCase != nil {
		row.PackedCase = parser.ParseCaseCount(*patch.PackedCase)
	}
	if patch.ExVATPerCase != nil {
		row.ExVATPerCase = parser.ParseNumber(*patch.ExVATPerCase)
	}
	if patch.ExVATPerUnit != nil {
		row.ExVATPerUnit = parser.ParseNumber(*patch.ExVATPerUnit)
	}
	if patch.IncVATPerCase != nil {
		row.IncVATPerCase = parser.ParseNumber(*patch.IncVATPerCase)
	}
	if patch.IncVATPerUnit != nil {
		row.IncVATPerUnit = parser.ParseNumber(*patch.IncVATPerUnit)
	}
}

// sweepLocked drops sessions idle past the TTL. Caller holds the lock.
func (m *Manager) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-m.ttl)
	for tenantID, s := range m.sessions {
		if s.LastAccess.Before(cutoff) {
			delete(m.sessions, tenantID)
		}
	}
}

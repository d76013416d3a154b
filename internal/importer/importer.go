// Package importer submits reviewed rows to the backing store in
// bounded, strictly sequential chunks. A chunk failure marks every row
// of that chunk and moves on; only a pre-flight failure aborts the run.
package importer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ernest01982/winelistmanager/internal/models"
	"github.com/Ernest01982/winelistmanager/internal/queue"
)

const DefaultChunkSize = 250

// Store is the external collaborator rows are upserted into. The
// identity scheme behind the upsert belongs to the store; the importer
// only supplies fields.
type Store interface {
	Ping(ctx context.Context) error
	UpsertRows(ctx context.Context, tenantID string, rows []models.ParsedRow) error
}

// RunState is the lifecycle of one import run:
// idle -> importing -> complete | error. Per-chunk progress is reported
// through the callback, not as distinct states, and partial chunk
// failures still resolve to complete.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateImporting RunState = "importing"
	StateComplete  RunState = "complete"
	StateError     RunState = "error"
)

// Progress reports monotonic chunk completion within a run.
type Progress struct {
	CurrentChunk int
	TotalChunks  int
	Imported     int
}

// Importer runs one import at a time against a store, spooling to the
// offline queue when the store is unreachable at pre-flight.
type Importer struct {
	store     Store
	queue     *queue.Queue
	chunkSize int
	logger    *logrus.Entry

	mu    sync.Mutex
	state RunState
}

func New(store Store, q *queue.Queue, chunkSize int, logger *logrus.Logger) *Importer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Importer{
		store:     store,
		queue:     q,
		chunkSize: chunkSize,
		logger:    logger.WithField("component", "importer"),
		state:     StateIdle,
	}
}

// State returns the current run state.
func (im *Importer) State() RunState {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.state
}

func (im *Importer) setState(s RunState) {
	im.mu.Lock()
	im.state = s
	im.mu.Unlock()
}

// Run imports the given rows for one tenant. Section headers and
// invalid rows are excluded up front and counted as skipped. onProgress
// may be nil.
func (im *Importer) Run(ctx context.Context, tenantID, sourceFile string, rows []*models.ParsedRow, onProgress func(Progress)) (*models.ImportResult, error) {
	start := time.Now()
	im.setState(StateImporting)

	result := &models.ImportResult{Status: models.ImportStatusComplete}

	if rows == nil {
		im.setState(StateError)
		result.Status = models.ImportStatusError
		return result, ErrNoRows
	}

	importable := make([]models.ParsedRow, 0, len(rows))
	for _, r := range rows {
		if r.IsSectionHeader || !r.IsValid {
			result.Skipped++
			continue
		}
		importable = append(importable, *r)
	}

	if len(importable) == 0 {
		im.setState(StateComplete)
		result.ProcessingMs = time.Since(start).Milliseconds()
		return result, nil
	}

	// Pre-flight: an unreachable store means the whole set goes to the
	// durable queue - no chunk submissions are attempted.
	if err := im.store.Ping(ctx); err != nil {
		im.logger.WithError(err).Warn("Store unreachable, queueing batch for later replay")
		id, qerr := im.queue.Enqueue(tenantID, sourceFile, importable)
		if qerr != nil {
			im.setState(StateError)
			result.Status = models.ImportStatusError
			return result, qerr
		}
		im.setState(StateComplete)
		result.Status = models.ImportStatusQueued
		result.QueueEntryID = &id
		result.ProcessingMs = time.Since(start).Milliseconds()
		return result, nil
	}

	totalChunks := (len(importable) + im.chunkSize - 1) / im.chunkSize
	result.TotalChunks = totalChunks

	// Chunks run strictly sequentially; progress assumes monotonic
	// completion order.
	for chunkNum := 0; chunkNum < totalChunks; chunkNum++ {
		startIdx := chunkNum * im.chunkSize
		endIdx := startIdx + im.chunkSize
		if endIdx > len(importable) {
			endIdx = len(importable)
		}
		chunk := importable[startIdx:endIdx]

		if err := im.store.UpsertRows(ctx, tenantID, chunk); err != nil {
			im.logger.WithError(err).WithField("chunk", chunkNum+1).Warn("Chunk upsert failed")
			for _, r := range chunk {
				result.Errors = append(result.Errors, models.ImportRowError{
					Row:     r.RowNumber,
					Product: r.ProductName,
					Error:   err.Error(),
				})
			}
		} else {
			result.Imported += len(chunk)
		}

		if onProgress != nil {
			onProgress(Progress{
				CurrentChunk: chunkNum + 1,
				TotalChunks:  totalChunks,
				Imported:     result.Imported,
			})
		}
	}

	im.setState(StateComplete)
	result.ProcessingMs = time.Since(start).Milliseconds()
	im.logger.WithFields(logrus.Fields{
		"tenantId": tenantID,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"failed":   len(result.Errors),
		"chunks":   totalChunks,
	}).Info("Import run finished")
	return result, nil
}

// Replay re-runs a queued batch against the store. On success the entry
// is removed from the queue; a still-unreachable store re-queues
// nothing and leaves the entry in place.
func (im *Importer) Replay(ctx context.Context, entry queue.Entry) (*models.ImportResult, error) {
	rows := make([]*models.ParsedRow, len(entry.Rows))
	for i := range entry.Rows {
		rows[i] = &entry.Rows[i]
	}

	if err := im.store.Ping(ctx); err != nil {
		return nil, err
	}

	result, err := im.Run(ctx, entry.TenantID, entry.FileName, rows, nil)
	if err != nil {
		return nil, err
	}
	if result.Status == models.ImportStatusComplete {
		if err := im.queue.Remove(entry.ID); err != nil {
			im.logger.WithError(err).WithField("entryId", entry.ID).Warn("Failed to remove replayed queue entry")
		}
	}
	return result, nil
}

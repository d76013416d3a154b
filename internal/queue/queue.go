// Package queue is a durable local spool for import batches that could
// not reach the backing store. Each entry is one JSON file in the spool
// directory; a monotonic sequence prefix in the filename preserves
// enqueue order across process restarts.
package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

// Entry is one parked batch.
type Entry struct {
	ID         string             `json:"id"`
	TenantID   string             `json:"tenantId"`
	FileName   string             `json:"fileName"`
	EnqueuedAt time.Time          `json:"enqueuedAt"`
	Rows       []models.ParsedRow `json:"rows"`
}

// Queue stores entries under dir. Safe for concurrent use.
type Queue struct {
	mu  sync.Mutex
	dir string
	seq uint64
}

// New opens (creating if needed) the spool directory and resumes the
// sequence counter from whatever is already on disk.
func New(dir string) (*Queue, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory: %w", err)
	}
	q := &Queue{dir: dir}

	names, err := q.sortedNames()
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		if seq, _, ok := splitName(names[len(names)-1]); ok {
			q.seq = seq
		}
	}
	return q, nil
}

// Enqueue parks a batch and returns its opaque identifier.
func (q *Queue) Enqueue(tenantID, filename string, rows []models.ParsedRow) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	entry := Entry{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		FileName:   filename,
		EnqueuedAt: time.Now().UTC(),
		Rows:       rows,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode queue entry: %w", err)
	}

	name := fmt.Sprintf("%012d_%s.json", q.seq, entry.ID)
	if err := os.WriteFile(filepath.Join(q.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write queue entry: %w", err)
	}
	return entry.ID, nil
}

// List returns all entries in enqueue order.
func (q *Queue) List() ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	names, err := q.sortedNames()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entry, err := q.readEntry(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Get returns the entry with the given identifier.
func (q *Queue) Get(id string) (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	name, err := q.findLocked(id)
	if err != nil {
		return Entry{}, err
	}
	return q.readEntry(name)
}

// Remove deletes the entry with the given identifier.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	name, err := q.findLocked(id)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(q.dir, name))
}

// Clear deletes every entry.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	names, err := q.sortedNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := os.Remove(filepath.Join(q.dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queue) findLocked(id string) (string, error) {
	names, err := q.sortedNames()
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if _, entryID, ok := splitName(name); ok && entryID == id {
			return name, nil
		}
	}
	return "", fmt.Errorf("queue entry %s not found", id)
}

func (q *Queue) readEntry(name string) (Entry, error) {
	data, err := os.ReadFile(filepath.Join(q.dir, name))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read queue entry: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode queue entry %s: %w", name, err)
	}
	return entry, nil
}

func (q *Queue) sortedNames() ([]string, error) {
	dirEntries, err := os.ReadDir(q.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue directory: %w", err)
	}
	var names []string
	for _, de := range dirEntries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".json") {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// splitName parses "<seq>_<uuid>.json" into its parts.
func splitName(name string) (uint64, string, bool) {
	base := strings.TrimSuffix(name, ".json")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	seq, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return seq, parts[1], true
}

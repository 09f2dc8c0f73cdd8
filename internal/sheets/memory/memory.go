package memory

import (
	"context"
	"fmt"
	"sync"

	"pocket/internal/core"
	"pocket/internal/currency"
	ports "pocket/internal/sheets"
)

// Ensure interface conformance
var (
	_ ports.HistoryWriter = (*Store)(nil)
	_ ports.ArchiveLister = (*Store)(nil)
)

// Store keeps archived rows in memory. It backs the worker when no
// spreadsheet is configured, and tests.
type Store struct {
	mu   sync.Mutex
	rows [][]any
	ids  []string
}

func New() *Store {
	return &Store{}
}

// AppendHistory stores the rows and returns a synthetic range reference.
func (s *Store) AppendHistory(_ context.Context, item core.HistoryItem, code currency.Code) (string, error) {
	rows := ports.HistoryRows(item, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	first := len(s.rows) + 1
	s.rows = append(s.rows, rows...)
	s.ids = append(s.ids, item.ID)
	return fmt.Sprintf("mem:%d-%d", first, len(s.rows)), nil
}

// ArchivedIDs returns the history ids appended so far, in order.
func (s *Store) ArchivedIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...), nil
}

// Rows returns a copy of every stored row.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}

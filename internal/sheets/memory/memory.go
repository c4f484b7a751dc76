// Package memory implements an in-process RowStore. It backs tests and the
// DATA_BACKEND=memory mode, and mimics the remote store's positional
// semantics: 1-based rows, delete shifts subsequent rows up.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows [][]any

	// FailAll makes every call return an error, for exercising the
	// backend-unavailable path in tests.
	FailAll bool
}

var _ sheets.RowStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendRow(_ context.Context, cells []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return errUnavailable
	}
	row := append([]any(nil), cells...)
	s.rows = append(s.rows, row)
	return nil
}

func (s *Store) ReadAllRows(_ context.Context, mode sheets.RenderMode) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return nil, errUnavailable
	}
	out := make([][]any, len(s.rows))
	for i, row := range s.rows {
		cp := make([]any, len(row))
		for j, cell := range row {
			if mode == sheets.RenderFormatted {
				cp[j] = fmt.Sprint(cell)
			} else {
				cp[j] = cell
			}
		}
		out[i] = cp
	}
	return out, nil
}

func (s *Store) FindRowByValue(_ context.Context, value string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return 0, false, errUnavailable
	}
	for i, row := range s.rows {
		for _, cell := range row {
			if fmt.Sprint(cell) == value {
				return i + 1, true, nil
			}
		}
	}
	return 0, false, nil
}

func (s *Store) UpdateCell(_ context.Context, row, col int, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return errUnavailable
	}
	if row < 1 || row > len(s.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	cells := s.rows[row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	s.rows[row-1] = cells
	return nil
}

func (s *Store) DeleteRow(_ context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return errUnavailable
	}
	if row < 1 || row > len(s.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	s.rows = append(s.rows[:row-1], s.rows[row:]...)
	return nil
}

func (s *Store) ReadCell(_ context.Context, row, col int) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return nil, errUnavailable
	}
	if row < 1 || row > len(s.rows) {
		return nil, nil
	}
	cells := s.rows[row-1]
	if col < 1 || col > len(cells) {
		return nil, nil
	}
	return cells[col-1], nil
}

// Truncate drops every row.
func (s *Store) Truncate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return errUnavailable
	}
	s.rows = nil
	return nil
}

// RowCount reports the number of stored rows, header included.
func (s *Store) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

var errUnavailable = fmt.Errorf("memory store: forced failure")

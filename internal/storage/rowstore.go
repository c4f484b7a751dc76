// Package storage implements the RowStore port on a local sqlite database.
// It serves as an offline replica of the remote sheet: the mirror worker
// writes into it, and it can be selected as the primary backend for
// development. Positional semantics match the sheet: rows are ordered by
// insertion and positions are recomputed after deletes.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"financas/internal/sheets"

	_ "modernc.org/sqlite"
)

type SQLiteRowStore struct {
	db *sql.DB
}

var _ sheets.RowStore = (*SQLiteRowStore)(nil)

func NewSQLiteRowStore(dbPath string) (*SQLiteRowStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRowStore{db: db}, nil
}

func (s *SQLiteRowStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteRowStore) AppendRow(ctx context.Context, cells []any) error {
	payload, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO sheet_rows (cells) VALUES (?)`, string(payload)); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

func (s *SQLiteRowStore) ReadAllRows(ctx context.Context, mode sheets.RenderMode) ([][]any, error) {
	rows, _, err := s.readOrdered(ctx)
	if err != nil {
		return nil, err
	}
	if mode == sheets.RenderFormatted {
		for _, row := range rows {
			for j, cell := range row {
				row[j] = fmt.Sprint(cell)
			}
		}
	}
	return rows, nil
}

func (s *SQLiteRowStore) FindRowByValue(ctx context.Context, value string) (int, bool, error) {
	rows, _, err := s.readOrdered(ctx)
	if err != nil {
		return 0, false, err
	}
	for i, row := range rows {
		for _, cell := range row {
			if fmt.Sprint(cell) == value {
				return i + 1, true, nil
			}
		}
	}
	return 0, false, nil
}

func (s *SQLiteRowStore) UpdateCell(ctx context.Context, row, col int, value any) error {
	rows, seqs, err := s.readOrdered(ctx)
	if err != nil {
		return err
	}
	if row < 1 || row > len(rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	cells := rows[row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value

	payload, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE sheet_rows SET cells = ? WHERE seq = ?`, string(payload), seqs[row-1]); err != nil {
		return fmt.Errorf("update row: %w", err)
	}
	return nil
}

func (s *SQLiteRowStore) DeleteRow(ctx context.Context, row int) error {
	_, seqs, err := s.readOrdered(ctx)
	if err != nil {
		return err
	}
	if row < 1 || row > len(seqs) {
		return fmt.Errorf("row %d out of range", row)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sheet_rows WHERE seq = ?`, seqs[row-1]); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	return nil
}

func (s *SQLiteRowStore) ReadCell(ctx context.Context, row, col int) (any, error) {
	rows, _, err := s.readOrdered(ctx)
	if err != nil {
		return nil, err
	}
	if row < 1 || row > len(rows) {
		return nil, nil
	}
	cells := rows[row-1]
	if col < 1 || col > len(cells) {
		return nil, nil
	}
	return cells[col-1], nil
}

// Truncate drops every row. The mirror worker uses it before a full resync.
func (s *SQLiteRowStore) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sheet_rows`); err != nil {
		return fmt.Errorf("truncate rows: %w", err)
	}
	return nil
}

// readOrdered returns all rows in insertion order along with their seq keys.
// A row's 1-based position is its index+1 here, so deletes shift positions
// naturally.
func (s *SQLiteRowStore) readOrdered(ctx context.Context) ([][]any, []int64, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT seq, cells FROM sheet_rows ORDER BY seq`)
	if err != nil {
		return nil, nil, fmt.Errorf("select rows: %w", err)
	}
	defer rs.Close()

	var rows [][]any
	var seqs []int64
	for rs.Next() {
		var seq int64
		var payload string
		if err := rs.Scan(&seq, &payload); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		var cells []any
		if err := json.Unmarshal([]byte(payload), &cells); err != nil {
			return nil, nil, fmt.Errorf("decode row %d: %w", seq, err)
		}
		rows = append(rows, cells)
		seqs = append(seqs, seq)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return rows, seqs, nil
}

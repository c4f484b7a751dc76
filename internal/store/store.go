// Package store provides CRUD semantics for transactions over a backend that
// only supports append, find-by-cell-value and row-index operations.
//
// The backend has no native keys: identity is a UUID written into the first
// column, and every point operation resolves it to a row position with a full
// scan. That makes point reads and mutations O(n) in the number of stored
// transactions, an accepted cost of the backend's constraints.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"financas/internal/core"
	"financas/internal/sheets"
)

// Column layout is fixed and positional. Row 1 is the header; data starts at
// row 2.
const (
	colID = iota + 1
	colDate
	colCategory
	colType
	colAmount
	colPayment
	colDescription
)

// Header names the seven fields, in column order.
var Header = []any{"id", "date", "category", "type", "amount", "payment_method", "description"}

type Store struct {
	rows sheets.RowStore
}

func New(rows sheets.RowStore) *Store {
	return &Store{rows: rows}
}

// Create generates a fresh identifier, appends one row and returns the id.
// Category and payment method are stored as-is; the backend does not validate
// enumerations. The amount is written as a native number, not text. The header
// is provisioned first so the new record never lands in row 1, which readers
// always treat as the header.
func (s *Store) Create(ctx context.Context, t core.Transaction) (string, error) {
	if err := s.EnsureHeader(ctx); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.rows.AppendRow(ctx, EncodeRow(id, t)); err != nil {
		return "", backendErr("append transaction", err)
	}
	slog.InfoContext(ctx, "Transaction created", "id", id, "date", t.Date.String(), "type", string(t.Type), "amount_cents", t.Amount.Money.Cents)
	return id, nil
}

// ReadAll fetches every data row. An empty backend is provisioned with the
// header row as a side effect and yields an empty slice, not an error. Every
// amount passes through the normalizer because the stored representation is
// not guaranteed to be a native number.
func (s *Store) ReadAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.rows.ReadAllRows(ctx, sheets.RenderRaw)
	if err != nil {
		return nil, backendErr("read transactions", err)
	}
	if len(rows) == 0 {
		if err := s.EnsureHeader(ctx); err != nil {
			return nil, err
		}
		return []core.Transaction{}, nil
	}

	out := make([]core.Transaction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		t, err := decodeRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping undecodable row", "row", i+2, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ReadOne returns the transaction with the given id, or
// core.ErrTransactionNotFound. Absence is a normal outcome, not a failure.
func (s *Store) ReadOne(ctx context.Context, id string) (core.Transaction, error) {
	all, err := s.ReadAll(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrTransactionNotFound
}

// Update resolves id to its current row position and overwrites every field.
// A missing id is a no-op: the find returns nothing and no cell is touched.
func (s *Store) Update(ctx context.Context, id string, t core.Transaction) error {
	row, found, err := s.rows.FindRowByValue(ctx, id)
	if err != nil {
		return backendErr("find transaction", err)
	}
	if !found {
		slog.WarnContext(ctx, "Update of missing transaction is a no-op", "id", id)
		return nil
	}

	updates := []struct {
		col   int
		value any
	}{
		{colDate, t.Date.String()},
		{colCategory, t.Category},
		{colType, string(t.Type)},
		{colAmount, t.Amount.Money.Float64()},
		{colPayment, t.PaymentMethod},
		{colDescription, t.Description},
	}
	for _, u := range updates {
		if err := s.rows.UpdateCell(ctx, row, u.col, u.value); err != nil {
			return backendErr(fmt.Sprintf("update column %d", u.col), err)
		}
	}
	slog.InfoContext(ctx, "Transaction updated", "id", id, "row", row)
	return nil
}

// Delete resolves id to its row position and removes the row entirely,
// shifting subsequent rows up. A missing id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	row, found, err := s.rows.FindRowByValue(ctx, id)
	if err != nil {
		return backendErr("find transaction", err)
	}
	if !found {
		slog.WarnContext(ctx, "Delete of missing transaction is a no-op", "id", id)
		return nil
	}
	if err := s.rows.DeleteRow(ctx, row); err != nil {
		return backendErr("delete transaction", err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id, "row", row)
	return nil
}

// EnsureHeader writes the header row if the backend is completely empty.
func (s *Store) EnsureHeader(ctx context.Context) error {
	first, err := s.rows.ReadCell(ctx, 1, 1)
	if err != nil {
		return backendErr("read header cell", err)
	}
	if first != nil && strings.TrimSpace(fmt.Sprint(first)) != "" {
		return nil
	}
	if err := s.rows.AppendRow(ctx, Header); err != nil {
		return backendErr("write header", err)
	}
	slog.InfoContext(ctx, "Header row provisioned")
	return nil
}

// EncodeRow lays a transaction out in the fixed column order. The amount is
// written as a native number so the backend stores it numerically.
func EncodeRow(id string, t core.Transaction) []any {
	return []any{
		id,
		t.Date.String(),
		t.Category,
		string(t.Type),
		t.Amount.Money.Float64(),
		t.PaymentMethod,
		t.Description,
	}
}

func decodeRow(cells []any) (core.Transaction, error) {
	id := textCell(cells, colID)
	if id == "" {
		return core.Transaction{}, fmt.Errorf("blank id")
	}
	date, err := core.ParseDate(textCell(cells, colDate))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date: %w", err)
	}
	return core.Transaction{
		ID:            id,
		Date:          date,
		Category:      textCell(cells, colCategory),
		Type:          core.TransactionType(textCell(cells, colType)),
		Amount:        core.NormalizeAmount(rawCell(cells, colAmount)),
		PaymentMethod: textCell(cells, colPayment),
		Description:   textCell(cells, colDescription),
	}, nil
}

func rawCell(cells []any, col int) any {
	if col < 1 || col > len(cells) {
		return nil
	}
	return cells[col-1]
}

func textCell(cells []any, col int) string {
	v := rawCell(cells, col)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func backendErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrBackendUnavailable, err)
}

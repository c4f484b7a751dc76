// Package service orchestrates the transaction store, the report engines and
// the optional event bus behind one API used by the HTTP layer.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/report"
	"financas/internal/store"
)

// EventPublisher notifies downstream consumers of mutations. Publishing is
// best-effort: a failure is logged and never fails the originating request.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id, action string) error
}

type TransactionService struct {
	store  *store.Store
	events EventPublisher
}

// NewTransactionService wires the store and an optional event publisher;
// events may be nil to disable publishing.
func NewTransactionService(st *store.Store, events EventPublisher) *TransactionService {
	return &TransactionService{store: st, events: events}
}

// ListTransactions returns the filtered records in date-descending order.
func (s *TransactionService) ListTransactions(ctx context.Context, f report.Filter) ([]core.Transaction, error) {
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return report.SortByDateDesc(report.Apply(all, f)), nil
}

// GetKpis computes the selected period's flow KPIs and the accumulated
// balance.
func (s *TransactionService) GetKpis(ctx context.Context, year, month int) (report.Kpis, error) {
	if err := validatePeriod(year, month); err != nil {
		return report.Kpis{}, err
	}
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return report.Kpis{}, err
	}
	return report.ComputeKpis(all, year, month), nil
}

// GetCategoryBreakdown returns expense totals by category for the selected
// month.
func (s *TransactionService) GetCategoryBreakdown(ctx context.Context, year, month int) ([]report.CategoryTotal, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return report.CategoryBreakdown(all, year, month), nil
}

// GetTimeSeries returns the selected month's (date, type) groups in
// chronological order.
func (s *TransactionService) GetTimeSeries(ctx context.Context, year, month int) ([]report.TimePoint, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return report.TimeSeries(all, year, month), nil
}

// CreateTransaction validates the input, persists it and announces the
// creation.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	id, err := s.store.Create(ctx, t)
	if err != nil {
		return "", err
	}
	s.publish(ctx, id, amqp.ActionCreated)
	return id, nil
}

// UpdateTransaction overwrites every field of the record with the given id.
// The edit target is addressed explicitly by id; there is no ambient
// selection state.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, t); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionUpdated)
	return nil
}

// DeleteTransaction removes the record with the given id.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

// GetTransaction returns one record by id, for pre-filling the edit form.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.ReadOne(ctx, id)
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", id,
			"action", action,
			"error", err)
	}
}

func validatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d", month)
	}
	if year < 1 {
		return fmt.Errorf("invalid year: %d", year)
	}
	return nil
}

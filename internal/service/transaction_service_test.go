package service

import (
	"context"
	"errors"
	"testing"

	"financas/internal/core"
	"financas/internal/report"
	"financas/internal/sheets/memory"
	"financas/internal/store"
)

type recordingPublisher struct {
	events []string
	fail   bool
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, id, action string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, action+":"+id)
	return nil
}

func newService(t *testing.T) (*TransactionService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewTransactionService(store.New(memory.New()), pub)
	return svc, pub
}

func tx(date core.Date, category string, ty core.TransactionType, cents int64) core.Transaction {
	return core.Transaction{
		Date:          date,
		Category:      category,
		Type:          ty,
		Amount:        core.ParsedAmount(core.Money{Cents: cents}),
		PaymentMethod: "Cash",
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	svc, pub := newService(t)
	id, err := svc.CreateTransaction(context.Background(), tx(core.NewDate(2024, 1, 10), "Food", core.Expense, 200))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0] != "created:"+id {
		t.Fatalf("events: %v", pub.events)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, pub := newService(t)
	bad := tx(core.NewDate(2024, 1, 10), "", core.Expense, 200)
	if _, err := svc.CreateTransaction(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected, got %v", pub.events)
	}
}

func TestPublisherFailureDoesNotFailRequest(t *testing.T) {
	svc, pub := newService(t)
	pub.fail = true
	if _, err := svc.CreateTransaction(context.Background(), tx(core.NewDate(2024, 1, 10), "Food", core.Expense, 200)); err != nil {
		t.Fatalf("create should not fail on publish error: %v", err)
	}
}

func TestNilPublisherIsAllowed(t *testing.T) {
	svc := NewTransactionService(store.New(memory.New()), nil)
	if _, err := svc.CreateTransaction(context.Background(), tx(core.NewDate(2024, 1, 10), "Food", core.Expense, 200)); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestUpdateAndDeleteLifecycle(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()

	id, _ := svc.CreateTransaction(ctx, tx(core.NewDate(2024, 1, 10), "Food", core.Expense, 200))

	if err := svc.UpdateTransaction(ctx, id, tx(core.NewDate(2024, 1, 11), "Housing", core.Expense, 300)); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.GetTransaction(ctx, id)
	if err != nil || got.Category != "Housing" {
		t.Fatalf("after update: %+v err=%v", got, err)
	}

	if err := svc.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetTransaction(ctx, id); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	want := []string{"created:" + id, "updated:" + id, "deleted:" + id}
	if len(pub.events) != 3 {
		t.Fatalf("events: %v", pub.events)
	}
	for i := range want {
		if pub.events[i] != want[i] {
			t.Fatalf("event %d: got %s want %s", i, pub.events[i], want[i])
		}
	}
}

func TestListTransactionsSortedAndFiltered(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateTransaction(ctx, tx(core.NewDate(2024, 1, 10), "Food", core.Expense, 100))
	_, _ = svc.CreateTransaction(ctx, tx(core.NewDate(2024, 1, 20), "Food", core.Expense, 200))
	_, _ = svc.CreateTransaction(ctx, tx(core.NewDate(2023, 5, 1), "Housing", core.Expense, 300))

	got, err := svc.ListTransactions(ctx, report.Filter{Year: 2024})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Date.String() != "2024-01-20" {
		t.Fatalf("expected date-descending order, got %v first", got[0].Date)
	}
}

func TestGetKpisEndToEnd(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateTransaction(ctx, core.Transaction{
		Date: core.NewDate(2024, 1, 10), Category: "Salary", Type: core.Income,
		Amount: core.ParsedAmount(core.Money{Cents: 100000}), PaymentMethod: "Transfer",
	})
	_, _ = svc.CreateTransaction(ctx, tx(core.NewDate(2024, 1, 15), "Food", core.Expense, 20000))
	_, _ = svc.CreateTransaction(ctx, tx(core.NewDate(2024, 2, 1), "Food", core.Expense, 5000))

	k, err := svc.GetKpis(ctx, 2024, 1)
	if err != nil {
		t.Fatalf("kpis: %v", err)
	}
	if k.MonthIncome.Cents != 100000 || k.MonthExpense.Cents != 20000 || k.AccumulatedBalance.Cents != 80000 {
		t.Fatalf("january kpis: %+v", k)
	}

	k, _ = svc.GetKpis(ctx, 2024, 2)
	if k.MonthIncome.Cents != 0 || k.MonthExpense.Cents != 5000 || k.AccumulatedBalance.Cents != 75000 {
		t.Fatalf("february kpis: %+v", k)
	}
}

func TestGetKpisRejectsBadPeriod(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.GetKpis(context.Background(), 2024, 13); err == nil {
		t.Fatalf("expected error for month 13")
	}
	if _, err := svc.GetKpis(context.Background(), 0, 1); err == nil {
		t.Fatalf("expected error for year 0")
	}
}

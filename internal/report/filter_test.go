package report

import (
	"testing"

	"financas/internal/core"
)

func rec(date core.Date, category string, ty core.TransactionType, cents int64, method string) core.Transaction {
	return core.Transaction{
		Date:          date,
		Category:      category,
		Type:          ty,
		Amount:        core.ParsedAmount(core.Money{Cents: cents}),
		PaymentMethod: method,
	}
}

func sample() []core.Transaction {
	return []core.Transaction{
		rec(core.NewDate(2024, 1, 10), "Salary", core.Income, 100000, "Transfer"),
		rec(core.NewDate(2024, 1, 15), "Food", core.Expense, 20000, "Credit"),
		rec(core.NewDate(2024, 2, 1), "Food", core.Expense, 5000, "Cash"),
		rec(core.NewDate(2023, 12, 31), "Housing", core.Expense, 90000, "BankSlip"),
	}
}

func TestApplyNoPredicates(t *testing.T) {
	records := sample()
	got := Apply(records, Filter{})
	if len(got) != len(records) {
		t.Fatalf("expected all records, got %d", len(got))
	}
	// Input order preserved.
	for i := range records {
		if got[i].Date != records[i].Date {
			t.Fatalf("order changed at %d", i)
		}
	}
}

func TestApplyConjunction(t *testing.T) {
	got := Apply(sample(), Filter{
		Year:           2024,
		Month:          1,
		Categories:     []string{"Food"},
		PaymentMethods: []string{"Credit"},
	})
	if len(got) != 1 || got[0].Category != "Food" || got[0].PaymentMethod != "Credit" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestApplyYearOnly(t *testing.T) {
	got := Apply(sample(), Filter{Year: 2023})
	if len(got) != 1 || got[0].Category != "Housing" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestApplyEmptySetMatchesNothing(t *testing.T) {
	// Empty non-nil set means "match nothing", not "match all".
	got := Apply(sample(), Filter{Categories: []string{}})
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestApplyFullUniverseEqualsOmitted(t *testing.T) {
	records := sample()
	universe := Filter{
		Categories:     []string{"Salary", "Food", "Housing"},
		PaymentMethods: []string{"Transfer", "Credit", "Cash", "BankSlip"},
	}
	got := Apply(records, universe)
	if len(got) != len(Apply(records, Filter{})) {
		t.Fatalf("full universe should be equivalent to omitted predicates")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := sample()
	before := records[0]
	_ = Apply(records, Filter{Year: 2023})
	if records[0] != before {
		t.Fatalf("input mutated")
	}
}

func TestSortByDateDesc(t *testing.T) {
	got := SortByDateDesc(sample())
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date.Time) {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	if got[0].Date.String() != "2024-02-01" || got[len(got)-1].Date.String() != "2023-12-31" {
		t.Fatalf("unexpected bounds: %v .. %v", got[0].Date, got[len(got)-1].Date)
	}
}

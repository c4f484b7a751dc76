package report

import (
	"testing"

	"financas/internal/core"
)

// The scenario from the dashboard contract: two January records and one
// February expense.
func scenario() []core.Transaction {
	return []core.Transaction{
		rec(core.NewDate(2024, 1, 10), "Salary", core.Income, 100000, "Transfer"),
		rec(core.NewDate(2024, 1, 15), "Food", core.Expense, 20000, "Credit"),
		rec(core.NewDate(2024, 2, 1), "Food", core.Expense, 5000, "Cash"),
	}
}

func TestComputeKpisSelectedMonth(t *testing.T) {
	k := ComputeKpis(scenario(), 2024, 1)
	if k.MonthIncome.Cents != 100000 {
		t.Fatalf("month income: %d", k.MonthIncome.Cents)
	}
	if k.MonthExpense.Cents != 20000 {
		t.Fatalf("month expense: %d", k.MonthExpense.Cents)
	}
	if k.AccumulatedBalance.Cents != 80000 {
		t.Fatalf("balance: %d", k.AccumulatedBalance.Cents)
	}
}

func TestComputeKpisLaterMonthAccumulates(t *testing.T) {
	k := ComputeKpis(scenario(), 2024, 2)
	if k.MonthIncome.Cents != 0 {
		t.Fatalf("month income: %d", k.MonthIncome.Cents)
	}
	if k.MonthExpense.Cents != 5000 {
		t.Fatalf("month expense: %d", k.MonthExpense.Cents)
	}
	// 1000.00 - 200.00 - 50.00
	if k.AccumulatedBalance.Cents != 75000 {
		t.Fatalf("balance: %d", k.AccumulatedBalance.Cents)
	}
}

func TestComputeKpisCrossYearWindow(t *testing.T) {
	records := append(scenario(),
		rec(core.NewDate(2023, 6, 1), "Salary", core.Income, 50000, "Transfer"))
	k := ComputeKpis(records, 2024, 1)
	// Prior-year income counts toward the stock metric but not the flow ones.
	if k.MonthIncome.Cents != 100000 {
		t.Fatalf("month income: %d", k.MonthIncome.Cents)
	}
	if k.AccumulatedBalance.Cents != 130000 {
		t.Fatalf("balance: %d", k.AccumulatedBalance.Cents)
	}
}

// The stock window must contain the flow window, and equal it only when the
// selected period is the earliest in the data set.
func TestStockWindowContainsFlowWindow(t *testing.T) {
	records := scenario()
	inFlow := func(t core.Transaction, y, m int) bool {
		return t.Date.Year() == y && t.Date.Month() == m
	}
	inStock := func(t core.Transaction, y, m int) bool {
		return t.Date.Year() < y || (t.Date.Year() == y && t.Date.Month() <= m)
	}
	for _, period := range []struct{ y, m int }{{2024, 1}, {2024, 2}, {2024, 6}} {
		for _, r := range records {
			if inFlow(r, period.y, period.m) && !inStock(r, period.y, period.m) {
				t.Fatalf("flow record outside stock window for %v", period)
			}
		}
	}
	// Earliest period: the windows coincide.
	for _, r := range records {
		if inStock(r, 2024, 1) != inFlow(r, 2024, 1) {
			t.Fatalf("windows differ at earliest period for %+v", r)
		}
	}
}

func TestCategoryBreakdownExpensesOnly(t *testing.T) {
	records := append(scenario(),
		rec(core.NewDate(2024, 1, 20), "Transport", core.Expense, 3000, "Cash"),
		rec(core.NewDate(2024, 1, 25), "Food", core.Expense, 1000, "Cash"))
	got := CategoryBreakdown(records, 2024, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %+v", got)
	}
	// First-seen order: Food before Transport.
	if got[0].Category != "Food" || got[0].Total.Cents != 21000 {
		t.Fatalf("food: %+v", got[0])
	}
	if got[1].Category != "Transport" || got[1].Total.Cents != 3000 {
		t.Fatalf("transport: %+v", got[1])
	}
	// Income categories are omitted, not zeroed.
	for _, ct := range got {
		if ct.Category == "Salary" {
			t.Fatalf("income category leaked into breakdown")
		}
	}
}

func TestCategoryBreakdownEmptyPeriod(t *testing.T) {
	if got := CategoryBreakdown(scenario(), 2030, 1); len(got) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", got)
	}
}

func TestTimeSeriesGroupsAndOrders(t *testing.T) {
	records := []core.Transaction{
		rec(core.NewDate(2024, 1, 15), "Food", core.Expense, 2000, "Cash"),
		rec(core.NewDate(2024, 1, 10), "Salary", core.Income, 100000, "Transfer"),
		rec(core.NewDate(2024, 1, 10), "Food", core.Expense, 1500, "Cash"),
		rec(core.NewDate(2024, 1, 10), "Transport", core.Expense, 500, "Cash"),
	}
	got := TimeSeries(records, 2024, 1)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %+v", got)
	}
	// Chronological; within Jan 10, income before expense.
	if got[0].Date.Day() != 10 || got[0].Type != core.Income || got[0].Total.Cents != 100000 {
		t.Fatalf("point 0: %+v", got[0])
	}
	if got[1].Date.Day() != 10 || got[1].Type != core.Expense || got[1].Total.Cents != 2000 {
		t.Fatalf("point 1: %+v", got[1])
	}
	if got[2].Date.Day() != 15 || got[2].Type != core.Expense || got[2].Total.Cents != 2000 {
		t.Fatalf("point 2: %+v", got[2])
	}
}

func TestTimeSeriesFiltersPeriod(t *testing.T) {
	got := TimeSeries(scenario(), 2024, 2)
	if len(got) != 1 || got[0].Date.String() != "2024-02-01" {
		t.Fatalf("unexpected series: %+v", got)
	}
}

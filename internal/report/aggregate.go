package report

import (
	"sort"

	"financas/internal/core"
)

// Kpis holds the dashboard figures for a selected period. MonthIncome and
// MonthExpense are flow metrics computed strictly over the selected month.
// AccumulatedBalance is a stock metric computed over the cumulative window:
// everything up to and including the selected month. The cumulative window is
// a superset of the flow window; the two must not be conflated.
type Kpis struct {
	AccumulatedBalance core.Money
	MonthIncome        core.Money
	MonthExpense       core.Money
}

// CategoryTotal is an expense total grouped by category.
type CategoryTotal struct {
	Category string
	Total    core.Money
}

// TimePoint is one (date, type) group of the time series.
type TimePoint struct {
	Date  core.Date
	Type  core.TransactionType
	Total core.Money
}

// ComputeKpis computes the flow and stock KPIs for the selected year/month.
func ComputeKpis(records []core.Transaction, year, month int) Kpis {
	var k Kpis
	for _, t := range records {
		inFlow := t.Date.Year() == year && t.Date.Month() == month
		inStock := t.Date.Year() < year || (t.Date.Year() == year && t.Date.Month() <= month)

		switch t.Type {
		case core.Income:
			if inFlow {
				k.MonthIncome = k.MonthIncome.Add(t.Amount.Money)
			}
			if inStock {
				k.AccumulatedBalance = k.AccumulatedBalance.Add(t.Amount.Money)
			}
		case core.Expense:
			if inFlow {
				k.MonthExpense = k.MonthExpense.Add(t.Amount.Money)
			}
			if inStock {
				k.AccumulatedBalance = k.AccumulatedBalance.Sub(t.Amount.Money)
			}
		}
	}
	return k
}

// CategoryBreakdown groups expense records of the selected month by category,
// summing amounts. Categories with no matching records are omitted, not
// zeroed. Output preserves first-seen order.
func CategoryBreakdown(records []core.Transaction, year, month int) []CategoryTotal {
	totals := map[string]int64{}
	var order []string
	for _, t := range records {
		if t.Type != core.Expense || t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount.Money.Cents
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryTotal{Category: name, Total: core.Money{Cents: totals[name]}})
	}
	return out
}

// TimeSeries groups the selected month's records by (date, type), summing
// amounts per group, ordered chronologically. Within a date, Income sorts
// before Expense so both types of a day stay adjacent.
func TimeSeries(records []core.Transaction, year, month int) []TimePoint {
	type key struct {
		date string
		ty   core.TransactionType
	}
	totals := map[key]*TimePoint{}
	for _, t := range records {
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		k := key{date: t.Date.String(), ty: t.Type}
		if p, ok := totals[k]; ok {
			p.Total = p.Total.Add(t.Amount.Money)
			continue
		}
		totals[k] = &TimePoint{Date: t.Date, Type: t.Type, Total: t.Amount.Money}
	}

	out := make([]TimePoint, 0, len(totals))
	for _, p := range totals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].Type == core.Income && out[j].Type == core.Expense
	})
	return out
}

// Package report derives period-based views from transaction records: the
// filter engine projects a record set through composable predicates, and the
// aggregation engine computes flow and stock KPIs plus grouped summaries.
package report

import (
	"sort"

	"financas/internal/core"
)

// Filter is a conjunctive set of optional predicates. A zero Year or Month
// means "all". Categories and PaymentMethods distinguish nil from empty: nil
// omits the predicate, an empty non-nil set matches nothing — callers wanting
// no filtering pass nil (or the full universe).
type Filter struct {
	Year           int
	Month          int
	Categories     []string
	PaymentMethods []string
}

// Apply returns the records satisfying every predicate. It never mutates the
// input and preserves input order.
func Apply(records []core.Transaction, f Filter) []core.Transaction {
	catSet := toSet(f.Categories)
	paySet := toSet(f.PaymentMethods)

	out := make([]core.Transaction, 0, len(records))
	for _, t := range records {
		if f.Year != 0 && t.Date.Year() != f.Year {
			continue
		}
		if f.Month != 0 && t.Date.Month() != f.Month {
			continue
		}
		if catSet != nil && !catSet[t.Category] {
			continue
		}
		if paySet != nil && !paySet[t.PaymentMethod] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortByDateDesc returns a copy sorted by date descending, the expected
// display order. The sort is stable so same-day records keep input order.
func SortByDateDesc(records []core.Transaction) []core.Transaction {
	out := append([]core.Transaction(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

func toSet(values []string) map[string]bool {
	if values == nil {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

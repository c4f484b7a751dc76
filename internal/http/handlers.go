package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"financas/internal/log"
	"financas/internal/report"
)

func reportCacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

// handleListTransactions returns records matching the query filters, newest
// first. Absent year/month means all periods; repeated category and
// payment_method parameters are each an allow-set.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := report.Filter{
		Categories:     q["category"],
		PaymentMethods: q["payment_method"],
	}
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			f.Year = y
		}
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			f.Month = m
		}
	}

	records, err := s.svc.ListTransactions(r.Context(), f)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List transactions error", log.FieldError, err)
		writeDomainError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(records))
	for _, t := range records {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	t, err := fromTransactionPayload(p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, err := s.svc.CreateTransaction(r.Context(), t)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create transaction error", log.FieldError, err)
		writeDomainError(w, err)
		return
	}
	s.purgeReportCaches()

	t.ID = id
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := s.svc.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var p transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	t, err := fromTransactionPayload(p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.svc.UpdateTransaction(r.Context(), id, t); err != nil {
		s.logger.ErrorContext(r.Context(), "Update transaction error",
			log.FieldError, err, log.FieldTransactionID, id)
		writeDomainError(w, err)
		return
	}
	s.purgeReportCaches()

	t.ID = id
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "Delete transaction error",
			log.FieldError, err, log.FieldTransactionID, id)
		writeDomainError(w, err)
		return
	}
	s.purgeReportCaches()
	w.WriteHeader(http.StatusNoContent)
}

type kpisResponse struct {
	Year               int     `json:"year"`
	Month              int     `json:"month"`
	AccumulatedBalance float64 `json:"accumulated_balance"`
	MonthIncome        float64 `json:"month_income"`
	MonthExpense       float64 `json:"month_expense"`
}

func (s *Server) handleKpis(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	key := reportCacheKey(year, month)

	k, ok := s.kpiCache.Get(key)
	if !ok {
		var err error
		k, err = s.svc.GetKpis(r.Context(), year, month)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Kpis error",
				log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
			writeDomainError(w, err)
			return
		}
		s.kpiCache.Set(key, k)
	}

	writeJSON(w, http.StatusOK, kpisResponse{
		Year:               year,
		Month:              month,
		AccumulatedBalance: k.AccumulatedBalance.Float64(),
		MonthIncome:        k.MonthIncome.Float64(),
		MonthExpense:       k.MonthExpense.Float64(),
	})
}

type categoryTotalResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	key := reportCacheKey(year, month)

	rows, ok := s.breakdownCache.Get(key)
	if !ok {
		var err error
		rows, err = s.svc.GetCategoryBreakdown(r.Context(), year, month)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Category breakdown error",
				log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
			writeDomainError(w, err)
			return
		}
		s.breakdownCache.Set(key, rows)
	}

	out := make([]categoryTotalResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryTotalResponse{Category: row.Category, Total: row.Total.Float64()})
	}
	writeJSON(w, http.StatusOK, out)
}

type timePointResponse struct {
	Date  string  `json:"date"`
	Type  string  `json:"type"`
	Total float64 `json:"total"`
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	key := reportCacheKey(year, month)

	points, ok := s.seriesCache.Get(key)
	if !ok {
		var err error
		points, err = s.svc.GetTimeSeries(r.Context(), year, month)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Time series error",
				log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
			writeDomainError(w, err)
			return
		}
		s.seriesCache.Set(key, points)
	}

	out := make([]timePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, timePointResponse{Date: p.Date.String(), Type: string(p.Type), Total: p.Total.Float64()})
	}
	writeJSON(w, http.StatusOK, out)
}

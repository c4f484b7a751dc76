package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

// parseYearMonth extracts year and month from query parameters.
// Returns current year/month as defaults if not provided or invalid.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year < 1 {
		year = now.Year()
	}

	return year, month
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode error", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps domain sentinels onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTransactionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "transaction not found"})
	case errors.Is(err, core.ErrBackendUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "backend unavailable"})
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyPayment):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// transactionPayload is the JSON body accepted on create and update.
type transactionPayload struct {
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Description   string  `json:"description"`
}

// transactionResponse is the JSON shape of one ledger record.
type transactionResponse struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Category        string  `json:"category"`
	Type            string  `json:"type"`
	Amount          float64 `json:"amount"`
	AmountDefaulted bool    `json:"amount_defaulted,omitempty"`
	PaymentMethod   string  `json:"payment_method"`
	Description     string  `json:"description"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		Date:            t.Date.String(),
		Category:        t.Category,
		Type:            string(t.Type),
		Amount:          t.Amount.Money.Float64(),
		AmountDefaulted: t.Amount.Defaulted,
		PaymentMethod:   t.PaymentMethod,
		Description:     t.Description,
	}
}

// fromTransactionPayload builds a domain record from the request body. The
// returned error is safe to show to the client.
func fromTransactionPayload(p transactionPayload) (core.Transaction, error) {
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	amt := core.NormalizeAmount(p.Amount)
	if amt.Defaulted {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	return core.Transaction{
		Date:          date,
		Category:      sanitizeInput(p.Category),
		Type:          core.TransactionType(p.Type),
		Amount:        amt,
		PaymentMethod: sanitizeInput(p.PaymentMethod),
		Description:   sanitizeInput(p.Description),
	}, nil
}

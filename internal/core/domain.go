package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

type (
	// TransactionType carries the sign of a transaction: Income adds to the
	// balance, Expense subtracts. The amount itself is magnitude only.
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the single ledger entity. ID is assigned by the store at
	// creation time; the backend itself has no notion of identity.
	Transaction struct {
		ID            string
		Date          Date
		Category      string
		Type          TransactionType
		Amount        Amount
		PaymentMethod string
		Description   string
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrEmptyCategory       = errors.New("empty category")
	ErrEmptyPayment        = errors.New("empty payment method")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrBackendUnavailable wraps any transport or auth failure reaching the
	// remote tabular store. Not retried, not recovered locally.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// DateLayout is the wire format for dates stored in the backend.
const DateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate decodes a backend date cell. Besides the canonical layout it
// tolerates a trailing time component, which some writers leave behind.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return NewDate(t.Year(), int(t.Month()), t.Day()), nil
	}
	return Date{}, ErrInvalidDate
}

// Year returns the calendar year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the calendar month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// String renders the canonical wire format.
func (d Date) String() string { return d.Time.Format(DateLayout) }

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (ty TransactionType) Validate() error {
	switch ty {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Amount.Money.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.PaymentMethod) == "" {
		return ErrEmptyPayment
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

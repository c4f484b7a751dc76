// Package core provides the ledger domain types and money handling.
//
// This file contains the amount normalizer used on every read of a stored
// amount: the backend may echo values back as native numbers or as
// locale-formatted text, depending on how the cell was written.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is the result of normalizing a raw amount cell. When the raw value
// could not be parsed, Defaulted is true and Money is zero; Raw keeps the
// original text so callers can harden the lenient fallback if they want to.
type Amount struct {
	Money     Money
	Defaulted bool
	Raw       string
}

// NormalizeAmount decodes a raw scalar into a non-negative amount.
//
// Native numbers pass through unchanged. Text is stripped of a currency
// marker and whitespace, then disambiguated: exactly one dot and no comma
// means the dot is a decimal point ("570.15"); anything else treats dots as
// thousands separators and the comma as the decimal point ("1.000,50").
// Unparsable or negative input normalizes to zero with Defaulted set. The
// function is pure and total: it never fails.
func NormalizeAmount(raw any) Amount {
	switch v := raw.(type) {
	case nil:
		return Amount{Defaulted: true}
	case float64:
		return fromFloat(v, fmt.Sprintf("%v", v))
	case float32:
		return fromFloat(float64(v), fmt.Sprintf("%v", v))
	case int:
		return fromFloat(float64(v), strconv.Itoa(v))
	case int64:
		return fromFloat(float64(v), strconv.FormatInt(v, 10))
	case string:
		return normalizeText(v)
	default:
		// Unknown scalar kinds go through the text path.
		return normalizeText(fmt.Sprint(raw))
	}
}

func normalizeText(raw string) Amount {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{Raw: raw}
	}

	// One dot, no comma: plain decimal point.
	if strings.Contains(s, ".") && !strings.Contains(s, ",") && strings.Count(s, ".") == 1 {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromFloat(f, raw)
		}
	}

	// Everything else is treated as grouped: dots are thousands separators,
	// comma is the decimal point.
	grouped := strings.ReplaceAll(s, ".", "")
	grouped = strings.ReplaceAll(grouped, ",", ".")
	if f, err := strconv.ParseFloat(grouped, 64); err == nil {
		return fromFloat(f, raw)
	}

	return Amount{Defaulted: true, Raw: raw}
}

func fromFloat(f float64, raw string) Amount {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return Amount{Defaulted: true, Raw: raw}
	}
	return Amount{Money: Money{Cents: toCents(f)}}
}

// toCents rounds half-up on the third decimal.
func toCents(f float64) int64 {
	return int64(f*100.0 + 0.5)
}

// ParsedAmount wraps an already-validated money value, for records built from
// user input rather than read from the backend.
func ParsedAmount(m Money) Amount {
	return Amount{Money: m}
}

// ParseDecimalToCents converts user-entered decimal text to cents with
// half-up rounding on the third decimal place. It accepts both dot and comma
// decimal separators. Unlike NormalizeAmount this is strict: invalid formats
// and negative values are errors, because form input should fail loudly.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Float64 returns the decimal value for display and for writing native
// numbers to the backend. Use cents for arithmetic.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

package core

import "testing"

func TestNormalizeAmountNative(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{100.5, 10050},
		{float64(0), 0},
		{42, 4200},
		{int64(7), 700},
	}
	for i, tc := range cases {
		got := NormalizeAmount(tc.in)
		if got.Defaulted {
			t.Fatalf("case %d: unexpected default for %v", i, tc.in)
		}
		if got.Money.Cents != tc.want {
			t.Fatalf("case %d: got %d cents, want %d", i, got.Money.Cents, tc.want)
		}
	}
}

func TestNormalizeAmountText(t *testing.T) {
	cases := []struct {
		in        string
		want      int64
		defaulted bool
	}{
		{"570.15", 57015, false},
		{"1.000,50", 100050, false},
		{"R$ 42,00", 4200, false},
		{"R$ 1.234,56", 123456, false},
		{"570,15", 57015, false},
		{"", 0, false},
		{"   ", 0, false},
		{"garbage", 0, true},
		{"-10.00", 0, true},
		// Two dots, no comma: dots read as thousands separators.
		{"12.34.56", 12345600, false},
	}
	for _, tc := range cases {
		got := NormalizeAmount(tc.in)
		if got.Defaulted != tc.defaulted {
			t.Fatalf("%q: defaulted=%v, want %v", tc.in, got.Defaulted, tc.defaulted)
		}
		if got.Money.Cents != tc.want {
			t.Fatalf("%q: got %d cents, want %d", tc.in, got.Money.Cents, tc.want)
		}
	}
}

func TestNormalizeAmountKeepsRawOnDefault(t *testing.T) {
	got := NormalizeAmount("not a number")
	if !got.Defaulted || got.Raw != "not a number" {
		t.Fatalf("expected defaulted with raw text, got %+v", got)
	}
}

func TestNormalizeAmountSingleDotNoComma(t *testing.T) {
	// "1.000" is ambiguous; one dot and no comma reads as a decimal point.
	got := NormalizeAmount("1.000")
	if got.Money.Cents != 100 {
		t.Fatalf("got %d cents, want 100", got.Money.Cents)
	}
}

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"0", 0, false},
		{"", 0, true},
		{"-5", 0, true},
		{"1.2.3", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyFloat64(t *testing.T) {
	if got := (Money{Cents: 10050}).Float64(); got != 100.5 {
		t.Fatalf("got %v", got)
	}
}

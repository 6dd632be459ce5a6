package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0₫"},
		{500, "500₫"},
		{1_000, "1.000₫"},
		{50_000, "50.000₫"},
		{950_000, "950.000₫"},
		{1_000_000, "1.000.000₫"},
		{12_345_678, "12.345.678₫"},
		{-50_000, "-50.000₫"},
		{-1_234, "-1.234₫"},
	}
	for _, tc := range tests {
		if got := FormatVND(decimal.NewFromInt(tc.amount)); got != tc.want {
			t.Errorf("FormatVND(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatVNDRoundsFractions(t *testing.T) {
	// Amounts carry decimal precision internally but đồng has no cents.
	if got := FormatVND(decimal.NewFromFloat(1_234.56)); got != "1.235₫" {
		t.Errorf("FormatVND(1234.56) = %q, want %q", got, "1.235₫")
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "0%"},
		{95, "95%"},
		{95.5, "95.5%"},
		{33.33, "33.3%"},
		{120, "120%"},
	}
	for _, tc := range tests {
		if got := FormatPercent(tc.pct); got != tc.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestFormatPeriod(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	if got := FormatDate(start); got != "01/06/2025" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatPeriod(start, end); got != "01/06/2025 – 30/06/2025" {
		t.Errorf("FormatPeriod = %q", got)
	}
}

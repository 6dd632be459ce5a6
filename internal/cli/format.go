// Package cli provides formatting and rendering utilities for terminal
// output and user-facing alert text.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatVND formats an amount in Vietnamese đồng with dot grouping.
// e.g., 1000000 -> "1.000.000₫", -50000 -> "-50.000₫"
func FormatVND(amount decimal.Decimal) string {
	s := amount.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte('.')
		}
	}
	b.WriteRune('₫')
	return b.String()
}

// FormatPercent formats a usage percentage, dropping the fraction when it
// is a whole number. e.g., 95 -> "95%", 95.5 -> "95.5%"
func FormatPercent(pct float64) string {
	if pct == float64(int64(pct)) {
		return fmt.Sprintf("%d%%", int64(pct))
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDate formats a date for table cells.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatPeriod formats a budget period interval.
func FormatPeriod(start, end time.Time) string {
	return FormatDate(start) + " – " + FormatDate(end)
}

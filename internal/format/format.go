package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/and161185/orderdesk/internal/model"
	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2 Jan 2006"
	dateTimeLayout = "2 Jan 2006, 15:04"
	currencySymbol = "£"
)

// Date renders a timestamp as a calendar date. Missing or malformed values
// render as an empty string.
func Date(ts model.Timestamp) string {
	t, ok := ts.Time()
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}

// DateTime renders a timestamp with its time of day. Date-only values render
// without a time.
func DateTime(ts model.Timestamp) string {
	t, ok := ts.Time()
	if !ok {
		return ""
	}
	if ts.DateOnly() {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeLayout)
}

// Money renders an amount in pounds with exactly two decimals.
func Money(d decimal.Decimal) string {
	return currencySymbol + d.StringFixed(2)
}

// Amount renders a possibly missing amount; nil renders as £0.00.
func Amount(a *model.Amount) string {
	return Money(a.Value())
}

// ParseAmount parses user-entered money. Empty, non-numeric and non-finite
// input is rejected.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), currencySymbol))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// MoneyString formats a raw string amount, falling back to £0.00.
func MoneyString(s string) string {
	d, ok := ParseAmount(s)
	if !ok {
		return Money(decimal.Zero)
	}
	return Money(d)
}

func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// EndOfDay returns the last millisecond of t's calendar day in UTC.
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

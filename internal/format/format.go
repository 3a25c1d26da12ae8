// Package format implements the display formatting rules for invoice data:
// calendar dates, monetary amounts, timestamps and status labels.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoxai/invoice-console/internal/models"
)

const (
	// PlaceholderEmpty renders for absent values.
	PlaceholderEmpty = "N/A"
	// PlaceholderInvalidDate renders for malformed date strings, distinct
	// from PlaceholderEmpty.
	PlaceholderInvalidDate = "invalid date"
)

// Date formats a backend "YYYY-MM-DD" string as a long calendar date.
// The string is parsed as a plain calendar date (UTC midnight), never the
// local zone, so the rendered day is identical in every timezone.
func Date(dateStr string) string {
	if dateStr == "" {
		return PlaceholderEmpty
	}

	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return PlaceholderInvalidDate
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return PlaceholderInvalidDate
	}
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return PlaceholderInvalidDate
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 30 becomes Mar 2);
	// reject anything that did not round-trip.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return PlaceholderInvalidDate
	}

	return d.Format("January 2, 2006")
}

// Timestamp formats a backend timestamp for display, returning the raw
// string when it cannot be parsed.
func Timestamp(ts string) string {
	if ts == "" {
		return PlaceholderEmpty
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("January 2, 2006 15:04:05")
		}
	}
	return ts
}

// Money renders an amount with its currency symbol and exactly two decimal
// places. A nil amount renders the empty placeholder; an absent currency
// defaults to "$".
func Money(amount *decimal.Decimal, currency string) string {
	if amount == nil {
		return PlaceholderEmpty
	}
	return CurrencySymbol(currency) + amount.StringFixed(2)
}

// MoneyValue is Money for non-nullable amounts.
func MoneyValue(amount decimal.Decimal, currency string) string {
	return CurrencySymbol(currency) + amount.StringFixed(2)
}

// CurrencySymbol resolves a backend currency value to a display symbol.
// The backend may send either a symbol ("$") or an ISO code ("USD").
func CurrencySymbol(currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return "$"
	}
	if symbol, ok := models.CurrencySymbols[strings.ToUpper(currency)]; ok {
		return symbol
	}
	return currency
}

// Quantity renders a quantity without forcing decimal places.
func Quantity(q *decimal.Decimal) string {
	if q == nil {
		return PlaceholderEmpty
	}
	return q.String()
}

// StatusLabel turns a backend status like "processing_textract" into a
// human-readable label like "Processing Textract".
func StatusLabel(status string) string {
	if status == "" {
		return "Unknown"
	}
	words := strings.Split(status, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// StatusClass turns a backend status into a CSS class suffix.
func StatusClass(status string) string {
	if status == "" {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(status), "_", "-")
}

// TruncateFilename shortens long filenames for the list view.
func TruncateFilename(name string, maxLen int) string {
	if maxLen <= 3 || len(name) <= maxLen {
		return name
	}
	return name[:maxLen-3] + "..."
}

// FileSizeKB renders a byte count in kilobytes with two decimals.
func FileSizeKB(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024.0)
}

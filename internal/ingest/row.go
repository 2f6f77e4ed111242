package ingest

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// UnknownCountry is the sentinel for rows without a country code.
	UnknownCountry = "Unknown"
	// UnknownContent is the sentinel for rows without a content label.
	UnknownContent = "Unknown Video"
)

// RawRecord is one loosely-typed export row as produced by the upstream
// parser. Fields arrive as strings of unknown cleanliness.
type RawRecord struct {
	Date         string
	ChannelID    string
	ContentLabel string
	CountryCode  string
	Views        string
	PremiumViews string
	GrossRevenue string
}

// UsageRow is one normalized export row. Rows are immutable once emitted;
// the aggregation engine never mutates them.
type UsageRow struct {
	Date         string
	ChannelID    string
	ContentLabel string
	CountryCode  string
	Views        int64
	PremiumViews int64
	GrossRevenue decimal.Decimal
}

// Normalize coerces one raw record into a UsageRow. Numeric fields that fail
// coercion become zero and blank text fields fall back to their sentinels; a
// row is never rejected here. Row exclusion happens only at the ownership
// resolution stage.
func Normalize(raw RawRecord) UsageRow {
	return UsageRow{
		Date:         strings.TrimSpace(raw.Date),
		ChannelID:    strings.TrimSpace(raw.ChannelID),
		ContentLabel: textOrDefault(raw.ContentLabel, UnknownContent),
		CountryCode:  textOrDefault(raw.CountryCode, UnknownCountry),
		Views:        coerceCount(raw.Views),
		PremiumViews: coerceCount(raw.PremiumViews),
		GrossRevenue: coerceDecimal(raw.GrossRevenue),
	}
}

// NormalizeAll normalizes every record in order.
func NormalizeAll(records []RawRecord) []UsageRow {
	rows := make([]UsageRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Normalize(rec))
	}
	return rows
}

func textOrDefault(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func coerceCount(value string) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		// exports sometimes carry counts as decimals ("123.0")
		f, ferr := strconv.ParseFloat(trimmed, 64)
		if ferr != nil || f < 0 {
			return 0
		}
		return int64(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

func coerceDecimal(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeCoercesGarbledNumerics(t *testing.T) {
	row := Normalize(RawRecord{
		Date:         "2024-03-01",
		ChannelID:    "UC123",
		ContentLabel: "How to Go",
		CountryCode:  "US",
		Views:        "not-a-number",
		PremiumViews: "-5",
		GrossRevenue: "abc",
	})

	if row.Views != 0 {
		t.Fatalf("expected views=0, got %d", row.Views)
	}
	if row.PremiumViews != 0 {
		t.Fatalf("expected premium views=0, got %d", row.PremiumViews)
	}
	if !row.GrossRevenue.IsZero() {
		t.Fatalf("expected gross=0, got %s", row.GrossRevenue)
	}
}

func TestNormalizeKeepsCleanValues(t *testing.T) {
	row := Normalize(RawRecord{
		Date:         " 2024-03-01 ",
		ChannelID:    "UC123",
		ContentLabel: "How to Go",
		CountryCode:  "US",
		Views:        "1200",
		PremiumViews: "34",
		GrossRevenue: "15.75",
	})

	if row.Date != "2024-03-01" {
		t.Fatalf("expected trimmed date, got %q", row.Date)
	}
	if row.Views != 1200 || row.PremiumViews != 34 {
		t.Fatalf("unexpected counts: %d / %d", row.Views, row.PremiumViews)
	}
	if !row.GrossRevenue.Equal(decimal.RequireFromString("15.75")) {
		t.Fatalf("expected gross=15.75, got %s", row.GrossRevenue)
	}
}

func TestNormalizeAppliesSentinels(t *testing.T) {
	row := Normalize(RawRecord{
		Date:      "2024-03-01",
		ChannelID: "UC123",
		Views:     "10",
	})

	if row.CountryCode != UnknownCountry {
		t.Fatalf("expected country sentinel, got %q", row.CountryCode)
	}
	if row.ContentLabel != UnknownContent {
		t.Fatalf("expected content sentinel, got %q", row.ContentLabel)
	}
}

func TestNormalizeAcceptsFloatCounts(t *testing.T) {
	row := Normalize(RawRecord{Views: "123.0"})
	if row.Views != 123 {
		t.Fatalf("expected views=123, got %d", row.Views)
	}
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	rows := NormalizeAll([]RawRecord{
		{ChannelID: "a"},
		{ChannelID: "b"},
	})
	if len(rows) != 2 || rows[0].ChannelID != "a" || rows[1].ChannelID != "b" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

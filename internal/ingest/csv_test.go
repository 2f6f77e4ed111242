package ingest

import (
	"strings"
	"testing"

	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
)

func TestParseCSVSkipsHeaderAndBlankLines(t *testing.T) {
	input := strings.Join([]string{
		"Date,Channel ID,Video Title,Country,Views,Premium Views,Gross Revenue",
		"",
		"2024-03-01,UC123,How to Go,US,1200,34,15.75",
		"2024-03-02,UC123,How to Go,DE,800,10,9.10",
	}, "\n")

	records, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ChannelID != "UC123" || records[0].GrossRevenue != "15.75" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
}

func TestParseCSVWithoutHeader(t *testing.T) {
	input := "2024-03-01,UC123,How to Go,US,1200,34,15.75\n"
	records, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestParseCSVSkipsShortLines(t *testing.T) {
	input := strings.Join([]string{
		"2024-03-01,UC123,How to Go,US,1200,34,15.75",
		"2024-03-02,UC123",
	}, "\n")

	records, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected short line to be skipped, got %d records", len(records))
	}
}

func TestParseCSVFailsWhenEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Date,Channel,Title,Country,Views,Premium,Gross\n"))
	if err == nil {
		t.Fatal("expected error for export with no data rows")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

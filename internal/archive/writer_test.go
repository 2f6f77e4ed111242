package archive

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"github.com/shopspring/decimal"
	"google.golang.org/api/googleapi"
)

type fakeInserter struct {
	calls     []int
	responses []error
}

func (f *fakeInserter) InsertUsageRows(ctx context.Context, rows []any) error {
	f.calls = append(f.calls, len(rows))
	if len(f.responses) == 0 {
		return nil
	}
	err := f.responses[0]
	f.responses = f.responses[1:]
	return err
}

func newArchiveWriter(t *testing.T, fake *fakeInserter, cfg Config) *Writer {
	t.Helper()
	cfg.RetryPolicy.InitialBackoff = 1
	cfg.RetryPolicy.MaximumBackoff = 1
	w, err := New(fake, cfg)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	return w
}

func usageRows(n int) []ingest.UsageRow {
	rows := make([]ingest.UsageRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, ingest.UsageRow{
			Date:         "2024-03-01",
			ChannelID:    "UC1",
			ContentLabel: "A",
			CountryCode:  "US",
			Views:        int64(i),
			GrossRevenue: decimal.NewFromInt(1),
		})
	}
	return rows
}

func TestNewWriterValidation(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error when client missing")
	}
}

func TestArchiveRetriesOnTransientError(t *testing.T) {
	fake := &fakeInserter{responses: []error{
		&googleapi.Error{Code: http.StatusServiceUnavailable},
		nil,
	}}
	writer := newArchiveWriter(t, fake, Config{})

	if err := writer.Archive(context.Background(), "batch-1", usageRows(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected two insert attempts, got %d", len(fake.calls))
	}
}

func TestArchiveDoesNotRetryPermanentError(t *testing.T) {
	fake := &fakeInserter{responses: []error{
		&googleapi.Error{Code: http.StatusBadRequest},
		nil,
	}}
	writer := newArchiveWriter(t, fake, Config{})

	if err := writer.Archive(context.Background(), "batch-1", usageRows(1)); err == nil {
		t.Fatal("expected permanent error to surface")
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected single attempt, got %d", len(fake.calls))
	}
}

func TestArchiveChunksLargeBatches(t *testing.T) {
	fake := &fakeInserter{}
	writer := newArchiveWriter(t, fake, Config{ChunkSize: 2})

	if err := writer.Archive(context.Background(), "batch-1", usageRows(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(fake.calls))
	}
	if fake.calls[0] != 2 || fake.calls[2] != 1 {
		t.Fatalf("unexpected chunk sizes: %v", fake.calls)
	}
}

func TestArchiveEmptyBatchIsNoop(t *testing.T) {
	fake := &fakeInserter{}
	writer := newArchiveWriter(t, fake, Config{})

	if err := writer.Archive(context.Background(), "batch-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatal("empty batch must not hit bigquery")
	}
}

package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	cbigquery "cloud.google.com/go/bigquery"
	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultChunkSize      = 500
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 250 * time.Millisecond
	defaultMaximumBackoff = 2 * time.Second
)

// RetryPolicy controls how many times BigQuery inserts are retried.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaximumBackoff time.Duration
}

// Config controls the archive writer behavior.
type Config struct {
	ChunkSize   int
	RetryPolicy RetryPolicy
}

type rowInserter interface {
	InsertUsageRows(ctx context.Context, rows []any) error
}

// UsageRowRecord is the BigQuery shape of one archived row. The engine never
// reads the archive back; it is the externally accumulating row corpus.
type UsageRowRecord struct {
	BatchID      string    `bigquery:"batch_id"`
	Date         string    `bigquery:"date"`
	ChannelID    string    `bigquery:"channel_id"`
	ContentLabel string    `bigquery:"content_label"`
	CountryCode  string    `bigquery:"country_code"`
	Views        int64     `bigquery:"views"`
	PremiumViews int64     `bigquery:"premium_views"`
	GrossRevenue string    `bigquery:"gross_revenue"`
	ArchivedAt   time.Time `bigquery:"archived_at"`
}

// Writer streams normalized usage rows into the archive table with chunking
// and retry on transient failures.
type Writer struct {
	client    rowInserter
	chunkSize int
	retry     RetryPolicy
	now       func() time.Time
}

// New creates an archive writer backed by a shared BigQuery client.
func New(client rowInserter, cfg Config) (*Writer, error) {
	if client == nil {
		return nil, errors.New("bigquery client required")
	}

	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	retry := cfg.RetryPolicy
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = defaultMaxAttempts
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = defaultInitialBackoff
	}
	if retry.MaximumBackoff <= 0 {
		retry.MaximumBackoff = defaultMaximumBackoff
	}
	if retry.MaximumBackoff < retry.InitialBackoff {
		retry.MaximumBackoff = retry.InitialBackoff
	}

	return &Writer{
		client:    client,
		chunkSize: chunkSize,
		retry:     retry,
		now:       time.Now,
	}, nil
}

// Archive writes every normalized row of one batch to the archive table.
func (w *Writer) Archive(ctx context.Context, batchID string, rows []ingest.UsageRow) error {
	if len(rows) == 0 {
		return nil
	}

	archivedAt := w.now().UTC()
	records := make([]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, &UsageRowRecord{
			BatchID:      batchID,
			Date:         row.Date,
			ChannelID:    row.ChannelID,
			ContentLabel: row.ContentLabel,
			CountryCode:  row.CountryCode,
			Views:        row.Views,
			PremiumViews: row.PremiumViews,
			GrossRevenue: row.GrossRevenue.String(),
			ArchivedAt:   archivedAt,
		})
	}

	for start := 0; start < len(records); start += w.chunkSize {
		end := start + w.chunkSize
		if end > len(records) {
			end = len(records)
		}
		if err := w.insertWithRetry(ctx, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) insertWithRetry(ctx context.Context, rows []any) error {
	attempts := 0
	backoff := w.retry.InitialBackoff

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := w.client.InsertUsageRows(ctx, rows)
		if err == nil {
			return nil
		}

		attempts++
		if attempts >= w.retry.MaxAttempts || !isRetryableBigQueryError(err) {
			return fmt.Errorf("insert usage rows: %w", err)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		timer.Stop()

		backoff = minDuration(backoff*2, w.retry.MaximumBackoff)
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func isRetryableBigQueryError(err error) bool {
	if err == nil {
		return false
	}

	var multi *cbigquery.MultiError
	if errors.As(err, &multi) {
		if multi == nil || len(*multi) == 0 {
			return false
		}
		for _, inner := range *multi {
			if !isRetryableBigQueryError(inner) {
				return false
			}
		}
		return true
	}

	var pme *cbigquery.PutMultiError
	if errors.As(err, &pme) {
		if pme == nil || len(*pme) == 0 {
			return false
		}
		for _, rowErr := range *pme {
			if !isRetryableBigQueryError(rowErr.Errors) {
				return false
			}
		}
		return true
	}

	var rowErr *cbigquery.RowInsertionError
	if errors.As(err, &rowErr) {
		if rowErr == nil || len(rowErr.Errors) == 0 {
			return false
		}
		for _, inner := range rowErr.Errors {
			if !isRetryableBigQueryError(inner) {
				return false
			}
		}
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableHTTPCode(apiErr.Code)
	}

	var statusErr interface{ GRPCStatus() *status.Status }
	if errors.As(err, &statusErr) {
		if st := statusErr.GRPCStatus(); st != nil {
			return isRetryableGRPCCode(st.Code())
		}
	}

	return false
}

func isRetryableHTTPCode(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func isRetryableGRPCCode(code codes.Code) bool {
	switch code {
	case codes.Aborted,
		codes.DeadlineExceeded,
		codes.Internal,
		codes.ResourceExhausted,
		codes.Unavailable:
		return true
	default:
		return false
	}
}

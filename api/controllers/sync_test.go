package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"github.com/dmarroquin/creatorstats-backend/internal/statsync"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/dmarroquin/creatorstats-backend/pkg/types"
)

type fakeSyncRunner struct {
	report  *statsync.BatchReport
	err     error
	records []ingest.RawRecord
}

func (f *fakeSyncRunner) Run(ctx context.Context, records []ingest.RawRecord) (*statsync.BatchReport, error) {
	f.records = records
	return f.report, f.err
}

const exportCSV = "date,channelId,videoTitle,country,views,premiumViews,grossRevenue\n" +
	"2024-03-01,UC1,Video A,US,100,10,12.50\n"

func TestAnalyticsSyncAcceptsMultipartUpload(t *testing.T) {
	runner := &fakeSyncRunner{report: &statsync.BatchReport{BatchID: "b1", RowsMatched: 1}}
	handler := AnalyticsSync(runner, 1, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile(exportFormField, "export.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(exportCSV)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/analytics/sync", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(runner.records) != 1 {
		t.Fatalf("expected 1 record got %d", len(runner.records))
	}
}

func TestAnalyticsSyncAcceptsRawBody(t *testing.T) {
	runner := &fakeSyncRunner{report: &statsync.BatchReport{BatchID: "b1"}}
	handler := AnalyticsSync(runner, 1, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/analytics/sync", strings.NewReader(exportCSV))
	req.Header.Set("Content-Type", "text/csv")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAnalyticsSyncSurfacesReportOnFailure(t *testing.T) {
	runner := &fakeSyncRunner{
		report: &statsync.BatchReport{BatchID: "b1", RowsMatched: 1},
		err:    pkgerrors.New(pkgerrors.CodeDependency, "persist snapshot batch"),
	}
	handler := AnalyticsSync(runner, 1, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/analytics/sync", strings.NewReader(exportCSV))
	req.Header.Set("Content-Type", "text/csv")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected the batch report attached as details")
	}
}

func TestAnalyticsSyncMissingFormFile(t *testing.T) {
	handler := AnalyticsSync(&fakeSyncRunner{}, 1, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/analytics/sync", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

package controllers

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dmarroquin/creatorstats-backend/api/responses"
	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"github.com/dmarroquin/creatorstats-backend/internal/statsync"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
)

const exportFormField = "file"

type syncRunner interface {
	Run(ctx context.Context, records []ingest.RawRecord) (*statsync.BatchReport, error)
}

// AnalyticsSync ingests one analytics export (multipart form or raw CSV
// body) and runs the sync pipeline. The response is the batch report with
// matched/orphaned tallies and per-key persistence outcomes.
func AnalyticsSync(svc syncRunner, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}

		maxBytes := int64(maxUploadMB) << 20
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		body, err := exportReader(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer body.Close()

		records, err := ingest.ParseCSV(body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Run(r.Context(), records)
		if err != nil {
			typed := pkgerrors.As(err)
			if typed == nil {
				typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sync batch")
			}
			if report != nil {
				typed = typed.WithDetails(report)
			}
			responses.WriteError(r.Context(), logg, w, typed)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func exportReader(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, nil
	}

	file, _, err := r.FormFile(exportFormField)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "export file missing from form")
	}
	return file, nil
}

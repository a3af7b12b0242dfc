// internal/api/handler/api/signals.go
package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/newthinker/fxsignals/internal/api/response"
	"github.com/newthinker/fxsignals/internal/core"
	"github.com/newthinker/fxsignals/internal/export"
	"github.com/newthinker/fxsignals/internal/session"
	"github.com/newthinker/fxsignals/internal/storage/archive"
)

// ExportRecorder receives export and archive metrics.
type ExportRecorder interface {
	RecordExport(status string, size int)
	RecordArchiveWrite(backend, status string)
}

// SignalsHandler serves the signal query and its workbook export.
type SignalsHandler struct {
	session *session.Session
	logger  *zap.Logger

	archive archive.Storage
	backend string
	metrics ExportRecorder
}

// NewSignalsHandler creates a new signals handler.
func NewSignalsHandler(s *session.Session, logger *zap.Logger) *SignalsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignalsHandler{session: s, logger: logger}
}

// SetArchive makes every export also be written to store.
func (h *SignalsHandler) SetArchive(store archive.Storage, backend string) {
	h.archive = store
	h.backend = backend
}

// SetMetrics sets the export metrics recorder.
func (h *SignalsHandler) SetMetrics(m ExportRecorder) {
	h.metrics = m
}

// SignalsData is the payload of a successful query.
type SignalsData struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Count     int              `json:"count"`
	Results   core.QueryResult `json:"results"`
}

// List validates start_date and end_date and returns the records of that range.
func (h *SignalsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := core.ParseDate(q.Get("start_date"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	end, err := core.ParseDate(q.Get("end_date"))
	if err != nil {
		response.Fail(w, err)
		return
	}

	rng := core.DateRange{Start: start, End: end}
	results, err := h.session.FetchRange(r.Context(), rng)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, SignalsData{
		StartDate: rng.Start.String(),
		EndDate:   rng.End.String(),
		Count:     len(results),
		Results:   results,
	})
}

// Export sends the held results as a workbook download.
func (h *SignalsHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.session.Export()
	if err != nil {
		h.recordExport("error", 0)
		response.Fail(w, err)
		return
	}
	h.recordExport("success", len(data))

	h.store(r.Context(), filename, data)

	response.Attachment(w, filename, export.ContentType, data)
}

// store writes the workbook to the archive. Failures are logged and do not
// affect the download.
func (h *SignalsHandler) store(ctx context.Context, filename string, data []byte) {
	if h.archive == nil {
		return
	}
	status := "success"
	if err := h.archive.Write(ctx, filename, data); err != nil {
		status = "error"
		h.logger.Error("archiving export",
			zap.String("filename", filename),
			zap.Error(core.WrapError(core.ErrArchiveFailed, err)),
		)
	} else {
		h.logger.Info("export archived",
			zap.String("filename", filename),
			zap.Int("bytes", len(data)),
		)
	}
	if h.metrics != nil {
		h.metrics.RecordArchiveWrite(h.backend, status)
	}
}

func (h *SignalsHandler) recordExport(status string, size int) {
	if h.metrics != nil {
		h.metrics.RecordExport(status, size)
	}
}

package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "surveyclean/internal/errors"
	"surveyclean/internal/reporting"
	"surveyclean/internal/services"
)

// RunHandler serves run status, statistics and report downloads
type RunHandler struct {
	service      DataServiceInterface
	pdf          PDFGeneratorInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRunHandler creates a new run handler. A nil pdf generator disables
// the PDF download route.
func NewRunHandler(service DataServiceInterface, pdf PDFGeneratorInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RunHandler {
	return &RunHandler{
		service:      service,
		pdf:          pdf,
		logger:       logger.With(slog.String("handler", "run")),
		errorHandler: errorHandler,
	}
}

// Routes returns the run routes
func (h *RunHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.Status)
	r.Get("/{id}/describe", h.Describe)
	r.Get("/{id}/histogram", h.Histogram)
	r.Get("/{id}/report", h.ReportHTML)
	r.Get("/{id}/report.html", h.ReportHTML)
	r.Get("/{id}/report.pdf", h.ReportPDF)
	r.Get("/{id}/report.csv", h.ReportCSV)

	return r
}

// Status handles GET /api/runs/{id}
func (h *RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := h.service.RunStatus(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}
	render.JSON(w, r, status)
}

// Describe handles GET /api/runs/{id}/describe
func (h *RunHandler) Describe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := h.service.Describe(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"run_id":  id,
		"records": records,
	})
}

// Histogram handles GET /api/runs/{id}/histogram?column=NAME&bins=N
func (h *RunHandler) Histogram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	column := r.URL.Query().Get("column")
	if column == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("column", "Query parameter is required"))
		return
	}

	bins := 0
	if raw := r.URL.Query().Get("bins"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("bins", "Must be a positive integer"))
			return
		}
		bins = parsed
	}

	spec, err := h.service.Histogram(r.Context(), id, column, bins)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}
	render.JSON(w, r, spec)
}

// ReportHTML handles GET /api/runs/{id}/report and /report.html
func (h *RunHandler) ReportHTML(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	html, filename, err := h.renderHTML(r, id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", reportFilename(filename, "html")))
	w.Write(html)
}

// ReportPDF handles GET /api/runs/{id}/report.pdf
func (h *RunHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.pdf == nil {
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotImplemented,
			"PDF_DISABLED", "PDF report generation is disabled"))
		return
	}

	html, filename, err := h.renderHTML(r, id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}

	pdf, err := h.pdf.Generate(r.Context(), html)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ReportError("pdf", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(filename, "pdf")))
	w.Write(pdf)
}

// ReportCSV handles GET /api/runs/{id}/report.csv with the cleaned data
func (h *RunHandler) ReportCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, filename, err := h.service.RunResult(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(filename, "csv")))
	if err := reporting.WriteCleanedCSV(w, result.Cleaned, true); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("run_id", id),
			slog.String("error", err.Error()))
	}
}

func (h *RunHandler) renderHTML(r *http.Request, id string) ([]byte, string, error) {
	result, filename, err := h.service.RunResult(r.Context(), id)
	if err != nil {
		return nil, "", err
	}
	html, err := reporting.GenerateHTML(result, filename)
	if err != nil {
		return nil, "", apierrors.ReportError("html", err)
	}
	return html, filename, nil
}

func (h *RunHandler) mapError(id string, err error) error {
	switch {
	case errors.Is(err, services.ErrRunNotFound):
		return apierrors.RunNotFoundError(id)
	case errors.Is(err, services.ErrRunNotComplete):
		return apierrors.New(http.StatusConflict, "RUN_NOT_COMPLETE", "Cleaning run has not completed")
	case errors.Is(err, services.ErrColumnNotFound):
		return apierrors.NotFoundError("Column")
	default:
		return err
	}
}

// reportFilename derives the download filename from the source name
func reportFilename(source, ext string) string {
	if source == "" {
		source = "report"
	}
	return fmt.Sprintf("%s_report.%s", source, ext)
}

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "surveyclean/internal/errors"
	"surveyclean/internal/services"
	"surveyclean/internal/validation"
	"surveyclean/pkg/contracts/domain"
)

// uploadMemoryLimit is the multipart parse threshold before spilling to disk
const uploadMemoryLimit = 8 << 20

// DatasetHandler handles dataset upload and run launch requests
type DatasetHandler struct {
	service      DataServiceInterface
	validator    *validation.RequestValidator
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DataServiceInterface, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		validator:    validation.NewRequestValidator(),
		maxBytes:     maxBytes,
		logger:       logger.With(slog.String("handler", "dataset")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/runs", h.StartRun)

	return r
}

// Upload handles POST /api/datasets: a multipart upload of one survey
// file under the "file" field
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+uploadMemoryLimit)
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A file upload is required"))
		return
	}
	defer file.Close()

	summary, err := h.service.Upload(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset uploaded",
		slog.String("dataset_id", summary.ID),
		slog.String("filename", summary.Filename))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, summary)
}

// List handles GET /api/datasets
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"datasets": h.service.ListDatasets(r.Context()),
	})
}

// Get handles GET /api/datasets/{id}
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	summary, err := h.service.GetDataset(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}
	render.JSON(w, r, summary)
}

// startRunRequest is the payload of POST /api/datasets/{id}/runs. An
// empty weight column falls back to the dataset default.
type startRunRequest struct {
	ImputationColumns []string `json:"imputation_columns"`
	ImputationMethod  string   `json:"imputation_method" validate:"omitempty,oneof=Median Mean KNN"`
	OutlierColumns    []string `json:"outlier_columns"`
	WeightColumn      string   `json:"weight_column"`
}

// StartRun handles POST /api/datasets/{id}/runs
func (h *DatasetHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req startRunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	runID, err := h.service.StartRun(r.Context(), id, domain.PipelineConfig{
		ImputationColumns: req.ImputationColumns,
		ImputationMethod:  domain.ImputationMethod(req.ImputationMethod),
		OutlierColumns:    req.OutlierColumns,
		WeightColumn:      req.WeightColumn,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(id, err))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"run_id": runID,
	})
}

func (h *DatasetHandler) mapError(id string, err error) error {
	if errors.Is(err, services.ErrDatasetNotFound) {
		return apierrors.DatasetNotFoundError(id)
	}
	return err
}

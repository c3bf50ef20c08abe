package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"surveyclean/internal/cleaning"
	"surveyclean/internal/config"
	"surveyclean/internal/dataprocessing"
	"surveyclean/internal/operations"
	"surveyclean/internal/validation"
	"surveyclean/pkg/contracts/domain"
)

// stepOrder fixes the presentation order of pipeline steps in run
// status responses
var stepOrder = map[string]int{
	operations.StepIDImputation: 0,
	operations.StepIDOutliers:   1,
	operations.StepIDValidation: 2,
	operations.StepIDEstimation: 3,
}

// Dataset is an uploaded survey file held in memory for cleaning runs
type Dataset struct {
	ID         string
	Filename   string
	Size       int64
	UploadedAt time.Time
	Table      *domain.Table
}

// ColumnInfo describes one column of an uploaded dataset
type ColumnInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Missing int    `json:"missing"`
}

// DatasetSummary is the upload/lookup response for a dataset
type DatasetSummary struct {
	ID             string       `json:"id"`
	Filename       string       `json:"filename"`
	UploadedAt     time.Time    `json:"uploaded_at"`
	Rows           int          `json:"rows"`
	Columns        []ColumnInfo `json:"columns"`
	NumericColumns []string     `json:"numeric_columns"`
	WeightColumn   string       `json:"weight_column,omitempty"`
	Preview        [][]string   `json:"preview"`
}

// StepStatusInfo reports one pipeline step's status in run responses
type StepStatusInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// RunStatusResponse is the polled view of a cleaning run
type RunStatusResponse struct {
	ID        string                `json:"id"`
	DatasetID string                `json:"dataset_id"`
	Source    string                `json:"source"`
	Status    string                `json:"status"`
	Steps     []StepStatusInfo      `json:"steps"`
	Log       []string              `json:"log"`
	Estimates *domain.EstimateTable `json:"estimates,omitempty"`
	Chart     *domain.ChartSpec     `json:"chart,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// runRecord ties a launched run back to its dataset
type runRecord struct {
	id        string
	datasetID string
	filename  string
}

// DataService owns uploaded datasets and the cleaning runs over them.
// Datasets and run states live in memory for the lifetime of the
// process.
type DataService struct {
	cfg       *config.Config
	validator *validation.UploadValidator
	manager   *operations.Manager
	logger    *slog.Logger

	mu       sync.RWMutex
	datasets map[string]*Dataset
	runs     map[string]*runRecord
}

// NewDataService creates a data service over the given run manager
func NewDataService(cfg *config.Config, manager *operations.Manager, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		cfg:       cfg,
		validator: validation.NewUploadValidator(cfg.Upload, logger),
		manager:   manager,
		logger:    logger.With(slog.String("component", "data_service")),
		datasets:  make(map[string]*Dataset),
		runs:      make(map[string]*runRecord),
	}
}

// Upload validates and ingests an uploaded survey file, returning a
// summary with a preview of the first rows
func (ds *DataService) Upload(ctx context.Context, filename string, size int64, r io.Reader) (*DatasetSummary, error) {
	if err := ds.validator.ValidateUpload(filename, size); err != nil {
		return nil, err
	}

	table, err := dataprocessing.Load(filename, io.LimitReader(r, ds.cfg.Upload.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	dataset := &Dataset{
		ID:         uuid.New().String(),
		Filename:   filename,
		Size:       size,
		UploadedAt: time.Now(),
		Table:      table,
	}

	ds.mu.Lock()
	ds.datasets[dataset.ID] = dataset
	ds.mu.Unlock()

	ds.logger.InfoContext(ctx, "dataset uploaded",
		slog.String("dataset_id", dataset.ID),
		slog.String("filename", filename),
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", len(table.Columns)))

	return ds.summarize(dataset), nil
}

// GetDataset returns the summary of an uploaded dataset
func (ds *DataService) GetDataset(ctx context.Context, id string) (*DatasetSummary, error) {
	dataset, err := ds.dataset(id)
	if err != nil {
		return nil, err
	}
	return ds.summarize(dataset), nil
}

// ListDatasets returns summaries of all uploaded datasets, newest first
func (ds *DataService) ListDatasets(ctx context.Context) []*DatasetSummary {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	out := make([]*DatasetSummary, 0, len(ds.datasets))
	for _, dataset := range ds.datasets {
		out = append(out, ds.summarize(dataset))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}

// StartRun launches a cleaning run over a dataset and returns the run
// ID immediately. Progress is observable through RunStatus and the
// websocket hub; the run itself executes in the background under the
// configured timeout.
func (ds *DataService) StartRun(ctx context.Context, datasetID string, cfg domain.PipelineConfig) (string, error) {
	dataset, err := ds.dataset(datasetID)
	if err != nil {
		return "", err
	}

	if cfg.WeightColumn == "" {
		cfg.WeightColumn = domain.DefaultWeightColumn
	}

	runID := uuid.New().String()
	ds.mu.Lock()
	ds.runs[runID] = &runRecord{id: runID, datasetID: datasetID, filename: dataset.Filename}
	ds.mu.Unlock()

	ds.logger.InfoContext(ctx, "run launched",
		slog.String("run_id", runID),
		slog.String("dataset_id", datasetID),
		slog.String("weight_column", cfg.WeightColumn))

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ds.cfg.Pipeline.RunTimeout)
	go func() {
		defer cancel()
		_, err := ds.manager.Execute(runCtx, operations.RunRequest{
			ID:         runID,
			SourceName: dataset.Filename,
			Dataset:    dataset.Table,
			Config:     cfg,
		})
		if err != nil {
			ds.logger.Error("run failed",
				slog.String("run_id", runID),
				slog.String("error", err.Error()))
		}
	}()

	return runID, nil
}

// RunStatus returns the current state of a run. A run that was launched
// but not yet picked up by the manager reports as pending.
func (ds *DataService) RunStatus(ctx context.Context, runID string) (*RunStatusResponse, error) {
	record, err := ds.run(runID)
	if err != nil {
		return nil, err
	}

	resp := &RunStatusResponse{
		ID:        record.id,
		DatasetID: record.datasetID,
		Source:    record.filename,
		Status:    string(operations.RunStatusPending),
	}

	state, err := ds.manager.GetRun(runID)
	if err != nil {
		return resp, nil
	}

	resp.Status = string(state.GetStatus())
	resp.Steps = stepInfos(state)
	resp.Log = state.Logs()

	switch state.GetStatus() {
	case operations.RunStatusCompleted:
		result := state.Result()
		resp.Estimates = result.Estimates
		resp.Chart = result.Chart
	case operations.RunStatusFailed:
		if cause := state.Err(); cause != nil {
			resp.Error = cause.Error()
		}
	}
	return resp, nil
}

// RunResult returns the completed result of a run together with the
// source filename the report is titled with
func (ds *DataService) RunResult(ctx context.Context, runID string) (*domain.RunResult, string, error) {
	record, err := ds.run(runID)
	if err != nil {
		return nil, "", err
	}

	state, err := ds.manager.GetRun(runID)
	if err != nil || state.GetStatus() != operations.RunStatusCompleted {
		return nil, "", ErrRunNotComplete
	}
	return state.Result(), record.filename, nil
}

// Describe returns descriptive statistics for the cleaned table of a
// completed run
func (ds *DataService) Describe(ctx context.Context, runID string) ([]domain.DescribeRecord, error) {
	result, _, err := ds.RunResult(ctx, runID)
	if err != nil {
		return nil, err
	}
	return cleaning.Describe(result.Cleaned), nil
}

// Histogram returns the distribution of one numeric column of a
// completed run's cleaned table
func (ds *DataService) Histogram(ctx context.Context, runID, column string, bins int) (*domain.HistogramSpec, error) {
	result, _, err := ds.RunResult(ctx, runID)
	if err != nil {
		return nil, err
	}

	spec := cleaning.Histogram(result.Cleaned, column, bins)
	if spec == nil {
		return nil, ErrColumnNotFound
	}
	return spec, nil
}

func (ds *DataService) dataset(id string) (*Dataset, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	dataset, ok := ds.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return dataset, nil
}

func (ds *DataService) run(id string) (*runRecord, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	record, ok := ds.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return record, nil
}

// RunCount reports how many runs have been launched
func (ds *DataService) RunCount() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.runs)
}

// DatasetCount reports how many datasets are held in memory
func (ds *DataService) DatasetCount() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.datasets)
}

func (ds *DataService) summarize(dataset *Dataset) *DatasetSummary {
	table := dataset.Table
	summary := &DatasetSummary{
		ID:             dataset.ID,
		Filename:       dataset.Filename,
		UploadedAt:     dataset.UploadedAt,
		Rows:           table.RowCount(),
		NumericColumns: table.NumericColumnNames(),
		Preview:        table.HeadRows(ds.cfg.Upload.PreviewRows),
	}

	for i := range table.Columns {
		col := &table.Columns[i]
		missing := 0
		for j := 0; j < col.Len(); j++ {
			if col.Missing(j) {
				missing++
			}
		}
		summary.Columns = append(summary.Columns, ColumnInfo{
			Name:    col.Name,
			Kind:    string(col.Kind),
			Missing: missing,
		})
	}

	if table.HasColumn(domain.DefaultWeightColumn) {
		summary.WeightColumn = domain.DefaultWeightColumn
	}
	return summary
}

func stepInfos(state *operations.RunState) []StepStatusInfo {
	infos := make([]StepStatusInfo, 0, len(state.Steps))
	for _, step := range state.Steps {
		infos = append(infos, StepStatusInfo{
			ID:       step.ID,
			Name:     step.Name,
			Status:   string(step.GetStatus()),
			Progress: step.GetProgress(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return stepOrder[infos[i].ID] < stepOrder[infos[j].ID]
	})
	return infos
}

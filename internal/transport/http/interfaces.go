package http

import (
	"context"
	"io"

	"surveyclean/internal/services"
	"surveyclean/pkg/contracts/domain"
)

// DataServiceInterface defines the dataset and run operations the
// handlers depend on
type DataServiceInterface interface {
	Upload(ctx context.Context, filename string, size int64, r io.Reader) (*services.DatasetSummary, error)
	GetDataset(ctx context.Context, id string) (*services.DatasetSummary, error)
	ListDatasets(ctx context.Context) []*services.DatasetSummary
	StartRun(ctx context.Context, datasetID string, cfg domain.PipelineConfig) (string, error)
	RunStatus(ctx context.Context, runID string) (*services.RunStatusResponse, error)
	RunResult(ctx context.Context, runID string) (*domain.RunResult, string, error)
	Describe(ctx context.Context, runID string) ([]domain.DescribeRecord, error)
	Histogram(ctx context.Context, runID, column string, bins int) (*domain.HistogramSpec, error)
}

// HealthServiceInterface defines the health check operation
type HealthServiceInterface interface {
	Check(ctx context.Context) *services.HealthStatus
}

// PDFGeneratorInterface renders an HTML report to PDF
type PDFGeneratorInterface interface {
	Generate(ctx context.Context, html []byte) ([]byte, error)
}

package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/internal/config"
	apierrors "surveyclean/internal/errors"
	"surveyclean/internal/operations"
	"surveyclean/pkg/contracts/domain"
)

const sampleCSV = `ID,Age,Income,Employment_Status,Design_Weight
1,25,50000,Employed,1.5
2,NA,62000,Employed,0.8
3,16,0,Employed,1.2
4,40,55000,Unemployed,1.1
`

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxBytes:    1 << 20,
			Extensions:  []string{".csv", ".xlsx", ".xls"},
			PreviewRows: 10,
		},
		Pipeline: config.PipelineConfig{RunTimeout: time.Minute},
	}
}

func testDataService(t *testing.T) *DataService {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := operations.NewManager(nil, nil, logger)
	return NewDataService(testConfig(), manager, logger)
}

func uploadSample(t *testing.T, ds *DataService) *DatasetSummary {
	t.Helper()
	summary, err := ds.Upload(context.Background(), "survey_data.csv", int64(len(sampleCSV)), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return summary
}

func waitForRun(t *testing.T, ds *DataService, runID string) *RunStatusResponse {
	t.Helper()
	var status *RunStatusResponse
	require.Eventually(t, func() bool {
		var err error
		status, err = ds.RunStatus(context.Background(), runID)
		if err != nil {
			return false
		}
		return status.Status == string(operations.RunStatusCompleted) ||
			status.Status == string(operations.RunStatusFailed)
	}, 5*time.Second, 10*time.Millisecond)
	return status
}

func TestDataService_Upload(t *testing.T) {
	ds := testDataService(t)
	summary := uploadSample(t, ds)

	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "survey_data.csv", summary.Filename)
	assert.Equal(t, 4, summary.Rows)
	assert.Len(t, summary.Columns, 5)
	assert.Contains(t, summary.NumericColumns, "Age")
	assert.Contains(t, summary.NumericColumns, "Income")
	assert.Equal(t, domain.DefaultWeightColumn, summary.WeightColumn)
	assert.Len(t, summary.Preview, 4)

	ageInfo := summary.Columns[1]
	assert.Equal(t, "Age", ageInfo.Name)
	assert.Equal(t, 1, ageInfo.Missing)
}

func TestDataService_Upload_Rejections(t *testing.T) {
	ds := testDataService(t)

	_, err := ds.Upload(context.Background(), "notes.txt", 10, strings.NewReader("hello"))
	require.Error(t, err)
	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", apiErr.ErrorCode)

	_, err = ds.Upload(context.Background(), "big.csv", 2<<20, strings.NewReader(sampleCSV))
	require.Error(t, err)
}

func TestDataService_GetDataset(t *testing.T) {
	ds := testDataService(t)
	summary := uploadSample(t, ds)

	got, err := ds.GetDataset(context.Background(), summary.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, got.ID)

	_, err = ds.GetDataset(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestDataService_ListDatasets(t *testing.T) {
	ds := testDataService(t)
	assert.Empty(t, ds.ListDatasets(context.Background()))

	uploadSample(t, ds)
	uploadSample(t, ds)
	assert.Len(t, ds.ListDatasets(context.Background()), 2)
}

func TestDataService_RunLifecycle(t *testing.T) {
	ds := testDataService(t)
	summary := uploadSample(t, ds)

	runID, err := ds.StartRun(context.Background(), summary.ID, domain.PipelineConfig{
		ImputationColumns: []string{"Age"},
		ImputationMethod:  domain.ImputationMedian,
		OutlierColumns:    []string{"Age"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	status := waitForRun(t, ds, runID)
	assert.Equal(t, string(operations.RunStatusCompleted), status.Status)
	assert.Equal(t, summary.ID, status.DatasetID)
	assert.Equal(t, "survey_data.csv", status.Source)
	assert.NotEmpty(t, status.Log)
	require.NotNil(t, status.Estimates)
	assert.NotNil(t, status.Chart)

	require.Len(t, status.Steps, 4)
	assert.Equal(t, operations.StepIDImputation, status.Steps[0].ID)
	assert.Equal(t, operations.StepIDEstimation, status.Steps[3].ID)
	for _, step := range status.Steps {
		assert.Equal(t, string(operations.StepStatusCompleted), step.Status)
	}

	// Weight column defaulted when the dataset carries Design_Weight
	assert.Contains(t, strings.Join(status.Log, "\n"), "Design_Weight")
}

func TestDataService_StartRun_UnknownDataset(t *testing.T) {
	ds := testDataService(t)
	_, err := ds.StartRun(context.Background(), "missing", domain.PipelineConfig{})
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestDataService_RunStatus_Unknown(t *testing.T) {
	ds := testDataService(t)
	_, err := ds.RunStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestDataService_RunResultAndDescribe(t *testing.T) {
	ds := testDataService(t)
	summary := uploadSample(t, ds)

	runID, err := ds.StartRun(context.Background(), summary.ID, domain.PipelineConfig{
		ImputationColumns: []string{"Age"},
		ImputationMethod:  domain.ImputationMedian,
	})
	require.NoError(t, err)
	waitForRun(t, ds, runID)

	result, filename, err := ds.RunResult(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, "survey_data.csv", filename)
	require.NotNil(t, result.Cleaned)

	records, err := ds.Describe(context.Background(), runID)
	require.NoError(t, err)
	var variables []string
	for _, rec := range records {
		variables = append(variables, rec.Variable)
	}
	assert.Contains(t, variables, "Age")

	hist, err := ds.Histogram(context.Background(), runID, "Age", 5)
	require.NoError(t, err)
	assert.Equal(t, "Age", hist.Column)

	_, err = ds.Histogram(context.Background(), runID, "Nope", 5)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestDataService_RunResult_NotComplete(t *testing.T) {
	ds := testDataService(t)
	uploadSample(t, ds)

	ds.mu.Lock()
	ds.runs["pending-run"] = &runRecord{id: "pending-run", datasetID: "d", filename: "f.csv"}
	ds.mu.Unlock()

	_, _, err := ds.RunResult(context.Background(), "pending-run")
	assert.ErrorIs(t, err, ErrRunNotComplete)
}

func TestHealthService_Check(t *testing.T) {
	ds := testDataService(t)
	uploadSample(t, ds)

	hs := NewHealthService("1.0.0", ds, nil, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	status := hs.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, 1, status.Services["datasets"])
	assert.Equal(t, 0, status.Services["runs"])
	assert.NotEmpty(t, status.Runtime["go_version"])
}

package operations

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/pkg/contracts/domain"
)

type recordedEvent struct {
	eventType string
	step      string
	status    string
}

type fakeSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeSink) BroadcastUpdate(eventType, step, status string, metadata interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{eventType: eventType, step: step, status: status})
}

func (f *fakeSink) recorded() []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedEvent(nil), f.events...)
}

func surveyDataset() *domain.Table {
	return &domain.Table{Columns: []domain.Column{
		{Name: "Age", Kind: domain.ColumnKindNumeric, Float: []float64{16, 25, 40, math.NaN()}},
		{Name: "Employment_Status", Kind: domain.ColumnKindText, Text: []string{"Employed", "Employed", "Unemployed", "Employed"}},
		{Name: "Design_Weight", Kind: domain.ColumnKindNumeric, Float: []float64{1, 2, 1, 1}},
	}}
}

func surveyConfig() domain.PipelineConfig {
	return domain.PipelineConfig{
		ImputationColumns: []string{"Age"},
		ImputationMethod:  domain.ImputationMedian,
		OutlierColumns:    []string{"Age"},
		WeightColumn:      "Design_Weight",
	}
}

func TestManagerExecute_FullPipeline(t *testing.T) {
	manager := NewManager(nil, nil, nil)

	state, err := manager.Execute(context.Background(), RunRequest{
		ID:         "run-1",
		SourceName: "survey.csv",
		Dataset:    surveyDataset(),
		Config:     surveyConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, state.Status)

	cleaned := state.Table()
	require.NotNil(t, cleaned)

	// Row count unchanged, NaN age filled with the median 25, and the
	// underage employed respondent corrected.
	assert.Equal(t, 4, cleaned.RowCount())
	assert.Equal(t, 25.0, cleaned.Column("Age").Float[3])
	assert.Equal(t, "Unemployed", cleaned.Column("Employment_Status").Text[0])

	// Post-imputation ages are {16, 25, 40, 25}; quartiles put the upper
	// fence at 37.75, so 40 is capped.
	assert.InDelta(t, 37.75, cleaned.Column("Age").Float[2], 1e-9)

	logs := state.Logs()
	require.Len(t, logs, 5)
	assert.Equal(t, "Imputed missing values in columns [Age] using Median.", logs[0])
	assert.Equal(t, "Found 1 outlier(s) in 'Age' using IQR.", logs[1])
	assert.Equal(t, "Capped outliers in 'Age' at lower:13.75 and upper:37.75.", logs[2])
	assert.Equal(t, "Found 1 rule violation(s): Age < 18 and Employed. Correcting status to 'Unemployed'.", logs[3])
	assert.Equal(t, "Calculated weighted and unweighted means using 'Design_Weight'.", logs[4])

	estimates := state.Estimates()
	require.NotNil(t, estimates)
	require.Len(t, estimates.Records, 1)
	assert.Equal(t, "Age", estimates.Records[0].Variable)

	for _, id := range []string{StepIDImputation, StepIDOutliers, StepIDValidation, StepIDEstimation} {
		assert.Equal(t, StepStatusCompleted, state.GetStep(id).GetStatus(), id)
	}
}

func TestManagerExecute_Deterministic(t *testing.T) {
	manager := NewManager(nil, nil, nil)

	first, err := manager.Execute(context.Background(), RunRequest{Dataset: surveyDataset(), Config: surveyConfig()})
	require.NoError(t, err)
	second, err := manager.Execute(context.Background(), RunRequest{Dataset: surveyDataset(), Config: surveyConfig()})
	require.NoError(t, err)

	assert.Equal(t, first.Logs(), second.Logs())
	assert.Equal(t, first.Estimates().Records, second.Estimates().Records)
	assert.Equal(t, first.Table().Column("Age").Float, second.Table().Column("Age").Float)
}

func TestManagerExecute_InputNotMutated(t *testing.T) {
	dataset := surveyDataset()
	manager := NewManager(nil, nil, nil)

	_, err := manager.Execute(context.Background(), RunRequest{Dataset: dataset, Config: surveyConfig()})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(dataset.Column("Age").Float[3]))
	assert.Equal(t, "Employed", dataset.Column("Employment_Status").Text[0])
}

func TestManagerExecute_RequiresDataset(t *testing.T) {
	manager := NewManager(nil, nil, nil)

	_, err := manager.Execute(context.Background(), RunRequest{})
	require.Error(t, err)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, ErrorTypeConfiguration, runErr.Type)
}

func TestManagerExecute_BroadcastsProgress(t *testing.T) {
	sink := &fakeSink{}
	manager := NewManager(nil, sink, nil)

	_, err := manager.Execute(context.Background(), RunRequest{Dataset: surveyDataset(), Config: surveyConfig()})
	require.NoError(t, err)

	events := sink.recorded()
	require.NotEmpty(t, events)
	assert.Equal(t, EventTypeRunStatus, events[0].eventType)
	assert.Equal(t, EventTypeRunComplete, events[len(events)-1].eventType)

	progress := 0
	for _, e := range events {
		if e.eventType == EventTypeRunProgress {
			progress++
		}
	}
	assert.Equal(t, 4, progress)
}

func TestManagerExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager := NewManager(nil, nil, nil)
	state, err := manager.Execute(ctx, RunRequest{Dataset: surveyDataset(), Config: surveyConfig()})

	require.Error(t, err)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, ErrorTypeCancellation, runErr.Type)
	assert.Equal(t, RunStatusFailed, state.Status)
}

type failingStep struct{}

func (f *failingStep) ID() string   { return "failing" }
func (f *failingStep) Name() string { return "Failing" }
func (f *failingStep) Execute(ctx context.Context, state *RunState) error {
	return errors.New("boom")
}

func TestManagerExecute_StepFailure(t *testing.T) {
	manager := NewManager([]Step{&failingStep{}}, nil, nil)

	state, err := manager.Execute(context.Background(), RunRequest{Dataset: surveyDataset()})
	require.Error(t, err)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, ErrorTypeExecution, runErr.Type)
	assert.Equal(t, "failing", runErr.Step)
	assert.Equal(t, RunStatusFailed, state.Status)
	assert.Equal(t, StepStatusFailed, state.GetStep("failing").GetStatus())
}

func TestManagerGetRun(t *testing.T) {
	manager := NewManager(nil, nil, nil)

	state, err := manager.Execute(context.Background(), RunRequest{ID: "abc", Dataset: surveyDataset(), Config: surveyConfig()})
	require.NoError(t, err)

	fetched, err := manager.GetRun("abc")
	require.NoError(t, err)
	assert.Same(t, state, fetched)

	_, err = manager.GetRun("missing")
	assert.Error(t, err)
}

func TestRunStateResult(t *testing.T) {
	manager := NewManager(nil, nil, nil)

	state, err := manager.Execute(context.Background(), RunRequest{Dataset: surveyDataset(), Config: surveyConfig()})
	require.NoError(t, err)

	result := state.Result()
	require.NotNil(t, result.Cleaned)
	require.NotNil(t, result.Estimates)
	require.NotNil(t, result.Chart)
	assert.Len(t, result.Log, 5)
	assert.Equal(t, []string{"Age"}, result.Chart.Categories)
}

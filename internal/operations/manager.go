package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"surveyclean/pkg/contracts/domain"
)

// RunRequest describes one cleaning run over an uploaded dataset
type RunRequest struct {
	ID         string
	SourceName string
	Dataset    *domain.Table
	Config     domain.PipelineConfig
}

// Manager sequences the cleaning steps for each run. Steps execute
// strictly in order within a run; concurrent runs are isolated, each
// holding its own state and table copies.
type Manager struct {
	steps  []Step
	sink   ProgressSink
	logger *slog.Logger

	mu   sync.RWMutex
	runs map[string]*RunState
}

// NewManager creates a run manager with the given steps. A nil step
// slice installs the default four-stage pipeline.
func NewManager(steps []Step, sink ProgressSink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if steps == nil {
		steps = DefaultSteps(logger)
	}
	return &Manager{
		steps:  steps,
		sink:   sink,
		logger: logger.With(slog.String("component", "operations.manager")),
		runs:   make(map[string]*RunState),
	}
}

// Execute runs the full pipeline for the request and returns the final
// run state. The call blocks until every step has finished; the produced
// result is a pure function of the dataset and configuration.
func (m *Manager) Execute(ctx context.Context, req RunRequest) (*RunState, error) {
	if req.Dataset == nil {
		return nil, NewConfigurationError("run requires a dataset")
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	state := NewRunState(req.ID, req.Dataset, req.Config)
	state.SourceName = req.SourceName
	for _, step := range m.steps {
		state.SetStep(NewStepState(step.ID(), step.Name()))
	}

	m.storeRun(state)
	state.Start()
	m.broadcast(EventTypeRunStatus, "", string(RunStatusRunning), map[string]interface{}{"run_id": state.ID})

	m.logger.InfoContext(ctx, "run started",
		slog.String("run_id", state.ID),
		slog.String("source", req.SourceName),
		slog.Int("rows", req.Dataset.RowCount()),
		slog.Int("steps", len(m.steps)))

	start := time.Now()
	for i, step := range m.steps {
		if err := ctx.Err(); err != nil {
			runErr := NewCancellationError(step.ID(), err)
			m.failRun(ctx, state, step, runErr)
			return state, runErr
		}

		stepState := state.GetStep(step.ID())
		stepState.Start()
		m.broadcast(EventTypeRunProgress, step.ID(), string(StepStatusActive), map[string]interface{}{
			"run_id":   state.ID,
			"progress": float64(i) / float64(len(m.steps)) * 100,
		})

		if err := step.Execute(ctx, state); err != nil {
			runErr := NewExecutionError(step.ID(), err)
			stepState.Fail(err)
			m.failRun(ctx, state, step, runErr)
			return state, runErr
		}
		stepState.Complete()

		m.logger.DebugContext(ctx, "step completed",
			slog.String("run_id", state.ID),
			slog.String("step_id", step.ID()))
	}

	state.Complete()
	m.broadcast(EventTypeRunComplete, "", string(RunStatusCompleted), map[string]interface{}{"run_id": state.ID})

	m.logger.InfoContext(ctx, "run completed",
		slog.String("run_id", state.ID),
		slog.Duration("duration", time.Since(start)),
		slog.Int("log_lines", len(state.Logs())))
	return state, nil
}

// GetRun returns the state of a run by ID
func (m *Manager) GetRun(id string) (*RunState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return state, nil
}

// ListRuns returns the states of all known runs
func (m *Manager) ListRuns() []*RunState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*RunState, 0, len(m.runs))
	for _, state := range m.runs {
		out = append(out, state)
	}
	return out
}

func (m *Manager) storeRun(state *RunState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[state.ID] = state
}

func (m *Manager) failRun(ctx context.Context, state *RunState, step Step, err error) {
	state.Fail(err)
	m.broadcast(EventTypeRunError, step.ID(), string(RunStatusFailed), map[string]interface{}{
		"run_id": state.ID,
		"error":  err.Error(),
	})
	m.logger.ErrorContext(ctx, "run failed",
		slog.String("run_id", state.ID),
		slog.String("step_id", step.ID()),
		slog.String("error", err.Error()))
}

func (m *Manager) broadcast(eventType, step, status string, metadata interface{}) {
	if m.sink == nil {
		return
	}
	m.sink.BroadcastUpdate(eventType, step, status, metadata)
}

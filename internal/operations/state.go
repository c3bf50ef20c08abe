package operations

import (
	"sync"
	"time"

	"surveyclean/pkg/contracts/domain"
)

// RunStatus represents the overall status of a cleaning run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState is the complete state of one cleaning run. Every run owns its
// own state, table copies, and log buffer; nothing is shared between
// concurrent runs.
type RunState struct {
	mu sync.RWMutex

	ID         string     `json:"id"`
	SourceName string     `json:"source_name"`
	Status     RunStatus  `json:"status"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`

	Config domain.PipelineConfig `json:"config"`
	Steps  map[string]*StepState `json:"steps"`

	table     *domain.Table
	estimates *domain.EstimateTable
	logs      []string
	err       error
}

// NewRunState creates a pending run over the given dataset
func NewRunState(id string, dataset *domain.Table, cfg domain.PipelineConfig) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Config:    cfg,
		Steps:     make(map[string]*StepState),
		table:     dataset,
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.err = err
}

// GetStatus returns the current run status
func (r *RunState) GetStatus() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// Err returns the failure cause, if any
func (r *RunState) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// GetStep returns the state of a specific step
func (r *RunState) GetStep(id string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Steps[id]
}

// SetStep registers the state of a specific step
func (r *RunState) SetStep(state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps[state.ID] = state
}

// Table returns the table as left by the most recent step
func (r *RunState) Table() *domain.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// SetTable replaces the working table with a step's output
func (r *RunState) SetTable(t *domain.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = t
}

// Estimates returns the estimate table produced by the estimation step
func (r *RunState) Estimates() *domain.EstimateTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.estimates
}

// SetEstimates stores the estimation step's output
func (r *RunState) SetEstimates(e *domain.EstimateTable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.estimates = e
}

// AppendLog appends lines to the run's audit trail in order
func (r *RunState) AppendLog(lines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, lines...)
}

// Logs returns a copy of the accumulated audit trail
func (r *RunState) Logs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.logs))
	copy(out, r.logs)
	return out
}

// Result assembles the run's outputs for the report collaborator
func (r *RunState) Result() *domain.RunResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := &domain.RunResult{
		Cleaned:   r.table,
		Estimates: r.estimates,
		Log:       append([]string(nil), r.logs...),
	}
	if r.estimates != nil && !r.estimates.Empty() {
		result.Chart = chartFor(r.estimates)
	}
	return result
}

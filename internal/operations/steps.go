package operations

import (
	"context"
	"log/slog"

	"surveyclean/internal/cleaning"
	"surveyclean/pkg/contracts/domain"
)

// Step identifiers
const (
	StepIDImputation = "imputation"
	StepIDOutliers   = "outliers"
	StepIDValidation = "validation"
	StepIDEstimation = "estimation"
)

// Step names
const (
	StepNameImputation = "Missing Value Imputation"
	StepNameOutliers   = "Outlier Capping"
	StepNameValidation = "Rule Validation"
	StepNameEstimation = "Survey Estimation"
)

// chartFor builds the estimate comparison chart for a finished run
func chartFor(estimates *domain.EstimateTable) *domain.ChartSpec {
	return cleaning.BuildEstimateChart(estimates)
}

// ImputationStep fills missing values in the configured columns
type ImputationStep struct {
	logger *slog.Logger
}

// NewImputationStep creates the imputation step
func NewImputationStep(logger *slog.Logger) *ImputationStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImputationStep{logger: logger.With(slog.String("step", StepIDImputation))}
}

func (s *ImputationStep) ID() string   { return StepIDImputation }
func (s *ImputationStep) Name() string { return StepNameImputation }

func (s *ImputationStep) Execute(ctx context.Context, state *RunState) error {
	cfg := state.Config
	table, logLine := cleaning.Impute(state.Table(), cfg.ImputationColumns, cfg.ImputationMethod)
	state.SetTable(table)
	state.AppendLog(logLine)

	s.logger.InfoContext(ctx, "imputation completed",
		slog.String("run_id", state.ID),
		slog.String("method", string(cfg.ImputationMethod)),
		slog.Int("selected_columns", len(cfg.ImputationColumns)))
	return nil
}

// OutlierStep winsorizes outliers in the configured columns
type OutlierStep struct {
	logger *slog.Logger
}

// NewOutlierStep creates the outlier capping step
func NewOutlierStep(logger *slog.Logger) *OutlierStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutlierStep{logger: logger.With(slog.String("step", StepIDOutliers))}
}

func (s *OutlierStep) ID() string   { return StepIDOutliers }
func (s *OutlierStep) Name() string { return StepNameOutliers }

func (s *OutlierStep) Execute(ctx context.Context, state *RunState) error {
	table, logLines := cleaning.CapOutliers(state.Table(), state.Config.OutlierColumns)
	state.SetTable(table)
	state.AppendLog(logLines...)

	s.logger.InfoContext(ctx, "outlier capping completed",
		slog.String("run_id", state.ID),
		slog.Int("log_lines", len(logLines)))
	return nil
}

// ValidationStep applies the survey consistency rule
type ValidationStep struct {
	logger *slog.Logger
}

// NewValidationStep creates the rule validation step
func NewValidationStep(logger *slog.Logger) *ValidationStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationStep{logger: logger.With(slog.String("step", StepIDValidation))}
}

func (s *ValidationStep) ID() string   { return StepIDValidation }
func (s *ValidationStep) Name() string { return StepNameValidation }

func (s *ValidationStep) Execute(ctx context.Context, state *RunState) error {
	table, logLine := cleaning.Validate(state.Table())
	state.SetTable(table)
	state.AppendLog(logLine)

	s.logger.InfoContext(ctx, "rule validation completed",
		slog.String("run_id", state.ID))
	return nil
}

// EstimationStep computes weighted and unweighted means from the table
// as it stands after validation
type EstimationStep struct {
	logger *slog.Logger
}

// NewEstimationStep creates the estimation step
func NewEstimationStep(logger *slog.Logger) *EstimationStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &EstimationStep{logger: logger.With(slog.String("step", StepIDEstimation))}
}

func (s *EstimationStep) ID() string   { return StepIDEstimation }
func (s *EstimationStep) Name() string { return StepNameEstimation }

func (s *EstimationStep) Execute(ctx context.Context, state *RunState) error {
	estimates, logLine := cleaning.Estimate(state.Table(), state.Config.WeightColumn)
	state.SetEstimates(estimates)
	state.AppendLog(logLine)

	s.logger.InfoContext(ctx, "estimation completed",
		slog.String("run_id", state.ID),
		slog.String("weight_column", state.Config.WeightColumn),
		slog.Int("estimates", len(estimates.Records)))
	return nil
}

// DefaultSteps returns the four pipeline steps in their fixed execution
// order: impute, cap outliers, validate, estimate. Capping must follow
// imputation and estimation must see the post-validation table, so the
// order is not configurable.
func DefaultSteps(logger *slog.Logger) []Step {
	return []Step{
		NewImputationStep(logger),
		NewOutlierStep(logger),
		NewValidationStep(logger),
		NewEstimationStep(logger),
	}
}

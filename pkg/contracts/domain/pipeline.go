package domain

// ImputationMethod selects the strategy used to fill missing values
type ImputationMethod string

const (
	ImputationMedian ImputationMethod = "Median"
	ImputationMean   ImputationMethod = "Mean"
	ImputationKNN    ImputationMethod = "KNN"
)

// DefaultWeightColumn is preselected when present in an uploaded dataset
const DefaultWeightColumn = "Design_Weight"

// PipelineConfig is the full configuration surface consumed by a
// cleaning run. Column selections are validated against the dataset's
// numeric columns by the stages themselves; unknown entries are
// silently dropped rather than rejected here.
type PipelineConfig struct {
	ImputationColumns []string         `json:"imputation_columns"`
	ImputationMethod  ImputationMethod `json:"imputation_method" validate:"omitempty,oneof=Median Mean KNN"`
	OutlierColumns    []string         `json:"outlier_columns"`
	WeightColumn      string           `json:"weight_column" validate:"required"`
}

// RunResult is everything a completed cleaning run hands to the
// report/UI collaborator: the cleaned table, the estimates, the full
// ordered audit trail, and a chart built from the estimates.
type RunResult struct {
	Cleaned   *Table         `json:"-"`
	Estimates *EstimateTable `json:"estimates"`
	Log       []string       `json:"log"`
	Chart     *ChartSpec     `json:"chart,omitempty"`
}

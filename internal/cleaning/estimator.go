package cleaning

import (
	"fmt"
	"math"

	"surveyclean/pkg/contracts/domain"
)

// Estimate computes unweighted and weighted means for every numeric
// column other than the weight column. Each column's means use only the
// rows where both the column's value and the weight are observed
// (pairwise-complete); columns with no such rows are omitted entirely.
// Returns the estimate table plus a single log line.
func Estimate(t *domain.Table, weightColumn string) (*domain.EstimateTable, string) {
	estimates := &domain.EstimateTable{}

	weights := t.Column(weightColumn)
	if weights == nil || !weights.IsNumeric() {
		return estimates, fmt.Sprintf("Weight column '%s' not found in the dataset.", weightColumn)
	}

	for i := range t.Columns {
		col := &t.Columns[i]
		if !col.IsNumeric() || col.Name == weightColumn {
			continue
		}

		var sum, weightedSum, weightSum float64
		n := 0
		for r := 0; r < col.Len(); r++ {
			v, w := col.Float[r], weights.Float[r]
			if math.IsNaN(v) || math.IsNaN(w) {
				continue
			}
			sum += v
			weightedSum += v * w
			weightSum += w
			n++
		}
		if n == 0 {
			continue
		}

		estimates.Records = append(estimates.Records, domain.EstimateRecord{
			Variable:       col.Name,
			UnweightedMean: sum / float64(n),
			WeightedMean:   weightedSum / weightSum,
		})
	}

	if estimates.Empty() {
		return estimates, "No valid numeric columns to generate estimates for."
	}
	return estimates, fmt.Sprintf("Calculated weighted and unweighted means using '%s'.", weightColumn)
}

// BuildEstimateChart builds the grouped bar chart spec comparing
// unweighted and weighted means per variable. Returns nil when there is
// nothing to chart.
func BuildEstimateChart(estimates *domain.EstimateTable) *domain.ChartSpec {
	if estimates == nil || estimates.Empty() {
		return nil
	}

	unweighted := make([]float64, len(estimates.Records))
	weighted := make([]float64, len(estimates.Records))
	for i, r := range estimates.Records {
		unweighted[i] = r.UnweightedMean
		weighted[i] = r.WeightedMean
	}

	return &domain.ChartSpec{
		Title:      "Weighted vs. Unweighted Mean Estimates",
		Categories: estimates.Variables(),
		Series: []domain.ChartSeries{
			{Name: "Unweighted Mean", Values: unweighted},
			{Name: "Weighted Mean", Values: weighted},
		},
	}
}

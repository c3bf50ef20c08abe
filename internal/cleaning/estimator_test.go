package cleaning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/pkg/contracts/domain"
)

func TestEstimate_WeightedAndUnweighted(t *testing.T) {
	table := testTable(
		numColumn("Age", 10, 20, 30),
		numColumn("Design_Weight", 1, 2, 1),
	)

	estimates, logLine := Estimate(table, "Design_Weight")

	assert.Equal(t, "Calculated weighted and unweighted means using 'Design_Weight'.", logLine)
	require.Len(t, estimates.Records, 1)

	rec := estimates.Records[0]
	assert.Equal(t, "Age", rec.Variable)
	assert.InDelta(t, 20.0, rec.UnweightedMean, 1e-9)
	// (10*1 + 20*2 + 30*1) / 4 = 20.
	assert.InDelta(t, 20.0, rec.WeightedMean, 1e-9)
}

func TestEstimate_UniformWeightsMatchUnweighted(t *testing.T) {
	table := testTable(
		numColumn("Score", 3, 7, 11, 13),
		numColumn("W", 2, 2, 2, 2),
	)

	estimates, _ := Estimate(table, "W")

	require.Len(t, estimates.Records, 1)
	assert.InDelta(t, estimates.Records[0].UnweightedMean, estimates.Records[0].WeightedMean, 1e-9)
}

func TestEstimate_WeightColumnNotFound(t *testing.T) {
	table := testTable(numColumn("Age", 10, 20))

	estimates, logLine := Estimate(table, "Design_Weight")

	assert.True(t, estimates.Empty())
	assert.Equal(t, "Weight column 'Design_Weight' not found in the dataset.", logLine)
}

func TestEstimate_PairwiseComplete(t *testing.T) {
	// Row 1 misses the value, row 2 misses the weight; only rows 0 and 3
	// contribute to Age's estimate.
	table := testTable(
		numColumn("Age", 10, math.NaN(), 30, 50),
		numColumn("W", 1, 1, math.NaN(), 3),
	)

	estimates, _ := Estimate(table, "W")

	require.Len(t, estimates.Records, 1)
	rec := estimates.Records[0]
	assert.InDelta(t, 30.0, rec.UnweightedMean, 1e-9)
	// (10*1 + 50*3) / 4 = 40.
	assert.InDelta(t, 40.0, rec.WeightedMean, 1e-9)
}

func TestEstimate_OmitsFullyMissingColumn(t *testing.T) {
	table := testTable(
		numColumn("Empty", math.NaN(), math.NaN()),
		numColumn("Age", 10, 20),
		numColumn("W", 1, 1),
	)

	estimates, _ := Estimate(table, "W")

	require.Len(t, estimates.Records, 1)
	assert.Equal(t, "Age", estimates.Records[0].Variable)
}

func TestEstimate_NoValidColumns(t *testing.T) {
	table := testTable(
		textColumn("Name", "a", "b"),
		numColumn("W", 1, 1),
	)

	estimates, logLine := Estimate(table, "W")

	assert.True(t, estimates.Empty())
	assert.Equal(t, "No valid numeric columns to generate estimates for.", logLine)
}

func TestEstimate_ColumnOrderPreserved(t *testing.T) {
	table := testTable(
		numColumn("B", 1, 2),
		numColumn("A", 3, 4),
		numColumn("W", 1, 1),
	)

	estimates, _ := Estimate(table, "W")

	assert.Equal(t, []string{"B", "A"}, estimates.Variables())
}

func TestBuildEstimateChart(t *testing.T) {
	tests := []struct {
		name      string
		estimates *domain.EstimateTable
		wantNil   bool
	}{
		{name: "nil estimates", estimates: nil, wantNil: true},
		{name: "empty estimates", estimates: &domain.EstimateTable{}, wantNil: true},
		{
			name: "populated estimates",
			estimates: &domain.EstimateTable{Records: []domain.EstimateRecord{
				{Variable: "Age", UnweightedMean: 20, WeightedMean: 22},
				{Variable: "Income", UnweightedMean: 100, WeightedMean: 90},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := BuildEstimateChart(tt.estimates)
			if tt.wantNil {
				assert.Nil(t, chart)
				return
			}
			require.NotNil(t, chart)
			assert.Equal(t, "Weighted vs. Unweighted Mean Estimates", chart.Title)
			assert.Equal(t, []string{"Age", "Income"}, chart.Categories)
			require.Len(t, chart.Series, 2)
			assert.Equal(t, "Unweighted Mean", chart.Series[0].Name)
			assert.Equal(t, []float64{20, 100}, chart.Series[0].Values)
			assert.Equal(t, "Weighted Mean", chart.Series[1].Name)
			assert.Equal(t, []float64{22, 90}, chart.Series[1].Values)
		})
	}
}

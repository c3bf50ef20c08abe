package cleaning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	table := testTable(
		numColumn("Age", 10, 20, 30, 40, math.NaN()),
		textColumn("Name", "a", "b", "c", "d", "e"),
		numColumn("Empty", math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()),
	)

	records := Describe(table)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Age", rec.Variable)
	assert.Equal(t, 4, rec.Count)
	assert.InDelta(t, 25.0, rec.Mean, 1e-9)
	assert.InDelta(t, 12.909944487, rec.Std, 1e-6)
	assert.Equal(t, 10.0, rec.Min)
	assert.InDelta(t, 17.5, rec.Q1, 1e-9)
	assert.InDelta(t, 25.0, rec.Median, 1e-9)
	assert.InDelta(t, 32.5, rec.Q3, 1e-9)
	assert.Equal(t, 40.0, rec.Max)
}

func TestHistogram(t *testing.T) {
	table := testTable(numColumn("Age", 0, 1, 2, 3, 4, 5, 6, 7, 8, 10))

	spec := Histogram(table, "Age", 5)

	require.NotNil(t, spec)
	assert.Equal(t, "Distribution of Age", spec.Title)
	require.Len(t, spec.Bins, 5)

	total := 0
	for _, bin := range spec.Bins {
		total += bin.Count
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 0.0, spec.Bins[0].Lower)
	assert.Equal(t, 10.0, spec.Bins[4].Upper)
}

func TestHistogram_DefaultBins(t *testing.T) {
	table := testTable(numColumn("Age", 1, 2, 3, 4, 5))

	spec := Histogram(table, "Age", 0)

	require.NotNil(t, spec)
	assert.Len(t, spec.Bins, defaultHistogramBins)
}

func TestHistogram_Degenerate(t *testing.T) {
	table := testTable(numColumn("Constant", 5, 5, 5))

	spec := Histogram(table, "Constant", 10)

	require.NotNil(t, spec)
	require.Len(t, spec.Bins, 1)
	assert.Equal(t, 3, spec.Bins[0].Count)
}

func TestHistogram_InvalidColumn(t *testing.T) {
	table := testTable(
		textColumn("Name", "a"),
		numColumn("Empty", math.NaN()),
	)

	assert.Nil(t, Histogram(table, "Name", 5))
	assert.Nil(t, Histogram(table, "Nope", 5))
	assert.Nil(t, Histogram(table, "Empty", 5))
}

package cleaning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapOutliers_CapsHighValue(t *testing.T) {
	// Quartiles of {1,2,3,4,100}: Q1=2, Q3=4, IQR=2,
	// fences at -1 and 7. Only 100 is outside.
	table := testTable(numColumn("Income", 1, 2, 3, 4, 100))

	out, logs := CapOutliers(table, []string{"Income"})

	require.Len(t, logs, 2)
	assert.Equal(t, "Found 1 outlier(s) in 'Income' using IQR.", logs[0])
	assert.Equal(t, "Capped outliers in 'Income' at lower:-1.00 and upper:7.00.", logs[1])
	assert.Equal(t, []float64{1, 2, 3, 4, 7}, out.Column("Income").Float)

	// Original untouched.
	assert.Equal(t, 100.0, table.Column("Income").Float[4])
}

func TestCapOutliers_NoOutliers(t *testing.T) {
	table := testTable(numColumn("Age", 20, 30, 40, 50))

	out, logs := CapOutliers(table, []string{"Age"})

	require.Len(t, logs, 1)
	assert.Equal(t, "No outliers detected in 'Age' using IQR.", logs[0])
	assert.Equal(t, []float64{20, 30, 40, 50}, out.Column("Age").Float)
}

func TestCapOutliers_Idempotent(t *testing.T) {
	table := testTable(numColumn("Income", 1, 2, 3, 4, 100))

	once, _ := CapOutliers(table, []string{"Income"})
	twice, logs := CapOutliers(once, []string{"Income"})

	assert.Equal(t, once.Column("Income").Float, twice.Column("Income").Float)
	require.Len(t, logs, 1)
	assert.Equal(t, "No outliers detected in 'Income' using IQR.", logs[0])
}

func TestCapOutliers_SkipsMissingAndNonNumeric(t *testing.T) {
	table := testTable(
		numColumn("Age", 20, 30, 40),
		textColumn("Name", "a", "b", "c"),
	)

	_, logs := CapOutliers(table, []string{"Name", "Nope", "Age"})

	require.Len(t, logs, 1)
	assert.Equal(t, "No outliers detected in 'Age' using IQR.", logs[0])
}

func TestCapOutliers_EmptySelectionFallback(t *testing.T) {
	table := testTable(textColumn("Name", "a"))

	out, logs := CapOutliers(table, []string{"Name", "Missing"})

	require.Len(t, logs, 1)
	assert.Equal(t, "No numeric columns selected for outlier handling.", logs[0])
	assert.Equal(t, 1, out.RowCount())
}

func TestCapOutliers_MissingValuesStayMissing(t *testing.T) {
	table := testTable(numColumn("Income", 1, 2, 3, 4, 100, math.NaN()))

	out, _ := CapOutliers(table, []string{"Income"})

	assert.True(t, math.IsNaN(out.Column("Income").Float[5]))
}

func TestCapOutliers_MultipleColumns(t *testing.T) {
	table := testTable(
		numColumn("A", 1, 2, 3, 4, 100),
		numColumn("B", 5, 6, 7, 8, 9),
	)

	_, logs := CapOutliers(table, []string{"A", "B"})

	require.Len(t, logs, 3)
	assert.Contains(t, logs[0], "Found 1 outlier(s) in 'A'")
	assert.Contains(t, logs[1], "Capped outliers in 'A'")
	assert.Contains(t, logs[2], "No outliers detected in 'B'")
}

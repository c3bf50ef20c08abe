package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/pkg/contracts/domain"
)

func sampleResult() *domain.RunResult {
	return &domain.RunResult{
		Cleaned: &domain.Table{Columns: []domain.Column{
			{Name: "Age", Kind: domain.ColumnKindNumeric, Float: []float64{25, 37.75}},
			{Name: "Region", Kind: domain.ColumnKindText, Text: []string{"North", "South"}},
		}},
		Estimates: &domain.EstimateTable{Records: []domain.EstimateRecord{
			{Variable: "Age", UnweightedMean: 31.375, WeightedMean: 30.5},
		}},
		Log: []string{
			"Imputed missing values in 'Age' using Median.",
			"Capped outliers in 'Age' at lower:13.75 and upper:37.75.",
		},
		Chart: &domain.ChartSpec{
			Title:      "Weighted vs. Unweighted Mean Estimates",
			Categories: []string{"Age"},
			Series: []domain.ChartSeries{
				{Name: "Unweighted Mean", Values: []float64{31.375}},
				{Name: "Weighted Mean", Values: []float64{30.5}},
			},
		},
	}
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(sampleResult(), "survey_data.csv")
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "Survey Data Analysis Report for: survey_data.csv")
	assert.Contains(t, s, "<h2>Final Cleaned Data</h2>")
	assert.Contains(t, s, "<h2>Summary Estimates</h2>")
	assert.Contains(t, s, "<h2>Visualizations</h2>")
	assert.Contains(t, s, "<h2>Processing Logs</h2>")

	// Cleaned data cells
	assert.Contains(t, s, "<th>Age</th>")
	assert.Contains(t, s, "<td>37.75</td>")
	assert.Contains(t, s, "<td>South</td>")

	// Estimates rendered with two decimals
	assert.Contains(t, s, "<td>31.38</td>")
	assert.Contains(t, s, "<td>30.50</td>")

	// Chart embedded inline
	assert.Contains(t, s, "<svg")
	assert.Contains(t, s, "Weighted vs. Unweighted Mean Estimates")

	// Audit trail preserved in order
	assert.Contains(t, s, "Imputed missing values in &#39;Age&#39; using Median.")
	logsIdx := strings.Index(s, "Imputed missing values")
	cappedIdx := strings.Index(s, "Capped outliers")
	assert.Less(t, logsIdx, cappedIdx)
}

func TestGenerateHTML_NoChart(t *testing.T) {
	result := sampleResult()
	result.Chart = nil
	result.Estimates = &domain.EstimateTable{}

	html, err := GenerateHTML(result, "data.xlsx")
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "No chart to display.")
	assert.Contains(t, s, "No estimates to display.")
	assert.NotContains(t, s, "<svg")
}

func TestGenerateHTML_NilResult(t *testing.T) {
	_, err := GenerateHTML(nil, "data.csv")
	assert.Error(t, err)

	_, err = GenerateHTML(&domain.RunResult{}, "data.csv")
	assert.Error(t, err)
}

func TestWriteCleanedCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCleanedCSV(&buf, sampleResult().Cleaned, true)
	require.NoError(t, err)

	out := buf.Bytes()
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out[:3])

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Age,Region", lines[0])
	assert.Equal(t, "25,North", lines[1])
	assert.Equal(t, "37.75,South", lines[2])
}

func TestWriteCleanedCSV_NoBOM(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCleanedCSV(&buf, sampleResult().Cleaned, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "Age,Region"))
}

func TestWriteEstimatesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEstimatesCSV(&buf, sampleResult().Estimates, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Variable,Unweighted_Mean,Weighted_Mean", lines[0])
	assert.Equal(t, "Age,31.38,30.50", lines[1])
}

func TestRenderChartSVG(t *testing.T) {
	svg := string(renderChartSVG(sampleResult().Chart))
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "Unweighted Mean")
	assert.Contains(t, svg, "Weighted Mean")
	assert.Contains(t, svg, `<text x="60" y="30"`)

	assert.Empty(t, string(renderChartSVG(nil)))
	assert.Empty(t, string(renderChartSVG(&domain.ChartSpec{Title: "empty"})))
}

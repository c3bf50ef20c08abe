package domain

// ChartSeries is a single named series of a chart
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartSpec describes a grouped bar chart comparing series across
// categories. The report collaborator renders it; the core only supplies
// the structured data.
type ChartSpec struct {
	Title      string        `json:"title"`
	Categories []string      `json:"categories"`
	Series     []ChartSeries `json:"series"`
}

// HistogramBin is a single bin of a histogram
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// HistogramSpec describes the distribution of one numeric column
type HistogramSpec struct {
	Title  string         `json:"title"`
	Column string         `json:"column"`
	Bins   []HistogramBin `json:"bins"`
}

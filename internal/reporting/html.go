package reporting

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"surveyclean/pkg/contracts/domain"
)

// reportTemplate lays out the analysis report: cleaned data, estimates,
// chart and the processing audit trail, titled with the source filename.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Survey Data Analysis Report for {{.Filename}}</title>
    <style>
        body { font-family: sans-serif; margin: 2em; }
        h1, h2 { color: #333; }
        .styled-table {
            border-collapse: collapse; margin: 25px 0; font-size: 0.9em;
            min-width: 400px; box-shadow: 0 0 20px rgba(0, 0, 0, 0.15);
        }
        .styled-table thead tr {
            background-color: #009879; color: #ffffff; text-align: left;
        }
        .styled-table th, .styled-table td { padding: 12px 15px; }
        .styled-table tbody tr { border-bottom: 1px solid #dddddd; }
        .styled-table tbody tr:nth-of-type(even) { background-color: #f3f3f3; }
        pre {
            background-color: #eee; padding: 10px; border: 1px solid #ddd;
            white-space: pre-wrap;
        }
    </style>
</head>
<body>
    <h1>Survey Data Analysis Report for: {{.Filename}}</h1>
    <h2>Final Cleaned Data</h2>
    <table class="styled-table">
        <thead>
            <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
        </thead>
        <tbody>
            {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
            {{end}}
        </tbody>
    </table>
    <h2>Summary Estimates</h2>
    {{if .Estimates}}<table class="styled-table">
        <thead>
            <tr><th>Variable</th><th>Unweighted_Mean</th><th>Weighted_Mean</th></tr>
        </thead>
        <tbody>
            {{range .Estimates}}<tr><td>{{.Variable}}</td><td>{{.Unweighted}}</td><td>{{.Weighted}}</td></tr>
            {{end}}
        </tbody>
    </table>{{else}}<p>No estimates to display.</p>{{end}}
    <h2>Visualizations</h2>
    {{if .Chart}}{{.Chart}}{{else}}<p>No chart to display.</p>{{end}}
    <h2>Processing Logs</h2>
    <pre>{{.Logs}}</pre>
</body>
</html>
`))

type estimateRow struct {
	Variable   string
	Unweighted string
	Weighted   string
}

type reportData struct {
	Filename  string
	Headers   []string
	Rows      [][]string
	Estimates []estimateRow
	Chart     template.HTML
	Logs      string
}

// GenerateHTML compiles a completed run into a single HTML report
func GenerateHTML(result *domain.RunResult, filename string) ([]byte, error) {
	if result == nil || result.Cleaned == nil {
		return nil, fmt.Errorf("no run result to report on")
	}

	data := reportData{
		Filename: filename,
		Headers:  result.Cleaned.ColumnNames(),
		Rows:     result.Cleaned.AllRows(),
		Logs:     strings.Join(result.Log, "\n"),
	}

	if result.Estimates != nil {
		for _, rec := range result.Estimates.Records {
			data.Estimates = append(data.Estimates, estimateRow{
				Variable:   rec.Variable,
				Unweighted: formatEstimate(rec.UnweightedMean),
				Weighted:   formatEstimate(rec.WeightedMean),
			})
		}
	}

	if result.Chart != nil {
		data.Chart = renderChartSVG(result.Chart)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.Bytes(), nil
}

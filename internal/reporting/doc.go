// Package reporting renders cleaning run results into the report
// surfaces served by the API: a styled HTML report, a PDF printed from
// that HTML through headless Chrome, and CSV exports of the cleaned
// data and estimates.
package reporting

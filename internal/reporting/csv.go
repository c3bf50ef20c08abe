package reporting

import (
	"encoding/csv"
	"fmt"
	"io"

	"surveyclean/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCleanedCSV exports the cleaned table as CSV. The BOM prefix is
// optional so programmatic consumers can skip it.
func WriteCleanedCSV(w io.Writer, table *domain.Table, bomPrefix bool) error {
	if table == nil {
		return fmt.Errorf("no table to export")
	}

	if bomPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range table.AllRows() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteEstimatesCSV exports the estimates table as CSV
func WriteEstimatesCSV(w io.Writer, estimates *domain.EstimateTable, bomPrefix bool) error {
	if estimates == nil {
		return fmt.Errorf("no estimates to export")
	}

	if bomPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Variable", "Unweighted_Mean", "Weighted_Mean"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, rec := range estimates.Records {
		record := []string{rec.Variable, formatEstimate(rec.UnweightedMean), formatEstimate(rec.WeightedMean)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"surveyclean/pkg/contracts/domain"
)

// missingTokens are the cell values treated as a missing observation
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
}

// Load reads an uploaded survey file into a Table, dispatching on the
// filename extension. CSV and Excel workbooks are supported.
func Load(filename string, r io.Reader) (*domain.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return LoadCSV(r)
	case ".xlsx", ".xls":
		return LoadExcel(r)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// LoadCSV reads a CSV stream with a header row into a Table
func LoadCSV(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return buildTable(rows)
}

// LoadExcel reads the first populated sheet of an Excel workbook into a
// Table. The header is taken from the sheet's first non-empty row.
func LoadExcel(r io.Reader) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(sheetRows) > 0 {
			slog.Debug("reading worksheet",
				slog.String("sheet_name", name),
				slog.Int("total_rows", len(sheetRows)))
			rows = sheetRows
			break
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook contains no data")
	}
	return buildTable(rows)
}

// buildTable converts raw string rows (header first) into a typed Table.
// A column is numeric when every observed cell parses as a float and at
// least one cell is observed; otherwise it stays text.
func buildTable(rows [][]string) (*domain.Table, error) {
	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}

	header := rows[0]
	if len(header) == 0 {
		return nil, fmt.Errorf("file has an empty header row")
	}
	data := rows[1:]

	table := &domain.Table{Columns: make([]domain.Column, len(header))}
	for j, rawName := range header {
		name := strings.TrimSpace(rawName)
		if name == "" {
			name = fmt.Sprintf("Column_%d", j+1)
		}

		cells := make([]string, len(data))
		for i, row := range data {
			if j < len(row) {
				cells[i] = strings.TrimSpace(row[j])
			}
		}
		table.Columns[j] = buildColumn(name, cells)
	}

	slog.Debug("dataset loaded",
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", len(table.Columns)),
		slog.Int("numeric_columns", len(table.NumericColumnNames())))
	return table, nil
}

// buildColumn infers the column kind and parses the cells accordingly
func buildColumn(name string, cells []string) domain.Column {
	numeric := false
	for _, cell := range cells {
		if missingTokens[cell] {
			continue
		}
		if _, err := parseNumber(cell); err != nil {
			return textColumn(name, cells)
		}
		numeric = true
	}
	if !numeric {
		// All cells missing: keep as text so the column is not
		// mistaken for an all-NaN numeric variable.
		return textColumn(name, cells)
	}

	col := domain.Column{Name: name, Kind: domain.ColumnKindNumeric, Float: make([]float64, len(cells))}
	for i, cell := range cells {
		if missingTokens[cell] {
			col.Float[i] = math.NaN()
			continue
		}
		v, _ := parseNumber(cell)
		col.Float[i] = v
	}
	return col
}

func textColumn(name string, cells []string) domain.Column {
	col := domain.Column{Name: name, Kind: domain.ColumnKindText, Text: make([]string, len(cells))}
	for i, cell := range cells {
		if missingTokens[cell] {
			continue
		}
		col.Text[i] = cell
	}
	return col
}

// parseNumber parses a cell as a float, tolerating thousands separators
// the way exported spreadsheets format them
func parseNumber(cell string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
}

// dropEmptyRows removes rows whose every cell is blank
func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
}

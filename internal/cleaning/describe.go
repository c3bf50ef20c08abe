package cleaning

import (
	"math"

	"surveyclean/pkg/contracts/domain"
)

// defaultHistogramBins is used when the caller does not ask for a
// specific bin count
const defaultHistogramBins = 10

// Describe computes descriptive statistics for every numeric column of
// the table, one record per column in table order. Columns with no
// observed values are omitted.
func Describe(t *domain.Table) []domain.DescribeRecord {
	var out []domain.DescribeRecord
	for i := range t.Columns {
		col := &t.Columns[i]
		if !col.IsNumeric() {
			continue
		}
		observed := col.NonMissing()
		if len(observed) == 0 {
			continue
		}
		out = append(out, domain.DescribeRecord{
			Variable: col.Name,
			Count:    len(observed),
			Mean:     mean(observed),
			Std:      stddev(observed),
			Min:      percentile(observed, 0),
			Q1:       percentile(observed, 25),
			Median:   percentile(observed, 50),
			Q3:       percentile(observed, 75),
			Max:      percentile(observed, 100),
		})
	}
	return out
}

// Histogram bins the observed values of one numeric column into equal
// width bins. Returns nil when the column is absent, non-numeric, or has
// no observed values.
func Histogram(t *domain.Table, column string, bins int) *domain.HistogramSpec {
	col := t.Column(column)
	if col == nil || !col.IsNumeric() {
		return nil
	}
	observed := col.NonMissing()
	if len(observed) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = defaultHistogramBins
	}

	lo, hi := observed[0], observed[0]
	for _, v := range observed[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	spec := &domain.HistogramSpec{
		Title:  "Distribution of " + column,
		Column: column,
		Bins:   make([]domain.HistogramBin, bins),
	}

	if lo == hi {
		// Degenerate distribution: one bin holding everything.
		spec.Bins = []domain.HistogramBin{{Lower: lo, Upper: hi, Count: len(observed)}}
		return spec
	}

	width := (hi - lo) / float64(bins)
	for i := range spec.Bins {
		spec.Bins[i].Lower = lo + float64(i)*width
		spec.Bins[i].Upper = lo + float64(i+1)*width
	}
	for _, v := range observed {
		idx := int(math.Floor((v - lo) / width))
		if idx >= bins {
			idx = bins - 1
		}
		spec.Bins[idx].Count++
	}
	return spec
}

package cleaning

import (
	"fmt"
	"math"

	"surveyclean/pkg/contracts/domain"
)

// iqrMultiplier widens the interquartile range to form the outlier fences
const iqrMultiplier = 1.5

// CapOutliers winsorizes each selected numeric column: values beyond
// Q1-1.5*IQR or Q3+1.5*IQR are clamped to the nearest fence. Selection
// entries that are missing from the table or non-numeric are silently
// skipped. Returns the new table and an ordered log line per processed
// column; a single fallback line when nothing was processed.
func CapOutliers(t *domain.Table, columns []string) (*domain.Table, []string) {
	out := t.Clone()
	var logs []string

	for _, name := range columns {
		col := out.Column(name)
		if col == nil || !col.IsNumeric() {
			continue
		}

		observed := col.NonMissing()
		if len(observed) == 0 {
			continue
		}

		q1 := percentile(observed, 25)
		q3 := percentile(observed, 75)
		iqr := q3 - q1
		lower := q1 - iqrMultiplier*iqr
		upper := q3 + iqrMultiplier*iqr

		count := 0
		for _, v := range col.Float {
			if !math.IsNaN(v) && (v < lower || v > upper) {
				count++
			}
		}

		if count > 0 {
			logs = append(logs, fmt.Sprintf("Found %d outlier(s) in '%s' using IQR.", count, name))
			for i, v := range col.Float {
				if math.IsNaN(v) {
					continue
				}
				if v < lower {
					col.Float[i] = lower
				} else if v > upper {
					col.Float[i] = upper
				}
			}
			logs = append(logs, fmt.Sprintf("Capped outliers in '%s' at lower:%.2f and upper:%.2f.", name, lower, upper))
		} else {
			logs = append(logs, fmt.Sprintf("No outliers detected in '%s' using IQR.", name))
		}
	}

	if len(logs) == 0 {
		logs = append(logs, "No numeric columns selected for outlier handling.")
	}
	return out, logs
}

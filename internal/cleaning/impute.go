package cleaning

import (
	"fmt"
	"math"
	"sort"

	"surveyclean/pkg/contracts/domain"
)

// knnNeighbors is the neighbor count used by the KNN imputation strategy
const knnNeighbors = 5

// Imputer fills missing values in a block of numeric columns. Strategies
// are interchangeable: FitTransform computes whatever statistics it needs
// from the selected columns and returns a new table with the block filled,
// never mutating the input.
type Imputer interface {
	Name() string
	FitTransform(t *domain.Table, columns []string) *domain.Table
}

// NewImputer returns the strategy for the given method. Any unrecognized
// method falls back to Median.
func NewImputer(method domain.ImputationMethod) Imputer {
	switch method {
	case domain.ImputationMean:
		return &statImputer{name: string(domain.ImputationMean), stat: mean}
	case domain.ImputationKNN:
		return &knnImputer{k: knnNeighbors}
	default:
		return &statImputer{name: string(domain.ImputationMedian), stat: median}
	}
}

// Impute fills missing values in the selected columns using the given
// method and returns the new table plus a single audit log line.
// Non-numeric entries in the selection are silently dropped; if nothing
// numeric remains the table is returned unchanged.
func Impute(t *domain.Table, columns []string, method domain.ImputationMethod) (*domain.Table, string) {
	numericCols := filterNumeric(t, columns)
	if len(numericCols) == 0 {
		return t.Clone(), "No numeric columns selected for imputation."
	}

	imputer := NewImputer(method)
	out := imputer.FitTransform(t, numericCols)
	return out, fmt.Sprintf("Imputed missing values in columns %v using %s.", numericCols, imputer.Name())
}

// filterNumeric keeps only selection entries naming numeric columns
// present in the table, preserving selection order
func filterNumeric(t *domain.Table, columns []string) []string {
	var out []string
	for _, name := range columns {
		if col := t.Column(name); col != nil && col.IsNumeric() {
			out = append(out, name)
		}
	}
	return out
}

// statImputer replaces each missing value with a per-column statistic
// computed over that column's non-missing values
type statImputer struct {
	name string
	stat func([]float64) float64
}

func (s *statImputer) Name() string { return s.name }

func (s *statImputer) FitTransform(t *domain.Table, columns []string) *domain.Table {
	out := t.Clone()
	for _, name := range columns {
		col := out.Column(name)
		observed := col.NonMissing()
		if len(observed) == 0 {
			continue
		}
		fill := s.stat(observed)
		for i, v := range col.Float {
			if math.IsNaN(v) {
				col.Float[i] = fill
			}
		}
	}
	return out
}

// knnImputer replaces each missing value with the mean of the value's k
// nearest rows, measured by Euclidean distance over the selected column
// block with pairwise-complete coordinates. Deterministic for fixed k and
// data: ties are broken by row order.
type knnImputer struct {
	k int
}

func (k *knnImputer) Name() string { return string(domain.ImputationKNN) }

func (k *knnImputer) FitTransform(t *domain.Table, columns []string) *domain.Table {
	out := t.Clone()
	rows := out.RowCount()

	// Snapshot the selected block before any filling so every imputed
	// cell is computed from the original data.
	block := make([][]float64, len(columns))
	for j, name := range columns {
		src := t.Column(name)
		block[j] = make([]float64, rows)
		copy(block[j], src.Float)
	}

	for j, name := range columns {
		col := out.Column(name)
		for i := 0; i < rows; i++ {
			if !math.IsNaN(block[j][i]) {
				continue
			}
			col.Float[i] = k.imputeCell(block, i, j, rows)
		}
	}
	return out
}

// neighbor pairs a candidate row's distance with its observed value
type neighbor struct {
	dist float64
	row  int
	val  float64
}

// imputeCell computes the replacement for the missing cell at (row, col)
func (k *knnImputer) imputeCell(block [][]float64, row, col, rows int) float64 {
	var candidates []neighbor
	for r := 0; r < rows; r++ {
		if r == row || math.IsNaN(block[col][r]) {
			continue
		}
		d := pairwiseDistance(block, row, r)
		if math.IsInf(d, 1) {
			continue
		}
		candidates = append(candidates, neighbor{dist: d, row: r, val: block[col][r]})
	}

	if len(candidates) == 0 {
		// No comparable row observed this column: fall back to the
		// column mean over observed values.
		var observed []float64
		for r := 0; r < rows; r++ {
			if !math.IsNaN(block[col][r]) {
				observed = append(observed, block[col][r])
			}
		}
		if len(observed) == 0 {
			return math.NaN()
		}
		return mean(observed)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].dist != candidates[b].dist {
			return candidates[a].dist < candidates[b].dist
		}
		return candidates[a].row < candidates[b].row
	})
	if len(candidates) > k.k {
		candidates = candidates[:k.k]
	}

	sum := 0.0
	for _, n := range candidates {
		sum += n.val
	}
	return sum / float64(len(candidates))
}

// pairwiseDistance computes the Euclidean distance between two rows over
// the coordinates both rows observe, rescaled to the full block width.
// Rows with no coordinate in common are infinitely far apart.
func pairwiseDistance(block [][]float64, a, b int) float64 {
	var sum float64
	present := 0
	for j := range block {
		x, y := block[j][a], block[j][b]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		d := x - y
		sum += d * d
		present++
	}
	if present == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(sum * float64(len(block)) / float64(present))
}

package domain

// EstimateRecord holds the survey estimates computed for one variable
type EstimateRecord struct {
	Variable       string  `json:"variable"`
	UnweightedMean float64 `json:"unweighted_mean"`
	WeightedMean   float64 `json:"weighted_mean"`
}

// EstimateTable is the ordered set of estimate records produced by a run,
// one per analyzed numeric column
type EstimateTable struct {
	Records []EstimateRecord `json:"records"`
}

// Empty reports whether no column produced an estimate
func (e *EstimateTable) Empty() bool {
	return len(e.Records) == 0
}

// Variables returns the variable names in record order
func (e *EstimateTable) Variables() []string {
	names := make([]string, len(e.Records))
	for i, r := range e.Records {
		names[i] = r.Variable
	}
	return names
}

// DescribeRecord holds descriptive statistics for one numeric column of
// the cleaned table
type DescribeRecord struct {
	Variable string  `json:"variable"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
}

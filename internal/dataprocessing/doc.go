// Package dataprocessing ingests uploaded survey files into the typed
// Table representation the cleaning pipeline operates on.
//
// CSV and Excel workbooks are supported. Column kinds are inferred from
// the data: a column where every observed cell parses as a number is
// numeric, everything else stays text. Common missing-value tokens
// (empty cells, NA, N/A, NaN, null) become missing observations.
package dataprocessing

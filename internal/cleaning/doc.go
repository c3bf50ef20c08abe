// Package cleaning implements the four survey data cleaning stages:
// missing value imputation, IQR outlier capping, consistency rule
// validation, and weighted estimation.
//
// # Architecture
//
// Each stage is a pure function over a domain.Table: the input is cloned
// before any modification, so a stage never mutates what the caller
// handed it and row count and row order survive the whole pipeline.
// Every stage also returns human readable log lines that the
// orchestrator concatenates into the run's audit trail; degraded
// conditions (empty selections, absent columns) are reported through
// those lines rather than errors.
//
// # Stages
//
//  1. Impute: fills missing numeric values using a Median, Mean, or KNN
//     strategy behind the Imputer interface
//  2. CapOutliers: winsorizes values beyond the Q1-1.5*IQR / Q3+1.5*IQR
//     fences, per column
//  3. Validate: applies the age/employment consistency rule and corrects
//     violating rows
//  4. Estimate: computes unweighted and weighted per-column means over
//     pairwise-complete rows
//
// Describe and Histogram supplement the stages with descriptive
// statistics for the report collaborator.
package cleaning

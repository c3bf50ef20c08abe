// Package operations orchestrates cleaning runs over uploaded survey
// datasets.
//
// A run executes four steps strictly in order: missing value imputation,
// outlier capping, rule validation, and survey estimation. Each step
// hands its output table to the next and appends human readable lines to
// the run's audit log; the estimation step reads the table exactly as
// validation left it. The Manager keeps per-run state keyed by ID and
// broadcasts progress events to an optional ProgressSink (the WebSocket
// hub in the server).
//
// Runs are deterministic: given the same dataset and configuration the
// pipeline produces identical tables, estimates, and logs. Concurrent
// runs never share tables or log buffers.
package operations

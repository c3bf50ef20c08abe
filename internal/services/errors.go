package services

import "errors"

// Sentinel errors returned by the services layer. The transport layer
// maps these onto API error responses.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrRunNotFound     = errors.New("run not found")
	ErrRunNotComplete  = errors.New("run has not completed")
	ErrColumnNotFound  = errors.New("column not found")
)

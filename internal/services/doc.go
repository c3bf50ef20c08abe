// Package services holds the business logic between the HTTP transport
// and the cleaning pipeline: dataset uploads and lookups, run launch
// and status, report retrieval, and health reporting.
package services

// Package app assembles the survey cleaning server: configuration,
// logging, observability, the websocket hub, the run manager, services,
// and the chi router, and runs the HTTP server with graceful shutdown.
package app

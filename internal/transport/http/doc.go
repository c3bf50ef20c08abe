// Package http holds the chi HTTP handlers for the REST API: dataset
// uploads, run launch and polling, report downloads, health and
// websocket endpoints. Handlers depend on service interfaces so tests
// can substitute fakes.
package http

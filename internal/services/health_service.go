package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HubStats reports websocket connection counters
type HubStats interface {
	Stats() map[string]int64
	ClientCount() int
}

// HealthStatus is the health check response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// HealthService reports process health and basic runtime statistics
type HealthService struct {
	version   string
	startTime time.Time
	data      *DataService
	hub       HubStats
	logger    *slog.Logger
}

// NewHealthService creates a health service over the data service and
// websocket hub
func NewHealthService(version string, data *DataService, hub HubStats, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		data:      data,
		hub:       hub,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check assembles the current health status
func (hs *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
		},
		Services: map[string]interface{}{},
	}

	if hs.data != nil {
		status.Services["datasets"] = hs.data.DatasetCount()
		status.Services["runs"] = hs.data.RunCount()
	}
	if hs.hub != nil {
		status.Services["websocket_clients"] = hs.hub.ClientCount()
	}
	return status
}

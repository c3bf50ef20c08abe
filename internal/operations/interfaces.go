package operations

// ProgressSink receives run progress events for live UI updates. The
// WebSocket hub implements it; a nil sink disables broadcasting.
type ProgressSink interface {
	BroadcastUpdate(eventType, step, status string, metadata interface{})
}

// Progress event types sent to the sink
const (
	EventTypeRunStatus   = "run:status"
	EventTypeRunProgress = "run:progress"
	EventTypeRunComplete = "run:complete"
	EventTypeRunError    = "run:error"
)

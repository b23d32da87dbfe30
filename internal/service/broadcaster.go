package service

// Session event types pushed over the WebSocket feed
const (
	EventProgressUpdate = "progress_update"
	EventResultReady    = "result_ready"
	EventSessionReset   = "session_reset"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
}

package eventlog

import (
	"encoding/json"
	"log"
)

// EventType represents the type of session event.
type EventType string

const (
	EventSessionStarted  EventType = "session_started"
	EventUtteranceFinal  EventType = "utterance_final"
	EventPromptGenerated EventType = "prompt_generated"
	EventPromptError     EventType = "prompt_error"
	EventPromptStale     EventType = "prompt_stale"
	EventSessionStopped  EventType = "session_stopped"
	EventSessionClosed   EventType = "session_closed"
)

// Logger writes structured session events through the process logger.
// Sessions are ephemeral, so events are not persisted anywhere.
type Logger struct {
	out *log.Logger
}

// New creates a new event logger.
func New(out *log.Logger) *Logger {
	return &Logger{out: out}
}

// Log writes one event for the given session.
func (l *Logger) Log(sessionID string, eventType EventType, data map[string]any) {
	if l == nil || l.out == nil || sessionID == "" {
		return
	}

	if len(data) == 0 {
		l.out.Printf("event session=%s type=%s", sessionID, eventType)
		return
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		dataJSON = []byte("{}")
	}
	l.out.Printf("event session=%s type=%s data=%s", sessionID, eventType, dataJSON)
}

package types

import "time"

type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	NodeID    string    `json:"nodeId,omitempty"`
	Type      LogType   `json:"type"`
}

package dto

import (
	"github.com/warriorguo/pipeline/types"
)

// APIResponse is the envelope of every JSON answer.
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

func NewErrorResponse(code int, message string) APIResponse[any] {
	return APIResponse[any]{
		Code:    code,
		Message: message,
	}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

type OrderResponse struct {
	// null when the pipeline can not be scheduled
	Order []string `json:"order"`
}

type ConnectResponse struct {
	Accepted bool `json:"accepted"`
}

type ExecuteResponse struct {
	ExecutionState types.ExecutionState `json:"executionState"`
}

type DOTResponse struct {
	DOT string `json:"dot"`
}

type StreamKind string

const (
	StreamSnapshot StreamKind = "snapshot"
	StreamEvent    StreamKind = "event"
)

// StreamMessage is one websocket frame: the initial snapshot, then events.
type StreamMessage struct {
	Kind     StreamKind      `json:"kind"`
	Snapshot *types.Snapshot `json:"snapshot,omitempty"`
	Event    *types.Event    `json:"event,omitempty"`
}

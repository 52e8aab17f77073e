package types

import (
	"github.com/juju/errors"
)

var (
	_ error = &ConnectionError{}
	_ error = &FaultError{}
)

// RejectReason identifies which connection rule refused an edge.
type RejectReason string

const (
	RejectSelfLoop        RejectReason = "self_loop"
	RejectDuplicate       RejectReason = "duplicate"
	RejectTargetHasInput  RejectReason = "target_has_input"
	RejectSourceHasOutput RejectReason = "source_has_output"
	RejectCycle           RejectReason = "cycle"
	RejectUnknownNode     RejectReason = "unknown_node"
)

var rejectMessages = map[RejectReason]string{
	RejectSelfLoop:        "Cannot connect a node to itself",
	RejectDuplicate:       "Connection already exists",
	RejectTargetHasInput:  "Node already has an input connection",
	RejectSourceHasOutput: "Node already has an output connection",
	RejectCycle:           "Connection would create a cycle",
	RejectUnknownNode:     "Node does not exist",
}

func (r RejectReason) Message() string {
	if msg, exists := rejectMessages[r]; exists {
		return msg
	}
	return "Invalid connection"
}

func NewConnectionError(reason RejectReason, c Connection) error {
	return &ConnectionError{Reason: reason, Connection: c}
}

// ConnectionError reports a refused edge. Error() is the user-facing message.
type ConnectionError struct {
	Reason     RejectReason
	Connection Connection
}

func (e *ConnectionError) Error() string {
	return e.Reason.Message()
}

// RejectReasonOf returns the reason carried by err, if it is a connection error.
func RejectReasonOf(err error) (RejectReason, bool) {
	if ce, ok := errors.Cause(err).(*ConnectionError); ok {
		return ce.Reason, true
	}
	return "", false
}

func NewFaultError(otherErr error) error {
	return &FaultError{baseError: newBaseErr(otherErr)}
}

func NewFaultErrorf(format string, args ...interface{}) error {
	return NewFaultError(errors.Errorf(format, args...))
}

func newBaseErr(otherErr error) *baseError {
	return &baseError{unwrapErr(otherErr)}
}

func unwrapErr(err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := err.(wrappedErr); ok {
		return unwrapErr(ue.UnwrapLocal())
	}
	return err
}

type wrappedErr interface {
	UnwrapLocal() error
}

type baseError struct {
	BaseErr error
}

func (e *baseError) Error() string {
	return e.BaseErr.Error()
}

func (e *baseError) UnwrapLocal() error {
	return e.BaseErr
}

// FaultError is an unexpected failure inside a run, as opposed to the
// simulated node failure.
type FaultError struct {
	*baseError
}

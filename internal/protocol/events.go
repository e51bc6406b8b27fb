package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound event type tags.
const (
	EventDurationUpdate   = "ExecutionDurationUpdateEvent"
	EventWorkflowState    = "WorkflowStateEvent"
	EventResultUpdate     = "WebResultUpdateEvent"
	EventPaginatedResult  = "PaginatedResultEvent"
	EventWorkflowError    = "WorkflowErrorEvent"
	EventWorkerAssignment = "WorkerAssignmentUpdateEvent"
)

// ErrMissingType reports an inbound frame without a "type" discriminator.
var ErrMissingType = errors.New("event has no type field")

// Event is one decoded inbound message. The concrete type is one of the
// structs below; frames with a tag the client does not model decode to
// Unknown.
type Event interface {
	Kind() string
}

// DurationUpdate carries the running wall-clock duration of the current
// execution in milliseconds.
type DurationUpdate struct {
	Duration  int64 `json:"duration"`
	IsRunning bool  `json:"isRunning"`
}

// Kind implements Event.
func (DurationUpdate) Kind() string { return EventDurationUpdate }

// Seconds converts the millisecond duration to seconds for display.
func (d DurationUpdate) Seconds() float64 {
	return float64(d.Duration) / 1000.0
}

// StateChange announces a transition of the engine-side workflow state.
type StateChange struct {
	State string `json:"state"`
}

// Kind implements Event.
func (StateChange) Kind() string { return EventWorkflowState }

// OperatorSummary is the per-operator entry of a ResultSummary.
type OperatorSummary struct {
	TotalNumTuples int64 `json:"totalNumTuples"`
}

// ResultSummary carries updated result counts for a set of operators.
type ResultSummary struct {
	Updates map[string]OperatorSummary `json:"updates"`
}

// Kind implements Event.
func (ResultSummary) Kind() string { return EventResultUpdate }

// PaginatedResult carries one page of an operator's result set. Rows are
// kept as raw JSON: the client only relays and exports them, it never
// interprets their fields.
type PaginatedResult struct {
	OperatorID string            `json:"operatorID"`
	PageIndex  int               `json:"pageIndex"`
	Table      []json.RawMessage `json:"table"`
	Schema     json.RawMessage   `json:"schema"`
}

// Kind implements Event.
func (PaginatedResult) Kind() string { return EventPaginatedResult }

// WorkflowError carries the engine's fatal error report for an execution.
type WorkflowError struct {
	FatalErrors json.RawMessage `json:"fatalErrors"`
}

// Kind implements Event.
func (WorkflowError) Kind() string { return EventWorkflowError }

// Unknown is any inbound frame whose tag the client does not model. It is
// preserved whole so callers can log it.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

// Kind implements Event.
func (u Unknown) Kind() string { return u.Type }

// DecodeEvent parses one inbound frame into its tagged event value. A frame
// that is not a JSON object, or that lacks the "type" field, is an error;
// an unrecognized tag is not.
func DecodeEvent(raw []byte) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	if envelope.Type == "" {
		return nil, ErrMissingType
	}

	var ev Event
	switch envelope.Type {
	case EventDurationUpdate:
		ev = &DurationUpdate{}
	case EventWorkflowState:
		ev = &StateChange{}
	case EventResultUpdate:
		ev = &ResultSummary{}
	case EventPaginatedResult:
		ev = &PaginatedResult{}
	case EventWorkflowError:
		ev = &WorkflowError{}
	default:
		return Unknown{Type: envelope.Type, Raw: raw}, nil
	}

	if err := json.Unmarshal(raw, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", envelope.Type, err)
	}
	return ev, nil
}

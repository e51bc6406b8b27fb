// Package protocol defines the wire messages exchanged with the workflow
// engine over its websocket endpoint. Field names are contractual: the
// engine matches requests and events on exact JSON keys, including the
// "type" discriminator carried by every message in both directions.
package protocol

import "fmt"

// Outbound message type tags.
const (
	TypeExecuteRequest    = "WorkflowExecuteRequest"
	TypePaginationRequest = "ResultPaginationRequest"
	TypeKillRequest       = "WorkflowKillRequest"
)

// EngineVersion is the engine build the client speaks the protocol of.
const EngineVersion = "3a1c33d6f"

// DataTransferBatchSize is the fixed batch size requested for result
// transfer in every execution.
const DataTransferBatchSize = 400

// WorkflowSettings is the settings block attached to every execute request.
type WorkflowSettings struct {
	DataTransferBatchSize int `json:"dataTransferBatchSize"`
}

// ExecuteRequest asks the engine to run a logical plan under a given name.
type ExecuteRequest struct {
	Type                     string           `json:"type"`
	ExecutionName            string           `json:"executionName"`
	EngineVersion            string           `json:"engineVersion"`
	LogicalPlan              any              `json:"logicalPlan"`
	WorkflowSettings         WorkflowSettings `json:"workflowSettings"`
	EmailNotificationEnabled bool             `json:"emailNotificationEnabled"`
}

// NewExecuteRequest builds an execute request with the fixed protocol
// fields filled in. logicalPlan may be a *plan.LogicalPlan or raw JSON of
// an already-flattened plan.
func NewExecuteRequest(name string, logicalPlan any) *ExecuteRequest {
	return &ExecuteRequest{
		Type:                     TypeExecuteRequest,
		ExecutionName:            name,
		EngineVersion:            EngineVersion,
		LogicalPlan:              logicalPlan,
		WorkflowSettings:         WorkflowSettings{DataTransferBatchSize: DataTransferBatchSize},
		EmailNotificationEnabled: false,
	}
}

// PaginationRequest asks the engine for one page of an operator's results.
type PaginationRequest struct {
	Type       string `json:"type"`
	RequestID  string `json:"requestID"`
	OperatorID string `json:"operatorID"`
	PageIndex  int    `json:"pageIndex"`
	PageSize   int    `json:"pageSize"`
}

// NewPaginationRequest builds a pagination request. The request id is
// synthesized from the operator, size and page so the response can be
// correlated without client-side request numbering.
func NewPaginationRequest(operatorID string, pageSize, pageIndex int) *PaginationRequest {
	return &PaginationRequest{
		Type:       TypePaginationRequest,
		RequestID:  fmt.Sprintf("req_%s_%d_%d", operatorID, pageSize, pageIndex),
		OperatorID: operatorID,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
	}
}

// KillRequest asks the engine to terminate the current execution. It has
// no parameters.
type KillRequest struct {
	Type string `json:"type"`
}

// NewKillRequest builds a kill request.
func NewKillRequest() *KillRequest {
	return &KillRequest{Type: TypeKillRequest}
}

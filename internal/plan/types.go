// Package plan converts user-authored workflow documents into the engine's
// logical-plan representation.
//
// A workflow document describes the graph the way the workflow editor saves
// it: each operator keeps its configuration nested under operatorProperties,
// and links reference ports by their string portID. The engine instead wants
// operator configuration flattened to the top level of each operator record,
// and ports referenced by their zero-based ordinal within the owning
// operator's port list. Convert performs exactly that translation.
package plan

import "bytes"

// Port is a single declared input or output port of an operator. Its
// position within the operator's port list is its wire identity.
type Port struct {
	PortID string `json:"portID"`
}

// Endpoint names one end of a link: an operator and one of its ports.
type Endpoint struct {
	OperatorID string `json:"operatorID"`
	PortID     string `json:"portID"`
}

// Link connects an output port of one operator to an input port of another.
type Link struct {
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`
}

// Operator is one processing node of a workflow document. Properties holds
// the nested operatorProperties object verbatim; Convert flattens it.
type Operator struct {
	OperatorID   string         `json:"operatorID"`
	OperatorType string         `json:"operatorType"`
	InputPorts   []Port         `json:"inputPorts"`
	OutputPorts  []Port         `json:"outputPorts"`
	Properties   map[string]any `json:"operatorProperties"`
}

// Workflow is the user-facing workflow document, as saved by the editor.
type Workflow struct {
	Operators        []Operator `json:"operators"`
	Links            []Link     `json:"links"`
	OpsToViewResult  []string   `json:"opsToViewResult"`
	OpsToReuseResult []string   `json:"opsToReuseResult"`
}

// FlatOperator is an engine-facing operator record: the union of the
// operator's flattened properties and its four structural fields.
type FlatOperator map[string]any

// PortRef is the engine-facing reference to a port by ordinal.
type PortRef struct {
	ID       int  `json:"id"`
	Internal bool `json:"internal"`
}

// PlanLink is the engine-facing form of a link, with both ports resolved
// to ordinals.
type PlanLink struct {
	FromOpID   string  `json:"fromOpId"`
	FromPortID PortRef `json:"fromPortId"`
	ToOpID     string  `json:"toOpId"`
	ToPortID   PortRef `json:"toPortId"`
}

// LogicalPlan is the engine-facing execution graph.
//
// OpsToViewResult and OpsToReuseResult are emitted sorted ascending. The
// engine treats them as sets, so any order would do; sorting makes the
// conversion fully deterministic.
type LogicalPlan struct {
	Operators        []FlatOperator `json:"operators"`
	Links            []PlanLink     `json:"links"`
	OpsToReuseResult []string       `json:"opsToReuseResult"`
	OpsToViewResult  []string       `json:"opsToViewResult"`
}

// workflowMarker is the field probed for by IsWorkflowDocument. It is saved
// by the workflow editor for layout purposes and never appears in a
// pre-flattened logical plan.
const workflowMarker = `"operatorPositions"`

// IsWorkflowDocument reports whether raw looks like a user-facing workflow
// document rather than a pre-flattened logical plan. This is a deliberate,
// lossy substring probe: a logical plan that happens to contain the marker
// text inside a string value would be misclassified.
func IsWorkflowDocument(raw []byte) bool {
	return bytes.Contains(raw, []byte(workflowMarker))
}

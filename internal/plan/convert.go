package plan

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Convert translates a user-facing workflow document into the engine's
// logical plan. It is pure and deterministic: the same input bytes always
// yield the same plan. It fails with a *DocumentError when the document is
// not valid JSON, when an operator is missing a required field, or when a
// link references an operator or port that does not exist.
func Convert(raw []byte) (*LogicalPlan, error) {
	var wf Workflow
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, &DocumentError{Reason: "invalid JSON", Err: err}
	}

	out := &LogicalPlan{
		Operators:        make([]FlatOperator, 0, len(wf.Operators)),
		Links:            make([]PlanLink, 0, len(wf.Links)),
		OpsToReuseResult: []string{},
		OpsToViewResult:  []string{},
	}

	operatorIDs := make(map[string]*Operator, len(wf.Operators))
	for i := range wf.Operators {
		op := &wf.Operators[i]
		if op.OperatorID == "" {
			return nil, &DocumentError{Reason: fmt.Sprintf("operator %d has no operatorID", i)}
		}
		if op.OperatorType == "" {
			return nil, &DocumentError{Reason: fmt.Sprintf("operator %q has no operatorType", op.OperatorID)}
		}
		if op.Properties == nil {
			return nil, &DocumentError{Reason: fmt.Sprintf("operator %q has no operatorProperties", op.OperatorID)}
		}
		operatorIDs[op.OperatorID] = op
		out.Operators = append(out.Operators, flatten(op))
	}

	for _, link := range wf.Links {
		fromOrdinal, err := resolvePort(operatorIDs, link.Source, "output")
		if err != nil {
			return nil, &DocumentError{Reason: "unresolvable link", Err: err}
		}
		toOrdinal, err := resolvePort(operatorIDs, link.Target, "input")
		if err != nil {
			return nil, &DocumentError{Reason: "unresolvable link", Err: err}
		}
		out.Links = append(out.Links, PlanLink{
			FromOpID:   link.Source.OperatorID,
			FromPortID: PortRef{ID: fromOrdinal, Internal: false},
			ToOpID:     link.Target.OperatorID,
			ToPortID:   PortRef{ID: toOrdinal, Internal: false},
		})
	}

	out.OpsToViewResult = intersectIDs(wf.OpsToViewResult, operatorIDs)
	out.OpsToReuseResult = intersectIDs(wf.OpsToReuseResult, operatorIDs)
	return out, nil
}

// flatten merges an operator's nested properties with its four structural
// fields. Properties are spread first, so a property key colliding with a
// structural field name is overridden by the structural value.
func flatten(op *Operator) FlatOperator {
	flat := make(FlatOperator, len(op.Properties)+4)
	for k, v := range op.Properties {
		flat[k] = v
	}
	flat["operatorID"] = op.OperatorID
	flat["operatorType"] = op.OperatorType
	flat["inputPorts"] = orEmpty(op.InputPorts)
	flat["outputPorts"] = orEmpty(op.OutputPorts)
	return flat
}

// orEmpty keeps absent port lists as empty JSON arrays rather than null.
func orEmpty(ports []Port) []Port {
	if ports == nil {
		return []Port{}
	}
	return ports
}

// resolvePort maps an endpoint's portID to its zero-based ordinal within the
// referenced operator's port list for the given direction.
func resolvePort(operators map[string]*Operator, ep Endpoint, direction string) (int, error) {
	op, ok := operators[ep.OperatorID]
	if !ok {
		return 0, &PortError{OperatorID: ep.OperatorID, PortID: ep.PortID, Direction: direction}
	}
	ports := op.OutputPorts
	if direction == "input" {
		ports = op.InputPorts
	}
	for i, port := range ports {
		if port.PortID == ep.PortID {
			return i, nil
		}
	}
	return 0, &PortError{OperatorID: ep.OperatorID, PortID: ep.PortID, Direction: direction}
}

// intersectIDs filters ids down to those present in operators, dropping
// duplicates and dangling references. The result is sorted ascending.
func intersectIDs(ids []string, operators map[string]*Operator) []string {
	seen := make(map[string]struct{}, len(ids))
	kept := []string{}
	for _, id := range ids {
		if _, ok := operators[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}
	sort.Strings(kept)
	return kept
}

package plan

import "fmt"

// DocumentError reports a workflow document that could not be parsed or
// converted. It wraps the underlying cause, which may be a JSON syntax
// error or a *PortError.
type DocumentError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Err == nil {
		return "malformed workflow document: " + e.Reason
	}
	return fmt.Sprintf("malformed workflow document: %s: %v", e.Reason, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// PortError reports a link endpoint that references an operator or port
// not declared in the document's operator list.
type PortError struct {
	OperatorID string
	PortID     string
	Direction  string // "input" or "output"
}

// Error implements the error interface.
func (e *PortError) Error() string {
	return fmt.Sprintf("no %s port %q on operator %q", e.Direction, e.PortID, e.OperatorID)
}

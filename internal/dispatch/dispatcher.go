// Package dispatch routes inbound engine events to their kind-specific
// handling: status projection to the log, result-set reporting, and export
// completion through the pending-export table.
package dispatch

import (
	"context"
	"fmt"

	"github.com/vk/flowctl/internal/ctxlog"
	"github.com/vk/flowctl/internal/export"
	"github.com/vk/flowctl/internal/protocol"
)

// Dispatcher consumes decoded inbound frames. It shares the pending-export
// table with the outbound command path.
type Dispatcher struct {
	exports *export.Registry
}

// New creates a Dispatcher completing exports against the given table.
func New(exports *export.Registry) *Dispatcher {
	return &Dispatcher{exports: exports}
}

// Dispatch classifies one inbound frame and applies its projection. Only an
// undecodable frame yields an error; unrecognized event kinds and export
// I/O failures are logged and never fail the dispatch loop.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) error {
	logger := ctxlog.FromContext(ctx)

	ev, err := protocol.DecodeEvent(raw)
	if err != nil {
		return fmt.Errorf("dispatch inbound frame: %w", err)
	}

	switch ev := ev.(type) {
	case *protocol.DurationUpdate:
		if !ev.IsRunning {
			logger.Info("Final execution time.", "seconds", ev.Seconds())
		}
	case *protocol.StateChange:
		logger.Info("Workflow state changed.", "state", ev.State)
	case *protocol.ResultSummary:
		for operatorID, info := range ev.Updates {
			logger.Info("Result operator update.", "operatorID", operatorID, "totalNumTuples", info.TotalNumTuples)
		}
	case *protocol.PaginatedResult:
		d.handlePaginatedResult(ctx, ev)
	case *protocol.WorkflowError:
		logger.Error("Workflow reported fatal errors.", "fatalErrors", string(ev.FatalErrors))
	case protocol.Unknown:
		logger.Debug("Ignoring unrecognized event.", "type", ev.Type)
	}
	return nil
}

// handlePaginatedResult reports one page of results and completes a pending
// export for its (operator, page) key, if one was recorded. The entry is
// consumed even when the write fails: the request it answered is done.
func (d *Dispatcher) handlePaginatedResult(ctx context.Context, ev *protocol.PaginatedResult) {
	logger := ctxlog.FromContext(ctx)

	logger.Info("Paginated result received.",
		"operatorID", ev.OperatorID, "rows", len(ev.Table), "page", ev.PageIndex)
	logger.Info("Result schema.", "schema", string(ev.Schema))
	for _, row := range ev.Table {
		logger.Info("Row.", "row", string(row))
	}

	key := export.Key{OperatorID: ev.OperatorID, PageIndex: ev.PageIndex}
	req, ok := d.exports.Take(key)
	if !ok {
		return
	}

	path, err := export.WritePage(req.Dir, ev.OperatorID, req.PageSize, ev.PageIndex, ev.Table)
	if err != nil {
		logger.Error("Failed to export page.",
			"operatorID", ev.OperatorID, "page", ev.PageIndex, "error", err)
		return
	}
	logger.Info("Exported rows as JSON Lines.", "rows", len(ev.Table), "path", path)
}

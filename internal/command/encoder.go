package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/flowctl/internal/ctxlog"
	"github.com/vk/flowctl/internal/export"
	"github.com/vk/flowctl/internal/plan"
	"github.com/vk/flowctl/internal/protocol"
)

// ErrNoExportDir reports a page command that asked for an export but named
// no directory, with no default configured either.
var ErrNoExportDir = errors.New("export requested but no directory given and no default configured")

// Encoder builds outbound request messages from parsed commands. Its only
// side effect is recording pending export directives for page commands;
// it never sends anything itself.
type Encoder struct {
	exports          *export.Registry
	defaultExportDir string
}

// NewEncoder creates an Encoder recording export directives into exports.
// defaultExportDir, when non-empty, is used for page exports that name no
// directory of their own.
func NewEncoder(exports *export.Registry, defaultExportDir string) *Encoder {
	return &Encoder{exports: exports, defaultExportDir: defaultExportDir}
}

// Execute builds an execute request from a plan file. The file may be a
// user-facing workflow document (detected by its operatorPositions marker),
// which is converted to a logical plan, or an already-flattened logical
// plan, which is used unmodified. Nothing is sent on failure.
func (e *Encoder) Execute(ctx context.Context, planPath, name string) (*protocol.ExecuteRequest, error) {
	logger := ctxlog.FromContext(ctx)

	raw, err := os.ReadFile(planPath)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
	}

	var logicalPlan any
	if plan.IsWorkflowDocument(raw) {
		converted, err := plan.Convert(raw)
		if err != nil {
			return nil, err
		}
		logger.Debug("Auto-detected workflow document format.", "path", planPath)
		logicalPlan = converted
	} else {
		if !json.Valid(raw) {
			return nil, &plan.DocumentError{Reason: "plan file is not valid JSON"}
		}
		logger.Debug("Auto-detected pre-flattened logical plan format.", "path", planPath)
		logicalPlan = json.RawMessage(raw)
	}

	return protocol.NewExecuteRequest(name, logicalPlan), nil
}

// Paginate builds a pagination request. If the command carries an export
// directive, the pending-export entry is recorded first, keyed by operator
// and page index, so the asynchronous result event can find it regardless
// of what else happens in between.
func (e *Encoder) Paginate(ctx context.Context, cmd *Command) (*protocol.PaginationRequest, error) {
	logger := ctxlog.FromContext(ctx)

	if cmd.Export {
		dir := cmd.ExportDir
		if dir == "" {
			dir = e.defaultExportDir
		}
		if dir == "" {
			return nil, ErrNoExportDir
		}
		e.exports.Put(
			export.Key{OperatorID: cmd.OperatorID, PageIndex: cmd.PageIndex},
			export.Request{Dir: dir, PageSize: cmd.PageSize},
		)
		logger.Info("Will export page when its result arrives.",
			"operatorID", cmd.OperatorID, "page", cmd.PageIndex, "size", cmd.PageSize, "dir", dir)
	}

	return protocol.NewPaginationRequest(cmd.OperatorID, cmd.PageSize, cmd.PageIndex), nil
}

// Kill builds a kill request.
func (e *Encoder) Kill() *protocol.KillRequest {
	return protocol.NewKillRequest()
}

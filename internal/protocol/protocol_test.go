package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecuteRequestShape(t *testing.T) {
	req := NewExecuteRequest("daily-report", json.RawMessage(`{"operators":[]}`))
	data, err := json.Marshal(req)
	require.NoError(t, err)

	// The engine matches on exact keys; decode generically and check them.
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "WorkflowExecuteRequest", got["type"])
	assert.Equal(t, "daily-report", got["executionName"])
	assert.Equal(t, "3a1c33d6f", got["engineVersion"])
	assert.Equal(t, map[string]any{"dataTransferBatchSize": float64(400)}, got["workflowSettings"])
	assert.Equal(t, false, got["emailNotificationEnabled"])
	assert.Equal(t, map[string]any{"operators": []any{}}, got["logicalPlan"])
}

func TestNewPaginationRequest(t *testing.T) {
	req := NewPaginationRequest("opA", 50, 3)
	assert.Equal(t, "ResultPaginationRequest", req.Type)
	assert.Equal(t, "req_opA_50_3", req.RequestID)
	assert.Equal(t, "opA", req.OperatorID)
	assert.Equal(t, 3, req.PageIndex)
	assert.Equal(t, 50, req.PageSize)
}

func TestNewKillRequest(t *testing.T) {
	data, err := json.Marshal(NewKillRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"WorkflowKillRequest"}`, string(data))
}

func TestDecodeEvent(t *testing.T) {
	t.Run("duration update", func(t *testing.T) {
		ev, err := DecodeEvent([]byte(`{"type":"ExecutionDurationUpdateEvent","duration":12345,"isRunning":false}`))
		require.NoError(t, err)
		dur, ok := ev.(*DurationUpdate)
		require.True(t, ok)
		assert.Equal(t, int64(12345), dur.Duration)
		assert.False(t, dur.IsRunning)
		assert.InDelta(t, 12.345, dur.Seconds(), 1e-9)
	})

	t.Run("state change", func(t *testing.T) {
		ev, err := DecodeEvent([]byte(`{"type":"WorkflowStateEvent","state":"COMPLETED"}`))
		require.NoError(t, err)
		state, ok := ev.(*StateChange)
		require.True(t, ok)
		assert.Equal(t, "COMPLETED", state.State)
	})

	t.Run("result summary", func(t *testing.T) {
		ev, err := DecodeEvent([]byte(`{"type":"WebResultUpdateEvent","updates":{"opA":{"totalNumTuples":42}}}`))
		require.NoError(t, err)
		summary, ok := ev.(*ResultSummary)
		require.True(t, ok)
		assert.Equal(t, int64(42), summary.Updates["opA"].TotalNumTuples)
	})

	t.Run("paginated result", func(t *testing.T) {
		raw := `{"type":"PaginatedResultEvent","operatorID":"opA","pageIndex":3,"table":[{"a":1},{"a":2}],"schema":{"attributes":[]}}`
		ev, err := DecodeEvent([]byte(raw))
		require.NoError(t, err)
		page, ok := ev.(*PaginatedResult)
		require.True(t, ok)
		assert.Equal(t, "opA", page.OperatorID)
		assert.Equal(t, 3, page.PageIndex)
		require.Len(t, page.Table, 2)
		assert.JSONEq(t, `{"a":1}`, string(page.Table[0]))
	})

	t.Run("workflow error", func(t *testing.T) {
		ev, err := DecodeEvent([]byte(`{"type":"WorkflowErrorEvent","fatalErrors":[{"message":"boom"}]}`))
		require.NoError(t, err)
		wfErr, ok := ev.(*WorkflowError)
		require.True(t, ok)
		assert.JSONEq(t, `[{"message":"boom"}]`, string(wfErr.FatalErrors))
	})

	t.Run("unrecognized kind is not an error", func(t *testing.T) {
		ev, err := DecodeEvent([]byte(`{"type":"WorkerAssignmentUpdateEvent","operatorId":"opA"}`))
		require.NoError(t, err)
		unknown, ok := ev.(Unknown)
		require.True(t, ok)
		assert.Equal(t, "WorkerAssignmentUpdateEvent", unknown.Kind())
	})

	t.Run("missing type field", func(t *testing.T) {
		_, err := DecodeEvent([]byte(`{"state":"RUNNING"}`))
		require.ErrorIs(t, err, ErrMissingType)
	})

	t.Run("not JSON", func(t *testing.T) {
		_, err := DecodeEvent([]byte(`garbage`))
		require.Error(t, err)
	})
}

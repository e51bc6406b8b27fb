package plan

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// basicWorkflow is a two-operator workflow document the way the editor
// saves it, including the operatorPositions layout block.
const basicWorkflow = `{
	"operators": [
		{
			"operatorID": "scan-1",
			"operatorType": "CSVFileScan",
			"operatorProperties": {"fileName": "orders.csv", "hasHeader": true},
			"inputPorts": [],
			"outputPorts": [{"portID": "output-0"}]
		},
		{
			"operatorID": "filter-1",
			"operatorType": "Filter",
			"operatorProperties": {"predicates": [{"attribute": "total", "condition": "gt", "value": "100"}]},
			"inputPorts": [{"portID": "input-0"}],
			"outputPorts": [{"portID": "output-0"}]
		}
	],
	"links": [
		{
			"source": {"operatorID": "scan-1", "portID": "output-0"},
			"target": {"operatorID": "filter-1", "portID": "input-0"}
		}
	],
	"opsToViewResult": ["filter-1", "ghost-9", "scan-1"],
	"opsToReuseResult": ["scan-1"],
	"operatorPositions": {"scan-1": {"x": 10, "y": 20}}
}`

func TestConvertBasicWorkflow(t *testing.T) {
	converted, err := Convert([]byte(basicWorkflow))
	require.NoError(t, err)

	data, err := json.MarshalIndent(converted, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "convert_basic", data)
}

func TestConvertPortOrdinals(t *testing.T) {
	// A join with two input ports; the link targets the second one, so the
	// ordinal must be the zero-based position within the port list.
	doc := `{
		"operators": [
			{
				"operatorID": "a",
				"operatorType": "Source",
				"operatorProperties": {},
				"inputPorts": [],
				"outputPorts": [{"portID": "out-0"}, {"portID": "out-1"}]
			},
			{
				"operatorID": "join",
				"operatorType": "HashJoin",
				"operatorProperties": {},
				"inputPorts": [{"portID": "left"}, {"portID": "right"}],
				"outputPorts": [{"portID": "out-0"}]
			}
		],
		"links": [
			{"source": {"operatorID": "a", "portID": "out-1"}, "target": {"operatorID": "join", "portID": "right"}}
		]
	}`

	converted, err := Convert([]byte(doc))
	require.NoError(t, err)
	require.Len(t, converted.Links, 1)

	link := converted.Links[0]
	assert.Equal(t, "a", link.FromOpID)
	assert.Equal(t, PortRef{ID: 1, Internal: false}, link.FromPortID)
	assert.Equal(t, "join", link.ToOpID)
	assert.Equal(t, PortRef{ID: 1, Internal: false}, link.ToPortID)
}

func TestConvertResultLists(t *testing.T) {
	t.Run("dangling ids are dropped and output is sorted", func(t *testing.T) {
		converted, err := Convert([]byte(basicWorkflow))
		require.NoError(t, err)
		assert.Equal(t, []string{"filter-1", "scan-1"}, converted.OpsToViewResult)
		assert.Equal(t, []string{"scan-1"}, converted.OpsToReuseResult)
	})

	t.Run("absent lists default to empty", func(t *testing.T) {
		doc := `{
			"operators": [
				{"operatorID": "a", "operatorType": "Source", "operatorProperties": {}, "inputPorts": [], "outputPorts": []}
			],
			"links": []
		}`
		converted, err := Convert([]byte(doc))
		require.NoError(t, err)
		assert.Empty(t, converted.OpsToViewResult)
		assert.Empty(t, converted.OpsToReuseResult)
		assert.NotNil(t, converted.OpsToViewResult)
		assert.NotNil(t, converted.OpsToReuseResult)
	})
}

func TestConvertFlattening(t *testing.T) {
	t.Run("properties are spread under the operator", func(t *testing.T) {
		converted, err := Convert([]byte(basicWorkflow))
		require.NoError(t, err)
		require.Len(t, converted.Operators, 2)

		scan := converted.Operators[0]
		assert.Equal(t, "orders.csv", scan["fileName"])
		assert.Equal(t, true, scan["hasHeader"])
		assert.Equal(t, "scan-1", scan["operatorID"])
		assert.Equal(t, "CSVFileScan", scan["operatorType"])
	})

	t.Run("structural fields win over colliding property keys", func(t *testing.T) {
		doc := `{
			"operators": [
				{
					"operatorID": "a",
					"operatorType": "Source",
					"operatorProperties": {"operatorID": "spoofed", "operatorType": "Spoofed"},
					"inputPorts": [],
					"outputPorts": []
				}
			],
			"links": []
		}`
		converted, err := Convert([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, "a", converted.Operators[0]["operatorID"])
		assert.Equal(t, "Source", converted.Operators[0]["operatorType"])
	})

	t.Run("flattening adds nothing beyond properties and structure", func(t *testing.T) {
		doc := `{
			"operators": [
				{"operatorID": "a", "operatorType": "Source", "operatorProperties": {}, "inputPorts": [], "outputPorts": [{"portID": "p"}]}
			],
			"links": []
		}`
		converted, err := Convert([]byte(doc))
		require.NoError(t, err)
		assert.Len(t, converted.Operators[0], 4)
	})
}

func TestConvertErrors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, err := Convert([]byte(`{not json`))
		var docErr *DocumentError
		require.ErrorAs(t, err, &docErr)
	})

	t.Run("operator without id", func(t *testing.T) {
		doc := `{"operators": [{"operatorType": "Source", "operatorProperties": {}}]}`
		_, err := Convert([]byte(doc))
		var docErr *DocumentError
		require.ErrorAs(t, err, &docErr)
		assert.Contains(t, err.Error(), "operatorID")
	})

	t.Run("operator without properties", func(t *testing.T) {
		doc := `{"operators": [{"operatorID": "a", "operatorType": "Source"}]}`
		_, err := Convert([]byte(doc))
		var docErr *DocumentError
		require.ErrorAs(t, err, &docErr)
		assert.Contains(t, err.Error(), "operatorProperties")
	})

	t.Run("link to unknown operator", func(t *testing.T) {
		doc := `{
			"operators": [
				{"operatorID": "a", "operatorType": "Source", "operatorProperties": {}, "inputPorts": [], "outputPorts": [{"portID": "p"}]}
			],
			"links": [
				{"source": {"operatorID": "a", "portID": "p"}, "target": {"operatorID": "nope", "portID": "p"}}
			]
		}`
		_, err := Convert([]byte(doc))
		var portErr *PortError
		require.ErrorAs(t, err, &portErr)
		assert.Equal(t, "nope", portErr.OperatorID)
		assert.Equal(t, "input", portErr.Direction)
	})

	t.Run("link to unknown port", func(t *testing.T) {
		doc := `{
			"operators": [
				{"operatorID": "a", "operatorType": "Source", "operatorProperties": {}, "inputPorts": [], "outputPorts": [{"portID": "p"}]},
				{"operatorID": "b", "operatorType": "Sink", "operatorProperties": {}, "inputPorts": [{"portID": "in"}], "outputPorts": []}
			],
			"links": [
				{"source": {"operatorID": "a", "portID": "wrong"}, "target": {"operatorID": "b", "portID": "in"}}
			]
		}`
		_, err := Convert([]byte(doc))
		var portErr *PortError
		require.ErrorAs(t, err, &portErr)
		assert.Equal(t, "a", portErr.OperatorID)
		assert.Equal(t, "wrong", portErr.PortID)
		assert.Equal(t, "output", portErr.Direction)
	})
}

func TestConvertIsDeterministic(t *testing.T) {
	first, err := Convert([]byte(basicWorkflow))
	require.NoError(t, err)
	second, err := Convert([]byte(basicWorkflow))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIsWorkflowDocument(t *testing.T) {
	assert.True(t, IsWorkflowDocument([]byte(basicWorkflow)))
	assert.False(t, IsWorkflowDocument([]byte(`{"operators": [], "links": []}`)))
}

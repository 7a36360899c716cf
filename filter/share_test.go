package filter

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareQueryRoundTrip(t *testing.T) {
	state := SharedState{
		FilterGroups: []Group{
			{
				ID:    "g1",
				Logic: LogicAnd,
				Rules: []Rule{
					{ID: "r1", ColumnName: "cidade & estado", Operator: OperatorEquals, Value: "São Paulo"},
					{ID: "r2", ColumnName: "vendas", Operator: OperatorBetween, Value: "10", Value2: 20.5},
				},
			},
			{
				ID:    "g2",
				Logic: LogicOr,
				Rules: []Rule{
					{ID: "r3", ColumnName: "status", Operator: OperatorIn, Value: []any{"a=b", "c?d"}},
				},
			},
		},
		SheetIndex: 2,
	}

	query, err := EncodeShareQuery(state)
	require.NoError(t, err)

	params, err := url.ParseQuery(query)
	require.NoError(t, err)
	assert.Equal(t, "2", params.Get("sheet"))
	assert.NotEmpty(t, params.Get("filters"))

	decoded, err := DecodeShareQuery(query)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestShareQueryDefaults(t *testing.T) {
	query, err := EncodeShareQuery(SharedState{})
	require.NoError(t, err)
	assert.Equal(t, "", query)

	decoded, err := DecodeShareQuery(query)
	require.NoError(t, err)
	assert.Empty(t, decoded.FilterGroups)
	assert.Equal(t, 0, decoded.SheetIndex)

	decoded, err = DecodeShareQuery("sheet=abc")
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.SheetIndex)
}

func TestDecodeShareQueryRejectsMalformedFilters(t *testing.T) {
	_, err := DecodeShareQuery("filters=" + url.QueryEscape(`[{"logic":"AND","rules":[`))
	assert.Error(t, err)

	_, err = DecodeShareQuery("filters=" + url.QueryEscape(`[{"logic":"XOR","rules":[]}]`))
	assert.Error(t, err)
}

func TestEncodeShareQueryDefaultsMissingLogicToAnd(t *testing.T) {
	groups := []Group{
		{ID: "g1", Rules: []Rule{{ID: "r1", ColumnName: "city", Operator: OperatorEquals, Value: "SP"}}},
	}

	query, err := EncodeShareQuery(SharedState{FilterGroups: groups})
	require.NoError(t, err)
	assert.Equal(t, Logic(0), groups[0].Logic, "input groups should not be modified")

	decoded, err := DecodeShareQuery(query)
	require.NoError(t, err)
	require.Len(t, decoded.FilterGroups, 1)
	assert.Equal(t, LogicAnd, decoded.FilterGroups[0].Logic)
}

func TestGroupJSONWithoutLogic(t *testing.T) {
	for _, input := range []string{
		`{"id":"g1","rules":[]}`,
		`{"id":"g1","logic":null,"rules":[]}`,
	} {
		var group Group
		require.NoError(t, json.Unmarshal([]byte(input), &group), input)
		assert.Equal(t, LogicAnd, group.Logic, input)
		assert.Equal(t, "g1", group.ID, input)
	}

	var group Group
	require.NoError(t, json.Unmarshal([]byte(`{"id":"g1","logic":"OR","rules":[]}`), &group))
	assert.Equal(t, LogicOr, group.Logic)
}

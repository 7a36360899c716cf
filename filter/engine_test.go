package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/schema"
)

func singleRule(logic Logic, rules ...Rule) []Group {
	return []Group{{ID: "group", Logic: logic, Rules: rules}}
}

func TestApplyGreaterThan(t *testing.T) {
	rows := []datatypes.Row{{"age": "15"}, {"age": "20"}, {"age": "30"}}
	groups := singleRule(
		LogicAnd,
		Rule{ColumnName: "age", Operator: OperatorGreaterThan, Value: "18"},
	)

	filtered := Apply(rows, groups, schema.InferRows(rows))

	require.Len(t, filtered, 2)
	assert.Equal(t, "20", filtered[0]["age"])
	assert.Equal(t, "30", filtered[1]["age"])
}

func TestApplyIdentityOnEmptyInput(t *testing.T) {
	rows := []datatypes.Row{{"a": "1"}, {"a": "2"}}
	groups := singleRule(LogicAnd, Rule{ColumnName: "a", Operator: OperatorEquals, Value: "1"})

	assert.Equal(t, rows, Apply(rows, nil, nil))
	assert.Equal(t, rows, Apply(rows, []Group{}, nil))
	assert.Empty(t, Apply(nil, groups, nil))
	assert.Empty(t, Apply([]datatypes.Row{}, groups, nil))
}

func TestApplyEmptyGroupPasses(t *testing.T) {
	rows := []datatypes.Row{{"a": "1"}, {"a": "2"}}
	assert.Equal(t, rows, Apply(rows, []Group{{Logic: LogicAnd}}, nil))
	assert.Equal(t, rows, Apply(rows, []Group{{Logic: LogicOr, Rules: []Rule{}}}, nil))
}

func TestApplyPreservesOrder(t *testing.T) {
	rows := []datatypes.Row{
		{"name": "c", "n": "3"},
		{"name": "a", "n": "1"},
		{"name": "b", "n": "2"},
		{"name": "d", "n": "0"},
	}
	groups := singleRule(LogicAnd, Rule{ColumnName: "n", Operator: OperatorGreaterThan, Value: "0"})

	filtered := Apply(rows, groups, nil)
	assert.Equal(t, rows[:3], filtered)
}

func TestApplyGroupLogic(t *testing.T) {
	rows := []datatypes.Row{
		{"city": "SP", "sales": "100"},
		{"city": "RJ", "sales": "200"},
		{"city": "BH", "sales": "300"},
	}
	isSP := Rule{ColumnName: "city", Operator: OperatorEquals, Value: "sp"}
	highSales := Rule{ColumnName: "sales", Operator: OperatorGreaterThan, Value: "250"}

	assert.Empty(t, Apply(rows, singleRule(LogicAnd, isSP, highSales), nil))

	orFiltered := Apply(rows, singleRule(LogicOr, isSP, highSales), nil)
	require.Len(t, orFiltered, 2)
	assert.Equal(t, "SP", orFiltered[0]["city"])
	assert.Equal(t, "BH", orFiltered[1]["city"])

	// Groups are combined with AND.
	groups := []Group{
		{Logic: LogicOr, Rules: []Rule{isSP, highSales}},
		{Logic: LogicAnd, Rules: []Rule{
			{ColumnName: "sales", Operator: OperatorLessThan, Value: "150"},
		}},
	}
	andFiltered := Apply(rows, groups, nil)
	require.Len(t, andFiltered, 1)
	assert.Equal(t, "SP", andFiltered[0]["city"])
}

func TestEvaluateRuleNullGuard(t *testing.T) {
	emptyRow := datatypes.Row{"city": ""}
	nilRow := datatypes.Row{"city": nil}
	missingRow := datatypes.Row{}

	for _, row := range []datatypes.Row{emptyRow, nilRow, missingRow} {
		for _, operator := range []Operator{
			OperatorEquals,
			OperatorContains,
			OperatorNotContains,
			OperatorGreaterThan,
			OperatorLessThan,
			OperatorBetween,
			OperatorIn,
		} {
			rule := Rule{ColumnName: "city", Operator: operator, Value: "x", Value2: "y"}
			assert.False(t, EvaluateRule(row, rule, nil), "operator %v on row %v", operator, row)
		}

		rule := Rule{ColumnName: "city", Operator: OperatorNotEquals, Value: "SP"}
		assert.True(t, EvaluateRule(row, rule, nil), "notEquals on row %v", row)
	}

	row := datatypes.Row{"city": "SP"}
	assert.False(
		t,
		EvaluateRule(row, Rule{ColumnName: "city", Operator: OperatorEquals, Value: ""}, nil),
	)
	assert.False(
		t,
		EvaluateRule(row, Rule{ColumnName: "city", Operator: OperatorContains, Value: nil}, nil),
	)
	assert.True(
		t,
		EvaluateRule(row, Rule{ColumnName: "city", Operator: OperatorNotEquals, Value: ""}, nil),
	)
}

func TestEvaluateRuleStringOperators(t *testing.T) {
	row := datatypes.Row{"city": "São Paulo"}

	for _, testCase := range []struct {
		operator Operator
		value    any
		expected bool
	}{
		{OperatorEquals, "SÃO PAULO", true},
		{OperatorEquals, "São", false},
		{OperatorNotEquals, "são paulo", false},
		{OperatorNotEquals, "Rio", true},
		{OperatorContains, "PAULO", true},
		{OperatorContains, "rio", false},
		{OperatorNotContains, "rio", true},
		{OperatorNotContains, "são", false},
		{OperatorIn, []any{"Rio", "são paulo"}, true},
		{OperatorIn, []string{"Rio", "Recife"}, false},
		{OperatorIn, [2]string{"x", "SÃO PAULO"}, true},
		{OperatorIn, "São Paulo", false},
		{OperatorIn, []any{}, false},
	} {
		rule := Rule{ColumnName: "city", Operator: testCase.operator, Value: testCase.value}
		assert.Equal(
			t,
			testCase.expected,
			EvaluateRule(row, rule, nil),
			"%v %#v",
			testCase.operator,
			testCase.value,
		)
	}
}

func TestEvaluateRuleNumericOperators(t *testing.T) {
	for _, testCase := range []struct {
		cell     any
		rule     Rule
		expected bool
	}{
		{"$1,200", Rule{Operator: OperatorGreaterThan, Value: "1000"}, true},
		{"R$ 50", Rule{Operator: OperatorLessThan, Value: 100.0}, true},
		{42.0, Rule{Operator: OperatorGreaterThan, Value: "42"}, false},
		{"abc", Rule{Operator: OperatorGreaterThan, Value: "1"}, false},
		{"10", Rule{Operator: OperatorLessThan, Value: "abc"}, false},
		{"7", Rule{Operator: OperatorBetween, Value: "5", Value2: "10"}, true},
		{"5", Rule{Operator: OperatorBetween, Value: "5", Value2: "10"}, true},
		{"10", Rule{Operator: OperatorBetween, Value: "5", Value2: "10"}, true},
		{"11", Rule{Operator: OperatorBetween, Value: "5", Value2: "10"}, false},
		{"7", Rule{Operator: OperatorBetween, Value: "5"}, false},
		{"7", Rule{Operator: OperatorBetween, Value: "5", Value2: "n/a"}, false},
	} {
		testCase.rule.ColumnName = "value"
		row := datatypes.Row{"value": testCase.cell}
		assert.Equal(
			t,
			testCase.expected,
			EvaluateRule(row, testCase.rule, nil),
			"%#v %v %#v",
			testCase.cell,
			testCase.rule.Operator,
			testCase.rule.Value,
		)
	}
}

func TestBetweenIsSymmetric(t *testing.T) {
	for _, testCase := range []struct {
		cells  []any
		lower  any
		upper  any
		column []schema.ColumnMetadata
	}{
		{
			cells: []any{"1", "5", "7", "10", "12"},
			lower: "5",
			upper: "10",
		},
		{
			cells: []any{"2023-12-31", "2024-01-01", "2024-01-15", "2024-02-01", "2024-02-02"},
			lower: "2024-01-01",
			upper: "01/02/2024",
			column: []schema.ColumnMetadata{
				{Name: "value", Type: datatypes.ColumnTypeDate},
			},
		},
	} {
		for _, cell := range testCase.cells {
			row := datatypes.Row{"value": cell}
			forward := Rule{
				ColumnName: "value",
				Operator:   OperatorBetween,
				Value:      testCase.lower,
				Value2:     testCase.upper,
			}
			backward := forward
			backward.Value, backward.Value2 = testCase.upper, testCase.lower

			assert.Equal(
				t,
				EvaluateRule(row, forward, testCase.column),
				EvaluateRule(row, backward, testCase.column),
				"cell %v",
				cell,
			)
		}
	}

	row := datatypes.Row{"value": "2024-01-15"}
	rule := Rule{
		ColumnName: "value",
		Operator:   OperatorBetween,
		Value:      "2024-02-01",
		Value2:     "2024-01-01",
	}
	assert.True(t, EvaluateRule(row, rule, nil))
}

func TestEvaluateRuleDates(t *testing.T) {
	dateColumn := []schema.ColumnMetadata{{Name: "date", Type: datatypes.ColumnTypeDate}}

	for _, testCase := range []struct {
		name     string
		cell     any
		operator Operator
		value    any
		columns  []schema.ColumnMetadata
		expected bool
	}{
		{"equal across formats", "15/01/2024", OperatorEquals, "2024-01-15", dateColumn, true},
		{"not equal across formats", "15/01/2024", OperatorNotEquals, "2024-01-15", dateColumn, false},
		{"greater than", "2024-01-10", OperatorGreaterThan, "2024-01-01", dateColumn, true},
		{"less than", "2024-01-10", OperatorLessThan, "2024-01-01", dateColumn, false},
		{"detected without schema", "2024-03-01", OperatorGreaterThan, "2024-02-15", nil, true},
		{"unparseable cell falls back to equality", "unknown", OperatorEquals, "2024-01-01", dateColumn, false},
		{"unparseable cell falls back to equality for notEquals", "unknown", OperatorNotEquals, "2024-01-01", dateColumn, false},
		{"empty cell fails notEquals", "", OperatorNotEquals, "2024-01-01", dateColumn, false},
		{"equal across zero padding", "1/2/2024", OperatorEquals, "01/02/2024", dateColumn, true},
		{"unparseable filter falls back to equality", "2024-01-01", OperatorGreaterThan, "2024-01-01 x", dateColumn, false},
		{"unparseable contains filter falls back to equality", "2024-01-15", OperatorContains, "01-15", dateColumn, false},
		{"contains on parsed dates passes", "2024-01-15", OperatorContains, "2024-01-15", dateColumn, true},
		{"notContains on parsed dates passes", "2024-01-15", OperatorNotContains, "2024-01-15", dateColumn, true},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			row := datatypes.Row{"date": testCase.cell}
			rule := Rule{ColumnName: "date", Operator: testCase.operator, Value: testCase.value}
			assert.Equal(t, testCase.expected, EvaluateRule(row, rule, testCase.columns))
		})
	}
}

func TestEvaluateRuleUnknownOperatorPasses(t *testing.T) {
	row := datatypes.Row{"city": "SP"}
	rule := Rule{ColumnName: "city", Operator: Operator(200), Value: "RJ"}
	assert.True(t, EvaluateRule(row, rule, nil))
}

func TestCloneGroups(t *testing.T) {
	groups := []Group{{
		ID:    "1",
		Logic: LogicAnd,
		Rules: []Rule{{ColumnName: "city", Operator: OperatorIn, Value: []any{"SP", "RJ"}}},
	}}

	clone := CloneGroups(groups)
	require.Equal(t, groups, clone)

	clone[0].Rules[0].ColumnName = "state"
	clone[0].Rules[0].Value.([]any)[0] = "BH"
	assert.Equal(t, "city", groups[0].Rules[0].ColumnName)
	assert.Equal(t, "SP", groups[0].Rules[0].Value.([]any)[0])

	assert.Nil(t, CloneGroups(nil))
}

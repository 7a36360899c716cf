package filter

import (
	"encoding/json"

	"hermannm.dev/enumnames"
)

type Operator uint8

const (
	OperatorEquals Operator = iota + 1
	OperatorNotEquals
	OperatorContains
	OperatorNotContains
	OperatorGreaterThan
	OperatorLessThan
	OperatorBetween
	OperatorIn
)

var operatorMap = enumnames.NewMap(map[Operator]string{
	OperatorEquals:      "equals",
	OperatorNotEquals:   "notEquals",
	OperatorContains:    "contains",
	OperatorNotContains: "notContains",
	OperatorGreaterThan: "greaterThan",
	OperatorLessThan:    "lessThan",
	OperatorBetween:     "between",
	OperatorIn:          "in",
})

func (operator Operator) IsValid() bool {
	return operatorMap.ContainsKey(operator)
}

func (operator Operator) String() string {
	return operatorMap.GetNameOrFallback(operator, "INVALID_OPERATOR")
}

func (operator Operator) MarshalJSON() ([]byte, error) {
	return operatorMap.MarshalToNameJSON(operator)
}

func (operator *Operator) UnmarshalJSON(bytes []byte) error {
	return operatorMap.UnmarshalFromNameJSON(bytes, operator)
}

// Logic is how the rules within a group are combined.
type Logic uint8

const (
	LogicAnd Logic = iota + 1
	LogicOr
)

var logicMap = enumnames.NewMap(map[Logic]string{
	LogicAnd: "AND",
	LogicOr:  "OR",
})

func (logic Logic) IsValid() bool {
	return logicMap.ContainsKey(logic)
}

func (logic Logic) String() string {
	return logicMap.GetNameOrFallback(logic, "INVALID_LOGIC")
}

func (logic Logic) MarshalJSON() ([]byte, error) {
	return logicMap.MarshalToNameJSON(logic)
}

func (logic *Logic) UnmarshalJSON(bytes []byte) error {
	if string(bytes) == "null" {
		return nil
	}
	return logicMap.UnmarshalFromNameJSON(bytes, logic)
}

// Rule is a single predicate on one column.
type Rule struct {
	ID         string   `json:"id"`
	ColumnName string   `json:"columnName"`
	Operator   Operator `json:"operator"`
	// For OperatorIn, this should be a slice of values.
	Value any `json:"value"`
	// Upper bound for OperatorBetween, ignored otherwise.
	Value2 any `json:"value2,omitempty"`
}

// Group is a set of rules combined by its Logic. A full filter is a sequence of groups, all of
// which must pass.
type Group struct {
	ID    string `json:"id"`
	Logic Logic  `json:"logic"`
	Rules []Rule `json:"rules"`
}

// UnmarshalJSON decodes a group, defaulting to LogicAnd when logic is missing or null.
func (group *Group) UnmarshalJSON(bytes []byte) error {
	type groupJSON Group
	var decoded groupJSON
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		return err
	}

	*group = Group(decoded)
	group.withDefaultLogic()
	return nil
}

func (group *Group) withDefaultLogic() {
	if group.Logic == 0 {
		group.Logic = LogicAnd
	}
}

// CloneGroups returns a deep copy of the given groups, so that the copy can be stored without
// sharing rule slices with the caller.
func CloneGroups(groups []Group) []Group {
	if groups == nil {
		return nil
	}

	clone := make([]Group, len(groups))
	for i, group := range groups {
		clone[i] = group
		if group.Rules != nil {
			clone[i].Rules = make([]Rule, len(group.Rules))
			for j, rule := range group.Rules {
				rule.Value = cloneValue(rule.Value)
				rule.Value2 = cloneValue(rule.Value2)
				clone[i].Rules[j] = rule
			}
		}
	}
	return clone
}

func cloneValue(value any) any {
	switch value := value.(type) {
	case []any:
		clone := make([]any, len(value))
		copy(clone, value)
		return clone
	case []string:
		clone := make([]string, len(value))
		copy(clone, value)
		return clone
	default:
		return value
	}
}

package datatypes

import (
	"slices"

	"hermannm.dev/enumnames"
)

// Role is the analytical role a column may play in a view or chart.
type Role uint8

const (
	RoleDimension Role = iota + 1
	RoleMetric
	// Only used in possible roles, for columns that qualify as both dimension and metric.
	RoleBoth
)

var roleMap = enumnames.NewMap(map[Role]string{
	RoleDimension: "dimension",
	RoleMetric:    "metric",
	RoleBoth:      "both",
})

func (role Role) IsValid() bool {
	return roleMap.ContainsEnumValue(role)
}

func (role Role) String() string {
	return roleMap.GetNameOrFallback(role, "INVALID_ROLE")
}

func (role Role) MarshalJSON() ([]byte, error) {
	return roleMap.MarshalToNameJSON(role)
}

func (role *Role) UnmarshalJSON(bytes []byte) error {
	return roleMap.UnmarshalFromNameJSON(bytes, role)
}

// ResolveRoles derives the possible roles of a column from whether it independently qualifies
// as a dimension and as a metric. A column qualifying for both gets the single role RoleBoth.
// A column qualifying for neither falls back to RoleDimension, so the result is never empty.
func ResolveRoles(dimension bool, metric bool) []Role {
	switch {
	case dimension && metric:
		return []Role{RoleBoth}
	case metric:
		return []Role{RoleMetric}
	default:
		return []Role{RoleDimension}
	}
}

// SupportsRole checks whether the given possible roles allow a column to be used in the given
// role, counting RoleBoth as a match for either.
func SupportsRole(possibleRoles []Role, role Role) bool {
	return slices.Contains(possibleRoles, role) || slices.Contains(possibleRoles, RoleBoth)
}

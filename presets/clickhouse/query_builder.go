package clickhouse

import (
	"fmt"
	"strings"
)

type QueryBuilder struct {
	strings.Builder
}

// Must only be called after calling ValidateIdentifier on the given identifier.
func (builder *QueryBuilder) WriteIdentifier(identifier string) {
	builder.WriteRune('`')
	builder.WriteString(identifier)
	builder.WriteRune('`')
}

// WriteIdentifierList writes the given identifiers separated by commas.
func (builder *QueryBuilder) WriteIdentifierList(identifiers ...string) {
	for i, identifier := range identifiers {
		if i != 0 {
			builder.WriteString(", ")
		}
		builder.WriteIdentifier(identifier)
	}
}

// WritePlaceholders writes a parenthesized list of count bind parameters.
func (builder *QueryBuilder) WritePlaceholders(count int) {
	builder.WriteByte('(')
	for i := range count {
		if i != 0 {
			builder.WriteString(", ")
		}
		builder.WriteByte('?')
	}
	builder.WriteByte(')')
}

func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("identifier must not be empty")
	}
	if strings.ContainsRune(identifier, '`') {
		return fmt.Errorf("'%s' contains `, which is incompatible with database", identifier)
	}

	return nil
}

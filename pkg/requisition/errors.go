// pkg/requisition/errors.go
package requisition

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed or semantically invalid input,
// keyed by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func invalidItem(index int, field, message string) *ValidationError {
	return invalid(fmt.Sprintf("items[%d].%s", index, field), message)
}

// ForbiddenError reports a structurally valid request for an operation
// permanently disallowed by policy.
type ForbiddenError struct {
	Reason  string
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// NotFoundError reports a missing referenced record.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// File: internal/dom/errors.go
package dom

import "fmt"

// ElementNotFoundError is returned when none of the selectors for an expected
// anchor matched. Callers use errors.As to tell a missing feature apart from a
// hard failure.
type ElementNotFoundError struct {
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found matching selector '%s'", e.Selector)
}

// NewElementNotFoundError creates a new ElementNotFoundError.
func NewElementNotFoundError(selector string) *ElementNotFoundError {
	return &ElementNotFoundError{Selector: selector}
}

package tools

import "fmt"

// DuplicateToolError indicates a second registration under an existing name.
// This is a programming error, not a runtime condition.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// UnknownToolError indicates execution of a name no definition is bound to.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

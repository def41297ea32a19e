package errors

import "fmt"

// DependencyError reports that an infrastructure collaborator could not be reached.
// Check names the rule or step that failed. Partial holds whatever was decided
// before the failure, when the caller produced anything.
type DependencyError struct {
	Check   string
	Partial map[string]bool
	Err     error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failure during %s: %v", e.Check, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

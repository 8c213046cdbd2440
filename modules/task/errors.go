package task

import "errors"

// Sentinel errors for task and project lookups. Boundary layers map these
// to 404-class responses; store failures propagate as-is.
var (
	// ErrTaskNotFound is returned when no task exists for the identifier.
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectNotFound is returned when no project exists for the identifier.
	ErrProjectNotFound = errors.New("project not found")
)

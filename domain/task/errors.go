package task

import "errors"

// Validation errors raised at entity construction or mutation. Boundary
// layers map these to 400-class responses.
var (
	// ErrTitleRequired is returned when a task title trims to empty.
	ErrTitleRequired = errors.New("task title cannot be empty")

	// ErrNameRequired is returned when a project name trims to empty.
	ErrNameRequired = errors.New("project name cannot be empty")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned for a priority outside the known set.
	ErrInvalidPriority = errors.New("invalid task priority")
)

package task

import (
	"context"

	domain "github.com/example/taskboard/domain/task"
)

// TaskRepository is the persistence port for tasks. Adapters make no
// ordering guarantee on list results beyond the store default.
type TaskRepository interface {
	// Create stores a new task.
	Create(ctx context.Context, task *domain.Task) error

	// FindByID returns the task or ErrTaskNotFound.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindByProject returns tasks linked to the project, paginated.
	FindByProject(ctx context.Context, projectID string, skip, limit int) ([]*domain.Task, error)

	// FindByUser returns tasks assigned to the user, paginated.
	FindByUser(ctx context.Context, userID string, skip, limit int) ([]*domain.Task, error)

	// Update replaces the stored snapshot whole. Returns ErrTaskNotFound
	// when the identifier does not exist in the store.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task. A missing row yields (false, nil), not an
	// error.
	Delete(ctx context.Context, id string) (bool, error)
}

// ProjectRepository is the persistence port for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) (bool, error)
}

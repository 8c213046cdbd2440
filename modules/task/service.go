package task

import (
	"context"
	"fmt"
	"log"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/cache"
	"golang.org/x/sync/singleflight"
)

// Service holds the task and project use cases. It is stateless apart from
// its repository dependencies: no locking, no retries, no compensation —
// concurrent updates to the same entity race at the store with
// last-write-wins semantics.
type Service struct {
	tasks    TaskRepository
	projects ProjectRepository
	cache    cache.CacheService
	policy   domain.TransitionPolicy
	sfGroup  singleflight.Group
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithCache enables read-through caching of task lookups.
func WithCache(c cache.CacheService) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithTransitionPolicy installs a status-transition guard. The default
// policy permits every transition.
func WithTransitionPolicy(p domain.TransitionPolicy) ServiceOption {
	return func(s *Service) { s.policy = p }
}

// NewService creates the task service.
func NewService(tasks TaskRepository, projects ProjectRepository, opts ...ServiceOption) *Service {
	s := &Service{
		tasks:    tasks,
		projects: projects,
		policy:   domain.PermitAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKeyTask(id string) string {
	return "task:" + id
}

// CreateTask constructs and persists a new task. The identity in CreatedBy
// is used verbatim; it is never validated against the user store.
func (s *Service) CreateTask(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	var opts []domain.TaskOption
	if req.Description != nil {
		opts = append(opts, domain.WithDescription(*req.Description))
	}
	if req.ProjectID != nil {
		opts = append(opts, domain.WithProject(*req.ProjectID))
	}
	if req.Priority != "" {
		priority, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return nil, err
		}
		opts = append(opts, domain.WithPriority(priority))
	}

	t, err := domain.NewTask(req.Title, req.CreatedBy, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// GetTask returns a task by identifier, read through the cache when one is
// configured. Concurrent misses for the same id collapse into a single
// store query.
func (s *Service) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	if s.cache == nil {
		return s.tasks.FindByID(ctx, taskID)
	}

	var cached domain.Task
	found, err := s.cache.Get(ctx, cacheKeyTask(taskID), &cached)
	if err != nil {
		log.Printf("[task] cache error for id=%s: %v", taskID, err)
	}
	if found {
		return &cached, nil
	}

	val, err, _ := s.sfGroup.Do(cacheKeyTask(taskID), func() (any, error) {
		// The result is shared by every collapsed waiter, so the load must
		// not die with whichever caller happened to arrive first.
		loadCtx := context.WithoutCancel(ctx)

		t, err := s.tasks.FindByID(loadCtx, taskID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(loadCtx, cacheKeyTask(taskID), t); err != nil {
			log.Printf("[task] failed to cache id=%s: %v", taskID, err)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*domain.Task), nil
}

// UpdateTask applies the supplied fields to an existing task. Nil request
// fields leave the corresponding entity fields untouched. Every change,
// project re-linking included, flows through the entity's own mutators.
func (s *Service) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.tasks.FindByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := t.UpdateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description.Set {
		t.UpdateDescription(req.Description.Value)
	}
	if req.Status != nil {
		next, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if err := s.policy(t.Status, next); err != nil {
			return nil, err
		}
		if err := t.ChangeStatus(next); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		next, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		if err := t.ChangePriority(next); err != nil {
			return nil, err
		}
	}
	if req.ProjectID.Set {
		t.RelinkProject(req.ProjectID.Value)
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateTask(ctx, t.ID)
	return t, nil
}

// AssignTask assigns an existing task to a user.
func (s *Service) AssignTask(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	t.AssignTo(userID)
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateTask(ctx, t.ID)
	return t, nil
}

// UnassignTask clears the assignee of an existing task.
func (s *Service) UnassignTask(ctx context.Context, taskID string) (*domain.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	t.Unassign()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateTask(ctx, t.ID)
	return t, nil
}

// ListTasksByProject is a pure read-through to the port. Pagination bounds
// are the boundary's concern, not enforced here.
func (s *Service) ListTasksByProject(ctx context.Context, projectID string, skip, limit int) ([]*domain.Task, error) {
	return s.tasks.FindByProject(ctx, projectID, skip, limit)
}

// ListTasksByUser returns tasks assigned to a user.
func (s *Service) ListTasksByUser(ctx context.Context, userID string, skip, limit int) ([]*domain.Task, error) {
	return s.tasks.FindByUser(ctx, userID, skip, limit)
}

// DeleteTask removes a task directly through the port; no business rule
// wraps deletion. Returns false when no row was removed.
func (s *Service) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	deleted, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateTask(ctx, taskID)
	}
	return deleted, nil
}

// CreateProject constructs and persists a new project.
func (s *Service) CreateProject(ctx context.Context, req *CreateProjectRequest) (*domain.Project, error) {
	var opts []domain.ProjectOption
	if req.Description != nil {
		opts = append(opts, domain.WithProjectDescription(*req.Description))
	}

	p, err := domain.NewProject(req.Name, req.CreatedBy, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// GetProject returns a project by identifier.
func (s *Service) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, projectID)
}

// UpdateProject applies the supplied fields to an existing project.
func (s *Service) UpdateProject(ctx context.Context, req *UpdateProjectRequest) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := p.UpdateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description.Set {
		p.UpdateDescription(req.Description.Value)
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjectsByUser returns projects created by a user.
func (s *Service) ListProjectsByUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.projects.FindByUser(ctx, userID)
}

func (s *Service) invalidateTask(ctx context.Context, taskID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyTask(taskID)); err != nil {
		log.Printf("[task] failed to invalidate cache for id=%s: %v", taskID, err)
	}
}

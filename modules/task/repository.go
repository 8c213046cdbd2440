package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/taskboard/domain/task"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository on GORM.
type GormTaskRepository struct {
	db *gorm.DB
}

// Compile-time port checks.
var _ TaskRepository = (*GormTaskRepository)(nil)
var _ ProjectRepository = (*GormProjectRepository)(nil)

// NewGormTaskRepository creates a new GORM-backed task repository.
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create stores a new task.
func (r *GormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByProject retrieves tasks linked to a project, paginated.
func (r *GormTaskRepository) FindByProject(ctx context.Context, projectID string, skip, limit int) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Offset(skip).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks by project: %w", err)
	}
	return tasks, nil
}

// FindByUser retrieves tasks assigned to a user, paginated.
func (r *GormTaskRepository) FindByUser(ctx context.Context, userID string, skip, limit int) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("assigned_to = ?", userID).
		Offset(skip).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks by user: %w", err)
	}
	return tasks, nil
}

// Update replaces the stored snapshot whole. Select("*") forces nil-valued
// columns (cleared description, assignee, project link) to be written too.
func (r *GormTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", task.ID).
		Select("*").
		Updates(task)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by ID. A missing row is reported as (false, nil).
func (r *GormTaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return result.RowsAffected > 0, nil
}

// GormProjectRepository implements ProjectRepository on GORM.
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GORM-backed project repository.
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create stores a new project.
func (r *GormProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// FindByID retrieves a project by its ID.
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

// FindByUser retrieves projects created by a user.
func (r *GormProjectRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find projects by user: %w", err)
	}
	return projects, nil
}

// Update replaces the stored snapshot whole.
func (r *GormProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", project.ID).
		Select("*").
		Updates(project)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes a project by ID. A missing row is reported as (false, nil).
func (r *GormProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Project{}, "id = ?", id)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return result.RowsAffected > 0, nil
}

package task

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domain "github.com/example/taskboard/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Project{}, &domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func mustNewTask(t *testing.T, title string, opts ...domain.TaskOption) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, "user-1", opts...)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	return task
}

func TestGormTaskRepository_CreateAndFindByID(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task := mustNewTask(t, "Persisted task",
		domain.WithDescription("round trip"),
		domain.WithPriority(domain.PriorityUrgent),
	)
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}

	if found.Title != task.Title {
		t.Errorf("expected title %q, got %q", task.Title, found.Title)
	}
	if found.Priority != domain.PriorityUrgent {
		t.Errorf("expected priority urgent, got %q", found.Priority)
	}
	if found.Description == nil || *found.Description != "round trip" {
		t.Error("expected description to round-trip")
	}
	if found.UpdatedAt != nil {
		t.Error("expected UpdatedAt to stay nil through the store")
	}
	if !found.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("expected CreatedAt %v, got %v", task.CreatedAt, found.CreatedAt)
	}
}

func TestGormTaskRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestGormTaskRepository_Update(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task := mustNewTask(t, "Before", domain.WithDescription("original"))
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := task.UpdateTitle("After"); err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	task.UpdateDescription(nil)

	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "After" {
		t.Errorf("expected title %q, got %q", "After", found.Title)
	}
	if found.Description != nil {
		t.Errorf("expected cleared description to persist as NULL, got %v", *found.Description)
	}
	if found.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be stamped after update")
	}
}

func TestGormTaskRepository_Update_NotFound(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))

	task := mustNewTask(t, "Ghost")
	err := repo.Update(context.Background(), task)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestGormTaskRepository_FindByProject_Pagination(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		task := mustNewTask(t, fmt.Sprintf("Task %d", i), domain.WithProject("proj-1"))
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	other := mustNewTask(t, "Other project", domain.WithProject("proj-2"))
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	page, err := repo.FindByProject(ctx, "proj-1", 0, 3)
	if err != nil {
		t.Fatalf("FindByProject() error = %v", err)
	}
	if len(page) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(page))
	}

	page, err = repo.FindByProject(ctx, "proj-1", 3, 3)
	if err != nil {
		t.Fatalf("FindByProject() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 tasks on second page, got %d", len(page))
	}

	page, err = repo.FindByProject(ctx, "proj-1", 10, 3)
	if err != nil {
		t.Fatalf("FindByProject() error = %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(page))
	}
}

func TestGormTaskRepository_FindByUser(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))
	ctx := context.Background()

	assigned := mustNewTask(t, "Mine", domain.WithAssignee("user-9"))
	if err := repo.Create(ctx, assigned); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	unassigned := mustNewTask(t, "Nobody's")
	if err := repo.Create(ctx, unassigned); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tasks, err := repo.FindByUser(ctx, "user-9", 0, 10)
	if err != nil {
		t.Fatalf("FindByUser() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID != assigned.ID {
		t.Errorf("expected task %s, got %s", assigned.ID, tasks[0].ID)
	}
}

func TestGormTaskRepository_Delete(t *testing.T) {
	repo := NewGormTaskRepository(setupTestDB(t))
	ctx := context.Background()

	task := mustNewTask(t, "Short-lived")
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deleted, err := repo.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("expected deleted=true")
	}

	deleted, err = repo.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}
	if deleted {
		t.Error("expected deleted=false for missing row")
	}
}

func TestGormProjectRepository_RoundTrip(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))
	ctx := context.Background()

	project, err := domain.NewProject("Apollo", "user-1",
		domain.WithProjectDescription("moon landing"))
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	if err := repo.Create(ctx, project); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Name != "Apollo" {
		t.Errorf("expected name Apollo, got %q", found.Name)
	}
	if found.UpdatedAt != nil {
		t.Error("expected UpdatedAt nil through the store")
	}

	if err := found.UpdateName("Artemis"); err != nil {
		t.Fatalf("UpdateName() error = %v", err)
	}
	if err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	again, err := repo.FindByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if again.Name != "Artemis" {
		t.Errorf("expected renamed project, got %q", again.Name)
	}
	if again.UpdatedAt == nil {
		t.Error("expected UpdatedAt stamped after rename")
	}
}

func TestGormProjectRepository_FindByUser(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))
	ctx := context.Background()

	mine, err := domain.NewProject("Mine", "user-1")
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	theirs, err := domain.NewProject("Theirs", "user-2")
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	for _, p := range []*domain.Project{mine, theirs} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	projects, err := repo.FindByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUser() error = %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].Name != "Mine" {
		t.Errorf("expected project Mine, got %q", projects[0].Name)
	}
}

func TestGormProjectRepository_Delete_NotFound(t *testing.T) {
	repo := NewGormProjectRepository(setupTestDB(t))

	deleted, err := repo.Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted {
		t.Error("expected deleted=false for missing row")
	}
}

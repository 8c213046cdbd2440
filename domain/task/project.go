package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is the aggregate a task optionally belongs to. Referential
// integrity of the task→project link is the store's concern, not the
// entity's.
type Project struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description *string    `gorm:"size:2000" json:"description,omitempty"`
	CreatedBy   string     `gorm:"size:36;not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// TableName returns the table name for the Project entity.
func (Project) TableName() string {
	return "projects"
}

// ProjectOption configures optional fields at construction time.
type ProjectOption func(*Project)

// WithProjectID sets an explicit identifier instead of a generated one.
func WithProjectID(id string) ProjectOption {
	return func(p *Project) { p.ID = id }
}

// WithProjectDescription sets the initial description.
func WithProjectDescription(description string) ProjectOption {
	return func(p *Project) { p.Description = &description }
}

// WithProjectCreatedAt overrides the construction timestamp.
func WithProjectCreatedAt(at time.Time) ProjectOption {
	return func(p *Project) { p.CreatedAt = at }
}

// NewProject builds a valid project. The name is trimmed and must be
// non-empty.
func NewProject(name, createdBy string, opts ...ProjectOption) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	p := &Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// touch stamps the modification timestamp.
func (p *Project) touch() {
	now := time.Now().UTC()
	p.UpdatedAt = &now
}

// UpdateName replaces the name. The prior name is kept when the new one
// trims to empty.
func (p *Project) UpdateName(newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrNameRequired
	}
	p.Name = newName
	p.touch()
	return nil
}

// UpdateDescription replaces the description. A nil value clears it.
func (p *Project) UpdateDescription(newDescription *string) {
	p.Description = newDescription
	p.touch()
}

package repository

import (
	"context"
	"task_analytics/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Project, error)
	ListByUser(ctx context.Context, userID string) ([]models.Project, error)
	Save(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &project, nil
}

func (r *projectRepository) GetForUpdate(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := lockForUpdate(r.db.WithContext(ctx)).First(&project, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &project, nil
}

// ListByUser returns the user's projects, most recently updated first, with
// TaskCount filled in.
func (r *projectRepository) ListByUser(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Select("projects.*, (SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id) AS task_count").
		Where("projects.user_id = ?", userID).
		Order("projects.updated_at DESC").
		Order("projects.id DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Save(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}

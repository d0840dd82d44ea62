package repository

import (
	"context"
	"task_analytics/internal/models"
	"time"

	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *models.ProductivityGoal) error
	GetByID(ctx context.Context, id uint) (*models.ProductivityGoal, error)
	ListByUser(ctx context.Context, userID string, activeAt *time.Time) ([]models.ProductivityGoal, error)
	Save(ctx context.Context, goal *models.ProductivityGoal) error
	Delete(ctx context.Context, id uint) error
}

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.ProductivityGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) GetByID(ctx context.Context, id uint) (*models.ProductivityGoal, error) {
	var goal models.ProductivityGoal
	if err := r.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &goal, nil
}

// ListByUser orders by start date. With activeAt set, only goals that have not
// ended by then are returned; open-ended goals always count as active.
func (r *goalRepository) ListByUser(ctx context.Context, userID string, activeAt *time.Time) ([]models.ProductivityGoal, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeAt != nil {
		q = q.Where("end_date IS NULL OR end_date >= ?", activeAt.UTC())
	}

	var goals []models.ProductivityGoal
	err := q.Order("start_date ASC").Order("id ASC").Find(&goals).Error
	return goals, err
}

func (r *goalRepository) Save(ctx context.Context, goal *models.ProductivityGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProductivityGoal{}, id).Error
}

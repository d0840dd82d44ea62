package repository

import (
	"context"
	"task_analytics/internal/models"
	"time"

	"gorm.io/gorm"
)

// ActivityFilter narrows List. Zero values mean "no constraint".
type ActivityFilter struct {
	UserID    string
	TaskID    *uint
	ProjectID *uint
	Action    *models.ActivityAction
	From      *time.Time
	To        *time.Time
	Limit     int
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.TaskActivity) error
	CreateBatch(ctx context.Context, activities []models.TaskActivity) error
	List(ctx context.Context, filter ActivityFilter) ([]models.TaskActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.TaskActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) CreateBatch(ctx context.Context, activities []models.TaskActivity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&activities).Error
}

// List returns activities newest first, each with the title of its task when
// the task still exists.
func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.TaskActivity, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.TaskActivity{}).
		Select("task_activities.*, tasks.title AS task_title").
		Joins("LEFT JOIN tasks ON tasks.id = task_activities.task_id")

	if filter.UserID != "" {
		q = q.Where("task_activities.user_id = ?", filter.UserID)
	}
	if filter.TaskID != nil {
		q = q.Where("task_activities.task_id = ?", *filter.TaskID)
	}
	if filter.ProjectID != nil {
		q = q.Where("task_activities.task_id IN (?)",
			db.Model(&models.Task{}).Select("id").Where("project_id = ?", *filter.ProjectID))
	}
	if filter.Action != nil {
		q = q.Where("task_activities.action = ?", *filter.Action)
	}
	if filter.From != nil {
		q = q.Where("task_activities.timestamp >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("task_activities.timestamp <= ?", filter.To.UTC())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var activities []models.TaskActivity
	err := q.Order("task_activities.timestamp DESC").Order("task_activities.id DESC").Find(&activities).Error
	return activities, err
}

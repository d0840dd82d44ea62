package repository

import (
	"context"
	"task_analytics/internal/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskFilter selects tasks created inside [CreatedFrom, CreatedTo]. A non-nil
// but empty UserIDs matches nothing.
type TaskFilter struct {
	UserIDs     []string
	ProjectID   *uint
	CreatedFrom time.Time
	CreatedTo   time.Time
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Task, error)
	GetWithRelations(ctx context.Context, id uint) (*models.Task, error)
	ListByUser(ctx context.Context, userID string, tagIDs []uint) ([]models.Task, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Task, error)
	ListCreatedBetween(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	ListCompletedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
	DeleteByProject(ctx context.Context, projectID uint) error
	ReplaceTags(ctx context.Context, taskID uint, tagIDs []uint) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &task, nil
}

func (r *taskRepository) GetForUpdate(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := lockForUpdate(r.db.WithContext(ctx)).First(&task, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &task, nil
}

func (r *taskRepository) GetWithRelations(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.withRelations(r.db.WithContext(ctx)).First(&task, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	normalizeTags(&task)
	return &task, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string, tagIDs []uint) ([]models.Task, error) {
	db := r.db.WithContext(ctx)
	q := r.withRelations(db).Where("user_id = ?", userID)
	if len(tagIDs) > 0 {
		q = q.Where("id IN (?)", db.Model(&models.TaskTag{}).Select("task_id").Where("tag_id IN ?", tagIDs))
	}

	var tasks []models.Task
	err := q.Order("priority DESC").Order("due_date ASC").Order("id ASC").Find(&tasks).Error
	for i := range tasks {
		normalizeTags(&tasks[i])
	}
	return tasks, err
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListCreatedBetween(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	if filter.UserIDs != nil && len(filter.UserIDs) == 0 {
		return []models.Task{}, nil
	}

	q := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Where("created_at BETWEEN ? AND ?", filter.CreatedFrom.UTC(), filter.CreatedTo.UTC())
	if len(filter.UserIDs) > 0 {
		q = q.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}

	var tasks []models.Task
	err := q.Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListCompletedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusDone).
		Where("started_at IS NOT NULL").
		Where("completed_at BETWEEN ? AND ?", from.UTC(), to.UTC()).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Save(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Task{}, id).Error
}

func (r *taskRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	db := r.db.WithContext(ctx)
	taskIDs := db.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID)
	if err := db.Where("task_id IN (?)", taskIDs).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}
	return db.Where("project_id = ?", projectID).Delete(&models.Task{}).Error
}

func (r *taskRepository) ReplaceTags(ctx context.Context, taskID uint, tagIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", taskID).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}

	links := make([]models.TaskTag, 0, len(tagIDs))
	seen := make(map[uint]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		links = append(links, models.TaskTag{TaskID: taskID, TagID: tagID})
	}
	if len(links) == 0 {
		return nil
	}
	return db.Create(&links).Error
}

func (r *taskRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Project").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") })
}

func normalizeTags(task *models.Task) {
	if task.Tags == nil {
		task.Tags = []models.Tag{}
	}
}

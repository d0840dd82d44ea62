package repository

import (
	"context"
	"task_analytics/internal/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	ListByTask(ctx context.Context, taskID uint) ([]models.Tag, error)
	ExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
	UsedByUser(ctx context.Context, tagID uint, userID string) (bool, error)
	Save(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error

	HasLink(ctx context.Context, taskID, tagID uint) (bool, error)
	Attach(ctx context.Context, link *models.TaskTag) error
	Detach(ctx context.Context, taskID, tagID uint) (bool, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &tag, nil
}

// GetByName matches case-sensitively.
func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Select("tags.*, (SELECT COUNT(*) FROM task_tags WHERE task_tags.tag_id = tags.id) AS task_count").
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) ListByTask(ctx context.Context, taskID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
		Where("task_tags.task_id = ?", taskID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	found := []uint{}
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

// UsedByUser reports whether any of userID's tasks carries the tag.
func (r *tagRepository) UsedByUser(ctx context.Context, tagID uint, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TaskTag{}).
		Joins("JOIN tasks ON tasks.id = task_tags.task_id").
		Where("task_tags.tag_id = ? AND tasks.user_id = ?", tagID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *tagRepository) Save(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("tag_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Tag{}, id).Error
}

func (r *tagRepository) HasLink(ctx context.Context, taskID, tagID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TaskTag{}).
		Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Count(&count).Error
	return count > 0, err
}

func (r *tagRepository) Attach(ctx context.Context, link *models.TaskTag) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *tagRepository) Detach(ctx context.Context, taskID, tagID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Delete(&models.TaskTag{})
	return result.RowsAffected > 0, result.Error
}

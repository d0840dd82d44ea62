package repository

import (
	"context"
	"task_analytics/internal/models"

	"gorm.io/gorm"
)

type PreferenceRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.AnalyticsPreference, error)
	Create(ctx context.Context, pref *models.AnalyticsPreference) error
	Save(ctx context.Context, pref *models.AnalyticsPreference) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetByUser(ctx context.Context, userID string) (*models.AnalyticsPreference, error) {
	var pref models.AnalyticsPreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &pref, nil
}

func (r *preferenceRepository) Create(ctx context.Context, pref *models.AnalyticsPreference) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

func (r *preferenceRepository) Save(ctx context.Context, pref *models.AnalyticsPreference) error {
	return r.db.WithContext(ctx).Save(pref).Error
}

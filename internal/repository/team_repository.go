package repository

import (
	"context"
	"task_analytics/internal/models"

	"gorm.io/gorm"
)

// TeamRepository is read-only; membership is written by the seed script.
type TeamRepository interface {
	ListForUser(ctx context.Context, userID string) ([]models.Team, error)
	Members(ctx context.Context, teamID uint) ([]models.TeamMember, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) ListForUser(ctx context.Context, userID string) ([]models.Team, error) {
	db := r.db.WithContext(ctx)
	var teams []models.Team
	err := db.Where("id IN (?)", db.Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", userID)).
		Order("id").
		Find(&teams).Error
	return teams, err
}

func (r *teamRepository) Members(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("id").
		Find(&members).Error
	return members, err
}

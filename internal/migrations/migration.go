package migrations

import (
	"errors"
	"fmt"
	"task_analytics/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date. It never drops tables.
func RunMigrations(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	if err := db.SetupJoinTable(&models.Task{}, "Tags", &models.TaskTag{}); err != nil {
		return fmt.Errorf("failed to set up task_tags join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Tag{},
		&models.Task{},
		&models.TaskTag{},
		&models.TaskActivity{},
		&models.ProductivityGoal{},
		&models.AnalyticsPreference{},
		&models.Team{},
		&models.TeamMember{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	zap.L().Info("database migrations completed")
	return nil
}

// SeedTeam creates a team with the given members unless a team with the same
// name already exists. Members must already have a profile row.
func SeedTeam(db *gorm.DB, team *models.Team, members []models.TeamMember) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.Team
		err := tx.Where("name = ?", team.Name).First(&existing).Error
		switch {
		case err == nil:
			zap.L().Info("team already exists", zap.String("team", team.Name), zap.Uint("team_id", existing.ID))
			*team = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Omit("Members").Create(team).Error; err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		for i := range members {
			members[i].TeamID = team.ID
			if members[i].Role == "" {
				members[i].Role = models.RoleMember
			}
		}
		if len(members) > 0 {
			if err := tx.Omit("Team", "User").Create(&members).Error; err != nil {
				return fmt.Errorf("failed to add team members: %w", err)
			}
		}
		zap.L().Info("team seeded", zap.String("team", team.Name), zap.Int("members", len(members)))
		return nil
	})
}

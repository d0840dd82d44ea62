package main

import (
	"flag"
	"fmt"
	"strings"

	"task_analytics/internal/config"
	"task_analytics/internal/database"
	"task_analytics/internal/migrations"
	"task_analytics/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Usage:
//
//	go run scripts/init-db.go
//	go run scripts/init-db.go -team core -members "user-a:owner,user-b"
func main() {
	teamName := flag.String("team", "", "create a team with this name")
	teamDescription := flag.String("description", "", "team description")
	memberList := flag.String("members", "", "comma separated user ids, each optionally suffixed with :owner, :admin or :member")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	db, err := database.Open(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	fmt.Println("Running migrations...")
	if err := migrations.RunMigrations(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if *teamName == "" {
		fmt.Println("Database initialization completed successfully!")
		return
	}

	members, err := parseMembers(*memberList)
	if err != nil {
		logger.Fatal("invalid -members", zap.Error(err))
	}
	if err := ensureProfiles(db, members); err != nil {
		logger.Fatal("failed to create member profiles", zap.Error(err))
	}

	team := &models.Team{Name: *teamName}
	if *teamDescription != "" {
		team.Description = teamDescription
	}
	if err := migrations.SeedTeam(db, team, members); err != nil {
		logger.Fatal("failed to seed team", zap.Error(err))
	}
	fmt.Printf("Team %q ready (id %d)\n", team.Name, team.ID)
}

func parseMembers(raw string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		userID, role := item, models.RoleMember
		if i := strings.LastIndex(item, ":"); i >= 0 {
			userID, role = item[:i], models.TeamRole(item[i+1:])
		}
		switch role {
		case models.RoleOwner, models.RoleAdmin, models.RoleMember:
		default:
			return nil, fmt.Errorf("unknown role %q for %s", role, userID)
		}
		if userID == "" {
			return nil, fmt.Errorf("empty user id in %q", item)
		}
		members = append(members, models.TeamMember{UserID: userID, Role: role})
	}
	return members, nil
}

// ensureProfiles creates placeholder users rows for members who have not
// signed in yet. Existing profiles are left untouched.
func ensureProfiles(db *gorm.DB, members []models.TeamMember) error {
	for _, m := range members {
		user := models.User{ID: m.UserID}
		if err := db.Where(models.User{ID: m.UserID}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("profile %s: %w", m.UserID, err)
		}
	}
	return nil
}

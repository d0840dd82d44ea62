package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// Store groups the repositories that share one *gorm.DB, so a transaction can
// hand the whole set to a callback.
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Tasks       TaskRepository
	Projects    ProjectRepository
	Tags        TagRepository
	Activities  ActivityRepository
	Goals       GoalRepository
	Preferences PreferenceRepository
	Teams       TeamRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Tasks:       NewTaskRepository(db),
		Projects:    NewProjectRepository(db),
		Tags:        NewTagRepository(db),
		Activities:  NewActivityRepository(db),
		Goals:       NewGoalRepository(db),
		Preferences: NewPreferenceRepository(db),
		Teams:       NewTeamRepository(db),
	}
}

// Transaction runs fn against a Store bound to one database transaction.
// Any error returned by fn rolls the transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect supports it.
// SQLite already serialises writers at the transaction level.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

package services

import (
	"context"
	"errors"
	"strings"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
)

type UserService interface {
	SyncProfile(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	store *repository.Store
	now   Clock
}

func NewUserService(store *repository.Store, clock Clock) UserService {
	return &userService{store: store, now: orSystemClock(clock)}
}

// SyncProfile creates or refreshes the profile row for an authenticated
// identity. Calling it repeatedly with the same data is harmless.
func (s *userService) SyncProfile(ctx context.Context, user *models.User) error {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return errors.New("user id is required")
	}
	now := s.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	return s.store.Users.Upsert(ctx, user)
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users.GetByID(ctx, id)
}

package services

import (
	"context"
	"strings"
	"time"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"
)

type CreateGoalInput struct {
	Title       string
	Description *string
	TargetType  string
	TargetValue float64
	StartDate   *time.Time
	EndDate     *time.Time
}

type UpdateGoalInput struct {
	ID             uint
	Title          *string
	Description    *string
	DescriptionSet bool
	TargetType     *string
	TargetValue    *float64
	StartDate      *time.Time
	EndDate        *time.Time
	EndDateSet     bool
	Achieved       *bool
	Progress       *float64
}

type GoalService interface {
	ListGoals(ctx context.Context, userID string, activeOnly bool) ([]models.ProductivityGoal, error)
	CreateGoal(ctx context.Context, userID string, in CreateGoalInput) (*models.ProductivityGoal, error)
	UpdateGoal(ctx context.Context, userID string, in UpdateGoalInput) (*models.ProductivityGoal, error)
	DeleteGoal(ctx context.Context, userID string, id uint) error
}

type goalService struct {
	store *repository.Store
	now   Clock
}

func NewGoalService(store *repository.Store, clock Clock) GoalService {
	return &goalService{store: store, now: orSystemClock(clock)}
}

// ListGoals with activeOnly keeps goals whose end date has not passed;
// open-ended goals are always active.
func (s *goalService) ListGoals(ctx context.Context, userID string, activeOnly bool) ([]models.ProductivityGoal, error) {
	var activeAt *time.Time
	if activeOnly {
		now := s.now()
		activeAt = &now
	}
	goals, err := s.store.Goals.ListByUser(ctx, userID, activeAt)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []models.ProductivityGoal{}
	}
	return goals, nil
}

func checkGoalDates(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return invalid(apierrors.MsgInvalidGoalDates, "end date is before start date")
	}
	return nil
}

func (s *goalService) CreateGoal(ctx context.Context, userID string, in CreateGoalInput) (*models.ProductivityGoal, error) {
	title := strings.TrimSpace(in.Title)
	targetType := strings.TrimSpace(in.TargetType)
	if title == "" || targetType == "" || in.TargetValue == 0 || in.StartDate == nil {
		return nil, invalid(apierrors.MsgGoalFieldsRequired, "title, targetType, targetValue and startDate are required")
	}
	if err := checkGoalDates(*in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	now := s.now()
	goal := &models.ProductivityGoal{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		TargetType:  targetType,
		TargetValue: in.TargetValue,
		StartDate:   in.StartDate.UTC(),
		EndDate:     utcPtr(in.EndDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, userID string, in UpdateGoalInput) (*models.ProductivityGoal, error) {
	var goal *models.ProductivityGoal
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		goal, err = loadOwnedGoal(ctx, tx, in.ID, userID)
		if err != nil {
			return err
		}

		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" {
				return invalid(apierrors.MsgTitleRequired, "title must not be empty")
			}
			goal.Title = title
		}
		if in.DescriptionSet {
			goal.Description = in.Description
		}
		if in.TargetType != nil {
			goal.TargetType = *in.TargetType
		}
		if in.TargetValue != nil {
			goal.TargetValue = *in.TargetValue
		}
		if in.StartDate != nil {
			goal.StartDate = in.StartDate.UTC()
		}
		if in.EndDateSet {
			goal.EndDate = utcPtr(in.EndDate)
		}
		if in.Achieved != nil {
			goal.Achieved = *in.Achieved
		}
		if in.Progress != nil {
			goal.Progress = *in.Progress
		}
		if err := checkGoalDates(goal.StartDate, goal.EndDate); err != nil {
			return err
		}
		goal.UpdatedAt = s.now()
		return tx.Goals.Save(ctx, goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, userID string, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := loadOwnedGoal(ctx, tx, id, userID); err != nil {
			return err
		}
		return tx.Goals.Delete(ctx, id)
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

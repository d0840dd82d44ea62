package services

import (
	"context"
	"time"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"
)

// ActivityInput is a manually recorded lifecycle event. Status strings accept
// the same spellings as task updates.
type ActivityInput struct {
	TaskID      uint
	Action      string
	OldStatus   *string
	NewStatus   *string
	OldPriority *int
	NewPriority *int
}

type ActivityQuery struct {
	From   *time.Time
	To     *time.Time
	TaskID *uint
	Action *string
}

type ActivityService interface {
	RecordActivity(ctx context.Context, userID string, in ActivityInput) (*models.TaskActivity, error)
	ListActivities(ctx context.Context, userID string, q ActivityQuery) ([]models.TaskActivity, error)
}

type activityService struct {
	store *repository.Store
	now   Clock
}

func NewActivityService(store *repository.Store, clock Clock) ActivityService {
	return &activityService{store: store, now: orSystemClock(clock)}
}

func parseOptionalStatus(raw *string) (*models.TaskStatus, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := models.ParseTaskStatus(*raw)
	if err != nil {
		return nil, invalid(apierrors.MsgInvalidStatus, err.Error())
	}
	return &status, nil
}

// RecordActivity appends an activity for one of the user's tasks. A
// status_changed record moving into DONE or IN_PROGRESS stamps the task the
// same way an update would, in the same transaction.
func (s *activityService) RecordActivity(ctx context.Context, userID string, in ActivityInput) (*models.TaskActivity, error) {
	if in.TaskID == 0 || in.Action == "" {
		return nil, invalid(apierrors.MsgActivityRequired, "taskId and action are required")
	}
	action := models.ActivityAction(in.Action)
	if !action.Valid() {
		return nil, invalid(apierrors.MsgInvalidAction, "unknown action "+in.Action)
	}
	oldStatus, err := parseOptionalStatus(in.OldStatus)
	if err != nil {
		return nil, err
	}
	newStatus, err := parseOptionalStatus(in.NewStatus)
	if err != nil {
		return nil, err
	}

	now := s.now()
	activity := &models.TaskActivity{
		TaskID:      in.TaskID,
		UserID:      userID,
		Action:      action,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		OldPriority: in.OldPriority,
		NewPriority: in.NewPriority,
		Timestamp:   now,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := loadOwnedTask(ctx, tx, in.TaskID, userID, true)
		if err != nil {
			return err
		}
		if err := tx.Activities.Create(ctx, activity); err != nil {
			return err
		}
		if action != models.ActionStatusChanged || newStatus == nil {
			return nil
		}

		from := models.TaskStatus("")
		if oldStatus != nil {
			from = *oldStatus
		}
		startedAt, completedAt := task.StartedAt, task.CompletedAt
		applyStatusTransition(task, from, *newStatus, now)
		if task.StartedAt == startedAt && task.CompletedAt == completedAt {
			return nil
		}
		task.UpdatedAt = now
		return tx.Tasks.Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *activityService) ListActivities(ctx context.Context, userID string, q ActivityQuery) ([]models.TaskActivity, error) {
	filter := repository.ActivityFilter{
		UserID: userID,
		TaskID: q.TaskID,
		From:   q.From,
		To:     q.To,
	}
	if q.Action != nil && *q.Action != "" {
		action := models.ActivityAction(*q.Action)
		if !action.Valid() {
			return nil, invalid(apierrors.MsgInvalidAction, "unknown action "+*q.Action)
		}
		filter.Action = &action
	}
	activities, err := s.store.Activities.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.TaskActivity{}
	}
	return activities, nil
}

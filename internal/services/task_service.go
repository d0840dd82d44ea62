package services

import (
	"context"
	"strings"
	"time"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"
)

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *string
	Priority    *int
	DueDate     *time.Time
	ProjectID   *uint
	TagIDs      []uint
}

// UpdateTaskInput is a partial update. Pointer fields left nil are kept; the
// *Set flags distinguish "clear this nullable field" from "not sent".
type UpdateTaskInput struct {
	ID             uint
	Title          *string
	Description    *string
	DescriptionSet bool
	Status         *string
	Priority       *int
	DueDate        *time.Time
	DueDateSet     bool
	ProjectID      *uint
	ProjectIDSet   bool
	TagIDs         []uint
	TagIDsSet      bool
}

type TaskService interface {
	ListTasks(ctx context.Context, userID string, tagIDs []uint) ([]models.Task, error)
	CreateTask(ctx context.Context, userID string, in CreateTaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, userID string, in UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, userID string, id uint) error
}

type taskService struct {
	store *repository.Store
	now   Clock
}

func NewTaskService(store *repository.Store, clock Clock) TaskService {
	return &taskService{store: store, now: orSystemClock(clock)}
}

func (s *taskService) ListTasks(ctx context.Context, userID string, tagIDs []uint) ([]models.Task, error) {
	return s.store.Tasks.ListByUser(ctx, userID, tagIDs)
}

func (s *taskService) CreateTask(ctx context.Context, userID string, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid(apierrors.MsgTitleRequired, "title is required")
	}
	status := models.StatusTodo
	if in.Status != nil {
		parsed, err := models.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, invalid(apierrors.MsgInvalidStatus, err.Error())
		}
		status = parsed
	}
	priority := models.DefaultPriority
	if in.Priority != nil {
		if err := validatePriority(*in.Priority); err != nil {
			return nil, err
		}
		priority = *in.Priority
	}

	now := s.now()
	task := &models.Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		ProjectID:   in.ProjectID,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch status {
	case models.StatusInProgress:
		task.StartedAt = &now
	case models.StatusDone:
		task.CompletedAt = &now
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if in.ProjectID != nil {
			if _, err := loadOwnedProject(ctx, tx, *in.ProjectID, userID, false); err != nil {
				return err
			}
		}
		if err := ensureTagsExist(ctx, tx, in.TagIDs); err != nil {
			return err
		}
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}
		if len(in.TagIDs) > 0 {
			if err := tx.Tasks.ReplaceTags(ctx, task.ID, in.TagIDs); err != nil {
				return err
			}
		}
		return tx.Activities.Create(ctx, &models.TaskActivity{
			TaskID:    task.ID,
			UserID:    userID,
			Action:    models.ActionCreated,
			NewStatus: status.Ptr(),
			Timestamp: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.store.Tasks.GetWithRelations(ctx, task.ID)
}

func (s *taskService) UpdateTask(ctx context.Context, userID string, in UpdateTaskInput) (*models.Task, error) {
	var newStatus *models.TaskStatus
	if in.Status != nil {
		parsed, err := models.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, invalid(apierrors.MsgInvalidStatus, err.Error())
		}
		newStatus = &parsed
	}
	var title *string
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return nil, invalid(apierrors.MsgTitleRequired, "title must not be empty")
		}
		title = &trimmed
	}
	if in.Priority != nil {
		if err := validatePriority(*in.Priority); err != nil {
			return nil, err
		}
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := loadOwnedTask(ctx, tx, in.ID, userID, true)
		if err != nil {
			return err
		}
		if in.ProjectIDSet && in.ProjectID != nil {
			if _, err := loadOwnedProject(ctx, tx, *in.ProjectID, userID, false); err != nil {
				return err
			}
		}
		if in.TagIDsSet {
			if err := ensureTagsExist(ctx, tx, in.TagIDs); err != nil {
				return err
			}
		}

		now := s.now()
		oldStatus, oldPriority := task.Status, task.Priority
		if title != nil {
			task.Title = *title
		}
		if in.DescriptionSet {
			task.Description = in.Description
		}
		if in.DueDateSet {
			task.DueDate = in.DueDate
		}
		if in.ProjectIDSet {
			task.ProjectID = in.ProjectID
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if newStatus != nil && *newStatus != oldStatus {
			applyStatusTransition(task, oldStatus, *newStatus, now)
			task.Status = *newStatus
		}

		if err := tx.Tasks.Save(ctx, task); err != nil {
			return err
		}
		if in.TagIDsSet {
			if err := tx.Tasks.ReplaceTags(ctx, task.ID, in.TagIDs); err != nil {
				return err
			}
		}

		activity := models.TaskActivity{
			TaskID:    task.ID,
			UserID:    userID,
			Action:    models.ActionStatusChanged,
			Timestamp: now,
		}
		changed := false
		if task.Status != oldStatus {
			activity.OldStatus = oldStatus.Ptr()
			activity.NewStatus = task.Status.Ptr()
			changed = true
		}
		if task.Priority != oldPriority {
			oldP, newP := oldPriority, task.Priority
			activity.OldPriority = &oldP
			activity.NewPriority = &newP
			changed = true
		}
		if !changed {
			return nil
		}
		return tx.Activities.Create(ctx, &activity)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Tasks.GetWithRelations(ctx, in.ID)
}

func validatePriority(p int) error {
	if p < models.MinPriority || p > models.MaxPriority {
		return invalid(apierrors.MsgInvalidPriority, "priority out of range")
	}
	return nil
}

// applyStatusTransition stamps completedAt on entering DONE and startedAt on
// the first entry into IN_PROGRESS. Leaving DONE keeps completedAt.
func applyStatusTransition(task *models.Task, from, to models.TaskStatus, now time.Time) {
	if to == models.StatusDone && from != models.StatusDone {
		task.CompletedAt = &now
	}
	if to == models.StatusInProgress && from != models.StatusInProgress && task.StartedAt == nil {
		task.StartedAt = &now
	}
}

func (s *taskService) DeleteTask(ctx context.Context, userID string, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := loadOwnedTask(ctx, tx, id, userID, true)
		if err != nil {
			return err
		}
		if err := tx.Activities.Create(ctx, &models.TaskActivity{
			TaskID:    task.ID,
			UserID:    userID,
			Action:    models.ActionDeleted,
			OldStatus: task.Status.Ptr(),
			Timestamp: s.now(),
		}); err != nil {
			return err
		}
		return tx.Tasks.Delete(ctx, task.ID)
	})
}

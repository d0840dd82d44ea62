package services

import (
	"context"
	"errors"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
)

// loadOwnedTask resolves the task and checks that userID owns it. With lock
// set the row is held until the surrounding transaction ends.
func loadOwnedTask(ctx context.Context, store *repository.Store, id uint, userID string, lock bool) (*models.Task, error) {
	get := store.Tasks.GetByID
	if lock {
		get = store.Tasks.GetForUpdate
	}
	task, err := get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return task, nil
}

func loadOwnedProject(ctx context.Context, store *repository.Store, id uint, userID string, lock bool) (*models.Project, error) {
	get := store.Projects.GetByID
	if lock {
		get = store.Projects.GetForUpdate
	}
	project, err := get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, ErrForbidden
	}
	return project, nil
}

func loadOwnedGoal(ctx context.Context, store *repository.Store, id uint, userID string) (*models.ProductivityGoal, error) {
	goal, err := store.Goals.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrForbidden
	}
	return goal, nil
}

// loadModifiableTag allows changes only to tags the user has on at least one
// of their own tasks.
func loadModifiableTag(ctx context.Context, store *repository.Store, id uint, userID string) (*models.Tag, error) {
	tag, err := store.Tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	used, err := store.Tags.UsedByUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, ErrForbidden
	}
	return tag, nil
}

func ensureTagsExist(ctx context.Context, store *repository.Store, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := store.Tags.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return ErrTagNotFound
		}
	}
	return nil
}

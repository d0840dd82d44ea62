package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"task_analytics/internal/models"
	"task_analytics/pkg/apierrors"

	"github.com/stretchr/testify/require"
)

func TestActivityService_RecordStampsTask(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	tasks := NewTaskService(store, clock.Now)
	svc := NewActivityService(store, clock.Now)

	task, err := tasks.CreateTask(ctx, "u1", CreateTaskInput{Title: "a"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	act, err := svc.RecordActivity(ctx, "u1", ActivityInput{
		TaskID: task.ID, Action: "status_changed", OldStatus: strPtr("TODO"), NewStatus: strPtr("in-progress"),
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, *act.NewStatus)

	stored, err := store.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StartedAt)
	require.True(t, stored.StartedAt.Equal(clock.now))
	require.Equal(t, models.StatusTodo, stored.Status, "recording an activity does not move the task")

	clock.Advance(time.Hour)
	_, err = svc.RecordActivity(ctx, "u1", ActivityInput{
		TaskID: task.ID, Action: "status_changed", OldStatus: strPtr("IN_PROGRESS"), NewStatus: strPtr("DONE"),
	})
	require.NoError(t, err)
	stored, err = store.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, stored.CompletedAt.Equal(clock.now))
}

func TestActivityService_RecordRejects(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	tasks := NewTaskService(store, clock.Now)
	svc := NewActivityService(store, clock.Now)

	task, err := tasks.CreateTask(ctx, "u1", CreateTaskInput{Title: "a"})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = svc.RecordActivity(ctx, "u1", ActivityInput{TaskID: task.ID})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, apierrors.MsgActivityRequired, verr.Key)

	_, err = svc.RecordActivity(ctx, "u1", ActivityInput{TaskID: task.ID, Action: "archived"})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, apierrors.MsgInvalidAction, verr.Key)

	_, err = svc.RecordActivity(ctx, "u2", ActivityInput{TaskID: task.ID, Action: "created"})
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.RecordActivity(ctx, "u1", ActivityInput{TaskID: 999, Action: "created"})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestActivityService_ListFilters(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	tasks := NewTaskService(store, clock.Now)
	svc := NewActivityService(store, clock.Now)

	start := clock.now
	a, err := tasks.CreateTask(ctx, "u1", CreateTaskInput{Title: "a"})
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	_, err = tasks.UpdateTask(ctx, "u1", UpdateTaskInput{ID: a.ID, Status: strPtr("done")})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, "u2", CreateTaskInput{Title: "theirs"})
	require.NoError(t, err)

	all, err := svc.ListActivities(ctx, "u1", ActivityQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, models.ActionStatusChanged, all[0].Action)
	require.Equal(t, "a", *all[0].TaskTitle)

	to := start.Add(time.Hour)
	early, err := svc.ListActivities(ctx, "u1", ActivityQuery{From: &start, To: &to})
	require.NoError(t, err)
	require.Len(t, early, 1)
	require.Equal(t, models.ActionCreated, early[0].Action)

	action := "status_changed"
	changed, err := svc.ListActivities(ctx, "u1", ActivityQuery{Action: &action, TaskID: &a.ID})
	require.NoError(t, err)
	require.Len(t, changed, 1)

	bogus := "renamed"
	_, err = svc.ListActivities(ctx, "u1", ActivityQuery{Action: &bogus})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

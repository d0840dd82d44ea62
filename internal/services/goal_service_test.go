package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"task_analytics/pkg/apierrors"

	"github.com/stretchr/testify/require"
)

func TestGoalService_CreateAndActiveFilter(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	svc := NewGoalService(store, clock.Now)

	var verr *ValidationError
	_, err := svc.CreateGoal(ctx, "u1", CreateGoalInput{Title: "ship", TargetType: "tasks"})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, apierrors.MsgGoalFieldsRequired, verr.Key)

	start := clock.now.AddDate(0, 0, -10)
	past := clock.now.AddDate(0, 0, -1)
	_, err = svc.CreateGoal(ctx, "u1", CreateGoalInput{
		Title: "inverted", TargetType: "tasks", TargetValue: 5, StartDate: &clock.now, EndDate: &past,
	})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, apierrors.MsgInvalidGoalDates, verr.Key)

	expired, err := svc.CreateGoal(ctx, "u1", CreateGoalInput{
		Title: "last sprint", TargetType: "tasks", TargetValue: 5, StartDate: &start, EndDate: &past,
	})
	require.NoError(t, err)
	require.False(t, expired.Achieved)
	require.Zero(t, expired.Progress)

	future := clock.now.AddDate(0, 0, 7)
	_, err = svc.CreateGoal(ctx, "u1", CreateGoalInput{
		Title: "this sprint", TargetType: "tasks", TargetValue: 8, StartDate: &clock.now, EndDate: &future,
	})
	require.NoError(t, err)
	_, err = svc.CreateGoal(ctx, "u1", CreateGoalInput{
		Title: "forever", TargetType: "hours", TargetValue: 100, StartDate: &start,
	})
	require.NoError(t, err)

	all, err := svc.ListGoals(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	active, err := svc.ListGoals(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, g := range active {
		require.NotEqual(t, "last sprint", g.Title)
	}

	none, err := svc.ListGoals(ctx, "u2", false)
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestGoalService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	svc := NewGoalService(store, clock.Now)

	end := clock.now.Add(48 * time.Hour)
	goal, err := svc.CreateGoal(ctx, "u1", CreateGoalInput{
		Title: "g", TargetType: "tasks", TargetValue: 3, StartDate: &clock.now, EndDate: &end,
	})
	require.NoError(t, err)

	achieved, progress := true, 1.0
	updated, err := svc.UpdateGoal(ctx, "u1", UpdateGoalInput{ID: goal.ID, Achieved: &achieved, Progress: &progress, EndDateSet: true})
	require.NoError(t, err)
	require.True(t, updated.Achieved)
	require.Equal(t, 1.0, updated.Progress)
	require.Nil(t, updated.EndDate)
	require.Equal(t, "g", updated.Title)

	_, err = svc.UpdateGoal(ctx, "u2", UpdateGoalInput{ID: goal.ID, Achieved: &achieved})
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.UpdateGoal(ctx, "u1", UpdateGoalInput{ID: 77})
	require.ErrorIs(t, err, ErrGoalNotFound)

	require.ErrorIs(t, svc.DeleteGoal(ctx, "u2", goal.ID), ErrForbidden)
	require.NoError(t, svc.DeleteGoal(ctx, "u1", goal.ID))
	require.ErrorIs(t, svc.DeleteGoal(ctx, "u1", goal.ID), ErrGoalNotFound)
}

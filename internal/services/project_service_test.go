package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"

	"github.com/stretchr/testify/require"
)

func TestProjectService_CRUD(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	svc := NewProjectService(store, clock.Now)

	_, err := svc.CreateProject(ctx, "u1", CreateProjectInput{Name: " "})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, apierrors.MsgNameRequired, verr.Key)

	project, err := svc.CreateProject(ctx, "u1", CreateProjectInput{Name: "Launch", Description: strPtr("v1")})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, err := svc.UpdateProject(ctx, "u1", UpdateProjectInput{ID: project.ID, Name: strPtr("Launch v2")})
	require.NoError(t, err)
	require.Equal(t, "Launch v2", updated.Name)
	require.Equal(t, "v1", *updated.Description)

	_, err = svc.UpdateProject(ctx, "u2", UpdateProjectInput{ID: project.ID, Name: strPtr("mine now")})
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, svc.DeleteProject(ctx, "u2", project.ID), ErrForbidden)
	require.ErrorIs(t, svc.DeleteProject(ctx, "u1", 404), ErrProjectNotFound)

	list, err := svc.ListProjects(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Launch v2", list[0].Name)
	require.Equal(t, int64(0), *list[0].TaskCount)
}

func TestProjectService_DeleteCascadesTasks(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	projects := NewProjectService(store, clock.Now)
	tasks := NewTaskService(store, clock.Now)
	tags := NewTagService(store, clock.Now)

	project, err := projects.CreateProject(ctx, "u1", CreateProjectInput{Name: "P"})
	require.NoError(t, err)
	tag, err := tags.CreateTag(ctx, CreateTagInput{Name: "ops", Color: "#123456"})
	require.NoError(t, err)

	a, err := tasks.CreateTask(ctx, "u1", CreateTaskInput{Title: "a", ProjectID: &project.ID, TagIDs: []uint{tag.ID}})
	require.NoError(t, err)
	b, err := tasks.CreateTask(ctx, "u1", CreateTaskInput{Title: "b", ProjectID: &project.ID, Status: strPtr("done")})
	require.NoError(t, err)
	loose, err := tasks.CreateTask(ctx, "u1", CreateTaskInput{Title: "loose"})
	require.NoError(t, err)

	require.NoError(t, projects.DeleteProject(ctx, "u1", project.ID))

	for _, id := range []uint{a.ID, b.ID} {
		_, err := store.Tasks.GetByID(ctx, id)
		require.ErrorIs(t, err, repository.ErrNotFound)
	}
	_, err = store.Tasks.GetByID(ctx, loose.ID)
	require.NoError(t, err)

	linked, err := store.Tags.HasLink(ctx, a.ID, tag.ID)
	require.NoError(t, err)
	require.False(t, linked)

	action := models.ActionDeleted
	deleted, err := store.Activities.List(ctx, repository.ActivityFilter{UserID: "u1", Action: &action})
	require.NoError(t, err)
	require.Len(t, deleted, 2)
	require.Equal(t, models.StatusDone, *deleted[0].OldStatus, "same timestamp, higher id first")
}

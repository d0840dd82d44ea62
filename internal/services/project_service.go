package services

import (
	"context"
	"strings"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"
)

type CreateProjectInput struct {
	Name        string
	Description *string
}

type UpdateProjectInput struct {
	ID             uint
	Name           *string
	Description    *string
	DescriptionSet bool
}

type ProjectService interface {
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	CreateProject(ctx context.Context, userID string, in CreateProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, userID string, in UpdateProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, userID string, id uint) error
}

type projectService struct {
	store *repository.Store
	now   Clock
}

func NewProjectService(store *repository.Store, clock Clock) ProjectService {
	return &projectService{store: store, now: orSystemClock(clock)}
}

func (s *projectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.store.Projects.ListByUser(ctx, userID)
}

func (s *projectService) CreateProject(ctx context.Context, userID string, in CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid(apierrors.MsgNameRequired, "name is required")
	}
	now := s.now()
	project := &models.Project{
		Name:        name,
		Description: in.Description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, userID string, in UpdateProjectInput) (*models.Project, error) {
	var name *string
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, invalid(apierrors.MsgNameRequired, "name must not be empty")
		}
		name = &trimmed
	}

	var project *models.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		project, err = loadOwnedProject(ctx, tx, in.ID, userID, true)
		if err != nil {
			return err
		}
		if name != nil {
			project.Name = *name
		}
		if in.DescriptionSet {
			project.Description = in.Description
		}
		project.UpdatedAt = s.now()
		return tx.Projects.Save(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project together with its tasks. Each task gets
// its "deleted" activity first, so the audit trail matches single deletes.
func (s *projectService) DeleteProject(ctx context.Context, userID string, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		project, err := loadOwnedProject(ctx, tx, id, userID, true)
		if err != nil {
			return err
		}
		tasks, err := tx.Tasks.ListByProject(ctx, project.ID)
		if err != nil {
			return err
		}

		now := s.now()
		activities := make([]models.TaskActivity, 0, len(tasks))
		for _, task := range tasks {
			activities = append(activities, models.TaskActivity{
				TaskID:    task.ID,
				UserID:    userID,
				Action:    models.ActionDeleted,
				OldStatus: task.Status.Ptr(),
				Timestamp: now,
			})
		}
		if err := tx.Activities.CreateBatch(ctx, activities); err != nil {
			return err
		}
		if err := tx.Tasks.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		return tx.Projects.Delete(ctx, project.ID)
	})
}

package services

import (
	"context"
	"errors"
	"time"

	"task_analytics/internal/analytics"
	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"
)

const recentActivityLimit = 10

type AnalyticsService interface {
	Dashboard(ctx context.Context, userID, timeRange string) (*analytics.Dashboard, error)
	ProductivityReport(ctx context.Context, userID string, w analytics.Window) (*analytics.ProductivityReport, error)
	ProjectReport(ctx context.Context, userID string, projectID *uint, w analytics.Window) (*analytics.ProjectReport, error)
	TeamReport(ctx context.Context, userID string, w analytics.Window) (*analytics.TeamReport, error)
	Location() *time.Location
}

type analyticsService struct {
	store *repository.Store
	loc   *time.Location
	now   Clock
}

// NewAnalyticsService buckets days and hours in loc. A nil loc means UTC.
func NewAnalyticsService(store *repository.Store, loc *time.Location, clock Clock) AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &analyticsService{store: store, loc: loc, now: orSystemClock(clock)}
}

func (s *analyticsService) Location() *time.Location {
	return s.loc
}

func (s *analyticsService) localNow() time.Time {
	return s.now().In(s.loc)
}

// resolveRange picks the dashboard window name: the explicit one, else the
// stored preference, else week. Unknown names are left to WindowForRange.
func (s *analyticsService) resolveRange(ctx context.Context, userID, timeRange string) (models.TimeRange, error) {
	if timeRange != "" {
		return models.TimeRange(timeRange), nil
	}
	pref, err := s.store.Preferences.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.RangeWeek, nil
	}
	if err != nil {
		return "", err
	}
	return pref.DefaultTimeRange, nil
}

func (s *analyticsService) Dashboard(ctx context.Context, userID, timeRange string) (*analytics.Dashboard, error) {
	name, err := s.resolveRange(ctx, userID, timeRange)
	if err != nil {
		return nil, err
	}
	now := s.localNow()
	w := analytics.WindowForRange(name, now)

	tasks, err := s.store.Tasks.ListCreatedBetween(ctx, repository.TaskFilter{
		UserIDs:     []string{userID},
		CreatedFrom: w.Start,
		CreatedTo:   w.End,
	})
	if err != nil {
		return nil, err
	}
	projects, err := s.store.Projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Activities.List(ctx, repository.ActivityFilter{UserID: userID, Limit: recentActivityLimit})
	if err != nil {
		return nil, err
	}

	dashboard := analytics.BuildDashboard(projects, tasks, recent, w, now)
	return &dashboard, nil
}

func (s *analyticsService) ProductivityReport(ctx context.Context, userID string, w analytics.Window) (*analytics.ProductivityReport, error) {
	created, err := s.store.Tasks.ListCreatedBetween(ctx, repository.TaskFilter{
		UserIDs:     []string{userID},
		CreatedFrom: w.Start,
		CreatedTo:   w.End,
	})
	if err != nil {
		return nil, err
	}
	completed, err := s.store.Tasks.ListCompletedBetween(ctx, userID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	activities, err := s.store.Activities.List(ctx, repository.ActivityFilter{
		UserID: userID,
		From:   &w.Start,
		To:     &w.End,
	})
	if err != nil {
		return nil, err
	}

	report := analytics.BuildProductivityReport(analytics.ProductivityInput{
		Window:     w,
		Now:        s.localNow(),
		Location:   s.loc,
		Created:    created,
		Completed:  completed,
		Activities: activities,
	})
	return &report, nil
}

// ProjectReport answers ErrProjectNotFound for projects the user does not own,
// so report callers cannot discover other users' project ids.
func (s *analyticsService) ProjectReport(ctx context.Context, userID string, projectID *uint, w analytics.Window) (*analytics.ProjectReport, error) {
	if projectID == nil {
		return nil, invalid(apierrors.MsgProjectIDRequired, "projectId is required for project reports")
	}
	project, err := loadOwnedProject(ctx, s.store, *projectID, userID, false)
	if errors.Is(err, ErrForbidden) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.Tasks.ListCreatedBetween(ctx, repository.TaskFilter{
		ProjectID:   &project.ID,
		CreatedFrom: w.Start,
		CreatedTo:   w.End,
	})
	if err != nil {
		return nil, err
	}
	activities, err := s.store.Activities.List(ctx, repository.ActivityFilter{
		ProjectID: &project.ID,
		From:      &w.Start,
		To:        &w.End,
	})
	if err != nil {
		return nil, err
	}

	report := analytics.BuildProjectReport(*project, tasks, activities, w, s.localNow())
	return &report, nil
}

func (s *analyticsService) TeamReport(ctx context.Context, userID string, w analytics.Window) (*analytics.TeamReport, error) {
	teams, err := s.store.Teams.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := &analytics.TeamReport{Period: analytics.NewPeriod(w)}
	if len(teams) == 0 {
		return report, nil
	}

	now := s.localNow()
	for _, team := range teams {
		members, err := s.store.Teams.Members(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		userIDs := make([]string, 0, len(members))
		for _, m := range members {
			userIDs = append(userIDs, m.UserID)
		}
		tasks, err := s.store.Tasks.ListCreatedBetween(ctx, repository.TaskFilter{
			UserIDs:     userIDs,
			CreatedFrom: w.Start,
			CreatedTo:   w.End,
		})
		if err != nil {
			return nil, err
		}
		report.TeamReports = append(report.TeamReports, analytics.BuildTeamEntry(team, members, tasks, w, now))
	}
	return report, nil
}

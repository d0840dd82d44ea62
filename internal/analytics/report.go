package analytics

import (
	"encoding/json"
	"time"

	"task_analytics/internal/models"
)

type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func NewPeriod(w Window) Period {
	return Period{StartDate: FormatISO(w.Start), EndDate: FormatISO(w.End)}
}

type ProductivityReport struct {
	Period                Period          `json:"period"`
	TaskStats             TaskStats       `json:"taskStats"`
	DailyCompletions      []DailyCount    `json:"dailyCompletions"`
	TagEfficiency         []TagEfficiency `json:"tagEfficiency"`
	HourlyProductivity    []HourlyCount   `json:"hourlyProductivity"`
	AverageCompletionTime CompletionTime  `json:"averageCompletionTime"`
}

// ProductivityInput carries the rows a productivity report is computed from.
// Created holds the user's tasks created in the window with tags loaded,
// Completed the user's tasks completed in it.
type ProductivityInput struct {
	Window     Window
	Now        time.Time
	Location   *time.Location
	Created    []models.Task
	Completed  []models.Task
	Activities []models.TaskActivity
}

func BuildProductivityReport(in ProductivityInput) ProductivityReport {
	return ProductivityReport{
		Period:                NewPeriod(in.Window),
		TaskStats:             ComputeTaskStats(in.Created, in.Window, in.Now),
		DailyCompletions:      DailyCompletions(in.Activities, in.Window, in.Location),
		TagEfficiency:         TagEfficiencies(in.Created, in.Window),
		HourlyProductivity:    HourlyProductivity(in.Activities, in.Window, in.Location),
		AverageCompletionTime: AverageCompletionTime(in.Completed, in.Window),
	}
}

type ProjectInfo struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type ProjectReport struct {
	Project          ProjectInfo           `json:"project"`
	Period           Period                `json:"period"`
	TaskStats        TaskStats             `json:"taskStats"`
	TaskProgress     TaskProgress          `json:"taskProgress"`
	TagDistribution  []TagShare            `json:"tagDistribution"`
	RecentActivities []models.TaskActivity `json:"recentActivities"`
}

// BuildProjectReport expects tasks to be the project's tasks created in w with
// tags loaded, and activities the project's activities in w.
func BuildProjectReport(project models.Project, tasks []models.Task, activities []models.TaskActivity, w Window, now time.Time) ProjectReport {
	if activities == nil {
		activities = []models.TaskActivity{}
	}
	for i := range activities {
		if activities[i].TaskTitle == nil {
			unknown := "Unknown Task"
			activities[i].TaskTitle = &unknown
		}
	}
	return ProjectReport{
		Project: ProjectInfo{
			ID:          project.ID,
			Name:        project.Name,
			Description: project.Description,
			CreatedAt:   FormatISO(project.CreatedAt),
			UpdatedAt:   FormatISO(project.UpdatedAt),
		},
		Period:           NewPeriod(w),
		TaskStats:        ComputeTaskStats(tasks, w, now),
		TaskProgress:     ProjectTaskProgress(tasks, w),
		TagDistribution:  TagDistribution(tasks, w),
		RecentActivities: activities,
	}
}

const NoTeamMessage = "User is not a member of any team"

// TeamReport has two JSON shapes: the period plus one entry per team, or a
// message with an empty team list when the user belongs to no team.
type TeamReport struct {
	Period      Period
	TeamReports []TeamReportEntry
}

func (r TeamReport) Empty() bool {
	return len(r.TeamReports) == 0
}

func (r TeamReport) MarshalJSON() ([]byte, error) {
	if r.Empty() {
		return json.Marshal(struct {
			Message string        `json:"message"`
			Teams   []TeamSummary `json:"teams"`
		}{Message: NoTeamMessage, Teams: []TeamSummary{}})
	}
	return json.Marshal(struct {
		Period      Period            `json:"period"`
		TeamReports []TeamReportEntry `json:"teamReports"`
	}{Period: r.Period, TeamReports: r.TeamReports})
}

type Dashboard struct {
	TaskSummary      TaskSummary           `json:"taskSummary"`
	CompletionRate   float64               `json:"completionRate"`
	TasksByProject   []ProjectCount        `json:"tasksByProject"`
	TasksByTag       []TagCount            `json:"tasksByTag"`
	RecentActivities []models.TaskActivity `json:"recentActivities"`
}

func BuildDashboard(projects []models.Project, tasks []models.Task, recent []models.TaskActivity, w Window, now time.Time) Dashboard {
	stats := ComputeTaskStats(tasks, w, now)
	if recent == nil {
		recent = []models.TaskActivity{}
	}
	return Dashboard{
		TaskSummary:      stats.TaskSummary,
		CompletionRate:   stats.CompletionRate,
		TasksByProject:   TasksByProject(projects, tasks, w),
		TasksByTag:       TasksByTag(tasks, w),
		RecentActivities: recent,
	}
}

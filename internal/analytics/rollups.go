package analytics

import (
	"sort"
	"time"

	"task_analytics/internal/models"
)

// TaskBrief is the slice of a task shown inside project progress groups.
type TaskBrief struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Status      models.TaskStatus `json:"status"`
	Priority    int               `json:"priority"`
	DueDate     *time.Time        `json:"dueDate"`
	CreatedAt   time.Time         `json:"createdAt"`
	CompletedAt *time.Time        `json:"completedAt"`
}

type StatusGroups struct {
	Todo       []TaskBrief `json:"TODO"`
	InProgress []TaskBrief `json:"IN_PROGRESS"`
	Done       []TaskBrief `json:"DONE"`
}

type TaskProgress struct {
	TotalTasks     int          `json:"totalTasks"`
	StatusGroups   StatusGroups `json:"statusGroups"`
	CompletionRate float64      `json:"completionRate"`
}

func ProjectTaskProgress(tasks []models.Task, w Window) TaskProgress {
	groups := StatusGroups{Todo: []TaskBrief{}, InProgress: []TaskBrief{}, Done: []TaskBrief{}}
	total := 0
	for _, task := range tasks {
		if !w.Contains(task.CreatedAt) {
			continue
		}
		total++
		brief := TaskBrief{
			ID:          task.ID,
			Title:       task.Title,
			Status:      task.Status,
			Priority:    task.Priority,
			DueDate:     task.DueDate,
			CreatedAt:   task.CreatedAt,
			CompletedAt: task.CompletedAt,
		}
		switch task.Status {
		case models.StatusTodo:
			groups.Todo = append(groups.Todo, brief)
		case models.StatusInProgress:
			groups.InProgress = append(groups.InProgress, brief)
		case models.StatusDone:
			groups.Done = append(groups.Done, brief)
		}
	}
	return TaskProgress{
		TotalTasks:     total,
		StatusGroups:   groups,
		CompletionRate: CompletionRate(len(groups.Done), total),
	}
}

type TagShare struct {
	TagID      uint    `json:"tagId"`
	TagName    string  `json:"tagName"`
	TagColor   string  `json:"tagColor"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TagDistribution reports, per tag, the share of the window's tasks carrying
// it. Percentage is a 0..1 ratio.
func TagDistribution(tasks []models.Task, w Window) []TagShare {
	counts := map[uint]*TagShare{}
	total := 0
	for _, task := range tasks {
		if !w.Contains(task.CreatedAt) {
			continue
		}
		total++
		for _, tag := range task.Tags {
			share, ok := counts[tag.ID]
			if !ok {
				share = &TagShare{TagID: tag.ID, TagName: tag.Name, TagColor: tag.Color}
				counts[tag.ID] = share
			}
			share.Count++
		}
	}

	result := make([]TagShare, 0, len(counts))
	for _, share := range counts {
		share.Percentage = CompletionRate(share.Count, total)
		result = append(result, *share)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TagID < result[j].TagID })
	return result
}

type ProjectCount struct {
	ProjectID      uint   `json:"projectId"`
	ProjectName    string `json:"projectName"`
	TaskCount      int    `json:"taskCount"`
	CompletedCount int    `json:"completedCount"`
}

// TasksByProject lists every given project, including ones with no task in w.
func TasksByProject(projects []models.Project, tasks []models.Task, w Window) []ProjectCount {
	result := make([]ProjectCount, len(projects))
	index := make(map[uint]int, len(projects))
	for i, p := range projects {
		result[i] = ProjectCount{ProjectID: p.ID, ProjectName: p.Name}
		index[p.ID] = i
	}
	for _, task := range tasks {
		if task.ProjectID == nil || !w.Contains(task.CreatedAt) {
			continue
		}
		i, ok := index[*task.ProjectID]
		if !ok {
			continue
		}
		result[i].TaskCount++
		if task.Status == models.StatusDone {
			result[i].CompletedCount++
		}
	}
	return result
}

type TagCount struct {
	TagID          uint   `json:"tagId"`
	TagName        string `json:"tagName"`
	TagColor       string `json:"tagColor"`
	TaskCount      int    `json:"taskCount"`
	CompletedCount int    `json:"completedCount"`
}

// TasksByTag drops tags that have no task in w.
func TasksByTag(tasks []models.Task, w Window) []TagCount {
	efficiencies := TagEfficiencies(tasks, w)
	result := make([]TagCount, len(efficiencies))
	for i, e := range efficiencies {
		result[i] = TagCount{
			TagID:          e.TagID,
			TagName:        e.TagName,
			TagColor:       e.TagColor,
			TaskCount:      e.TaskCount,
			CompletedCount: e.CompletedCount,
		}
	}
	return result
}

type TeamSummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MemberCount int     `json:"memberCount"`
}

type TeamMemberInfo struct {
	ID    string          `json:"id"`
	Name  *string         `json:"name"`
	Email string          `json:"email"`
	Role  models.TeamRole `json:"role"`
}

type MemberStats struct {
	UserID    string          `json:"userId"`
	UserName  *string         `json:"userName"`
	Role      models.TeamRole `json:"role"`
	TaskStats TaskStats       `json:"taskStats"`
}

type TeamReportEntry struct {
	Team          TeamSummary      `json:"team"`
	Members       []TeamMemberInfo `json:"members"`
	TeamTaskStats TeamTaskStats    `json:"teamTaskStats"`
	MemberStats   []MemberStats    `json:"memberStats"`
}

// BuildTeamEntry rolls up tasks, which should hold every member's tasks for
// the window, into team-wide and per-member statistics.
func BuildTeamEntry(team models.Team, members []models.TeamMember, tasks []models.Task, w Window, now time.Time) TeamReportEntry {
	byUser := map[string][]models.Task{}
	memberIDs := map[string]bool{}
	for _, m := range members {
		memberIDs[m.UserID] = true
	}
	var teamTasks []models.Task
	for _, task := range tasks {
		if !memberIDs[task.UserID] {
			continue
		}
		byUser[task.UserID] = append(byUser[task.UserID], task)
		teamTasks = append(teamTasks, task)
	}

	entry := TeamReportEntry{
		Team: TeamSummary{
			ID:          team.ID,
			Name:        team.Name,
			Description: team.Description,
			MemberCount: len(members),
		},
		Members:       make([]TeamMemberInfo, 0, len(members)),
		TeamTaskStats: ComputeTaskStats(teamTasks, w, now).Team(),
		MemberStats:   make([]MemberStats, 0, len(members)),
	}
	for _, m := range members {
		info := TeamMemberInfo{ID: m.UserID, Role: m.Role}
		if m.User != nil {
			info.Name = m.User.Name
			info.Email = m.User.Email
		}
		entry.Members = append(entry.Members, info)
		entry.MemberStats = append(entry.MemberStats, MemberStats{
			UserID:    m.UserID,
			UserName:  info.Name,
			Role:      m.Role,
			TaskStats: ComputeTaskStats(byUser[m.UserID], w, now),
		})
	}
	return entry
}

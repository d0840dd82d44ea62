package analytics

import (
	"sort"
	"time"

	"task_analytics/internal/models"
)

type TaskSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`
	Overdue    int `json:"overdue"`
}

type TaskStats struct {
	TaskSummary
	CompletionRate float64 `json:"completionRate"`
}

// TeamTaskStats is TaskStats without the overdue count.
type TeamTaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"inProgress"`
	Todo           int     `json:"todo"`
	CompletionRate float64 `json:"completionRate"`
}

func (s TaskStats) Team() TeamTaskStats {
	return TeamTaskStats{
		Total:          s.Total,
		Completed:      s.Completed,
		InProgress:     s.InProgress,
		Todo:           s.Todo,
		CompletionRate: s.CompletionRate,
	}
}

// ComputeTaskStats counts tasks created inside w. Overdue compares due dates
// against now, not against the window end.
func ComputeTaskStats(tasks []models.Task, w Window, now time.Time) TaskStats {
	var s TaskSummary
	for _, task := range tasks {
		if !w.Contains(task.CreatedAt) {
			continue
		}
		s.Total++
		switch task.Status {
		case models.StatusDone:
			s.Completed++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusTodo:
			s.Todo++
		}
		if task.Status != models.StatusDone && task.DueDate != nil && task.DueDate.Before(now) {
			s.Overdue++
		}
	}
	return TaskStats{TaskSummary: s, CompletionRate: CompletionRate(s.Completed, s.Total)}
}

type DailyCount struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Created   int    `json:"created"`
}

// DailyCompletions yields one entry per calendar day of w in loc, zero days
// included.
func DailyCompletions(activities []models.TaskActivity, w Window, loc *time.Location) []DailyCount {
	days := []DailyCount{}
	index := map[string]int{}
	last := startOfDay(w.End.In(loc))
	for d := startOfDay(w.Start.In(loc)); !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		index[key] = len(days)
		days = append(days, DailyCount{Date: key})
	}

	for _, a := range activities {
		if !w.Contains(a.Timestamp) {
			continue
		}
		i, ok := index[a.Timestamp.In(loc).Format(dateLayout)]
		if !ok {
			continue
		}
		switch {
		case isCompletion(a):
			days[i].Completed++
		case a.Action == models.ActionCreated:
			days[i].Created++
		}
	}
	return days
}

type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// HourlyProductivity buckets completions in w by local hour of day.
func HourlyProductivity(activities []models.TaskActivity, w Window, loc *time.Location) []HourlyCount {
	hours := make([]HourlyCount, 24)
	for h := range hours {
		hours[h].Hour = h
	}
	for _, a := range activities {
		if !isCompletion(a) || !w.Contains(a.Timestamp) {
			continue
		}
		hours[a.Timestamp.In(loc).Hour()].Count++
	}
	return hours
}

func isCompletion(a models.TaskActivity) bool {
	return a.Action == models.ActionStatusChanged && a.NewStatus != nil && *a.NewStatus == models.StatusDone
}

type TagEfficiency struct {
	TagID                 uint    `json:"tagId"`
	TagName               string  `json:"tagName"`
	TagColor              string  `json:"tagColor"`
	TaskCount             int     `json:"taskCount"`
	CompletedCount        int     `json:"completedCount"`
	CompletionRate        float64 `json:"completionRate"`
	AverageCompletionTime float64 `json:"averageCompletionTime"`
}

// TagEfficiencies groups the tasks created in w by tag. Tasks must carry their
// Tags. Tags without a qualifying task are left out.
func TagEfficiencies(tasks []models.Task, w Window) []TagEfficiency {
	type acc struct {
		tag       models.Tag
		total     int
		completed int
		timed     int
		millis    int64
	}
	groups := map[uint]*acc{}
	for _, task := range tasks {
		if !w.Contains(task.CreatedAt) {
			continue
		}
		for _, tag := range task.Tags {
			g, ok := groups[tag.ID]
			if !ok {
				g = &acc{tag: tag}
				groups[tag.ID] = g
			}
			g.total++
			if task.Status != models.StatusDone {
				continue
			}
			g.completed++
			if task.StartedAt != nil && task.CompletedAt != nil {
				g.timed++
				g.millis += task.CompletedAt.Sub(*task.StartedAt).Milliseconds()
			}
		}
	}

	result := make([]TagEfficiency, 0, len(groups))
	for _, g := range groups {
		e := TagEfficiency{
			TagID:          g.tag.ID,
			TagName:        g.tag.Name,
			TagColor:       g.tag.Color,
			TaskCount:      g.total,
			CompletedCount: g.completed,
			CompletionRate: CompletionRate(g.completed, g.total),
		}
		if g.timed > 0 {
			e.AverageCompletionTime = RoundHours(float64(g.millis) / float64(g.timed) / float64(time.Hour/time.Millisecond))
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TagID < result[j].TagID })
	return result
}

type CompletionTime struct {
	AverageHours float64 `json:"averageHours"`
	TotalTasks   int     `json:"totalTasks"`
}

// AverageCompletionTime averages started-to-completed durations of DONE tasks
// whose completion falls inside w.
func AverageCompletionTime(tasks []models.Task, w Window) CompletionTime {
	var n int
	var total float64
	for _, task := range tasks {
		if task.Status != models.StatusDone || task.StartedAt == nil || task.CompletedAt == nil {
			continue
		}
		if !w.Contains(*task.CompletedAt) {
			continue
		}
		n++
		total += hoursBetween(*task.StartedAt, *task.CompletedAt)
	}
	if n == 0 {
		return CompletionTime{}
	}
	return CompletionTime{AverageHours: RoundHours(total / float64(n)), TotalTasks: n}
}

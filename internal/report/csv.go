package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"task_analytics/internal/analytics"
)

// section is one labelled block of the CSV document. Every row, header
// included, starts with the section label.
type section struct {
	label   string
	columns []string
	rows    [][]string
}

func (s *section) add(values ...string) {
	s.rows = append(s.rows, append([]string{s.label}, values...))
}

// WriteCSV renders a report produced by the analytics package. Sections are
// separated by one blank line.
func WriteCSV(w io.Writer, data interface{}) error {
	var sections []*section
	switch r := data.(type) {
	case analytics.ProductivityReport:
		sections = productivitySections(r)
	case *analytics.ProductivityReport:
		sections = productivitySections(*r)
	case analytics.ProjectReport:
		sections = projectSections(r)
	case *analytics.ProjectReport:
		sections = projectSections(*r)
	case analytics.TeamReport:
		sections = teamSections(r)
	case *analytics.TeamReport:
		sections = teamSections(*r)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownType, data)
	}

	cw := csv.NewWriter(w)
	for i, s := range sections {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		if err := cw.Write(append([]string{s.label}, s.columns...)); err != nil {
			return err
		}
		for _, row := range s.rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func periodSection(p analytics.Period) *section {
	s := &section{label: "Period", columns: []string{"Start Date", "End Date"}}
	s.add(p.StartDate, p.EndDate)
	return s
}

func taskStatsSection(stats analytics.TaskStats) *section {
	s := &section{
		label:   "Task Statistics",
		columns: []string{"Total", "Completed", "In Progress", "Todo", "Overdue", "Completion Rate"},
	}
	s.add(itoa(stats.Total), itoa(stats.Completed), itoa(stats.InProgress), itoa(stats.Todo), itoa(stats.Overdue), ftoa(stats.CompletionRate))
	return s
}

func productivitySections(r analytics.ProductivityReport) []*section {
	daily := &section{label: "Daily Completions", columns: []string{"Date", "Completed", "Created"}}
	for _, d := range r.DailyCompletions {
		daily.add(d.Date, itoa(d.Completed), itoa(d.Created))
	}

	tags := &section{
		label:   "Tag Efficiency",
		columns: []string{"Tag ID", "Tag Name", "Task Count", "Completed Count", "Completion Rate", "Average Completion Time (hours)"},
	}
	for _, t := range r.TagEfficiency {
		tags.add(utoa(t.TagID), t.TagName, itoa(t.TaskCount), itoa(t.CompletedCount), ftoa(t.CompletionRate), ftoa(t.AverageCompletionTime))
	}

	hourly := &section{label: "Hourly Productivity", columns: []string{"Hour", "Task Count"}}
	for _, h := range r.HourlyProductivity {
		hourly.add(itoa(h.Hour), itoa(h.Count))
	}

	avg := &section{label: "Average Completion Time", columns: []string{"Hours", "Total Tasks"}}
	avg.add(ftoa(r.AverageCompletionTime.AverageHours), itoa(r.AverageCompletionTime.TotalTasks))

	return []*section{periodSection(r.Period), taskStatsSection(r.TaskStats), daily, tags, hourly, avg}
}

func projectSections(r analytics.ProjectReport) []*section {
	project := &section{label: "Project", columns: []string{"ID", "Name", "Description", "Created At", "Updated At"}}
	project.add(utoa(r.Project.ID), r.Project.Name, deref(r.Project.Description), r.Project.CreatedAt, r.Project.UpdatedAt)

	progress := &section{label: "Task Progress", columns: []string{"Total Tasks", "Completed Tasks", "Completion Rate"}}
	progress.add(itoa(r.TaskProgress.TotalTasks), itoa(len(r.TaskProgress.StatusGroups.Done)), ftoa(r.TaskProgress.CompletionRate))

	tags := &section{label: "Tag Distribution", columns: []string{"Tag ID", "Tag Name", "Count", "Percentage"}}
	for _, t := range r.TagDistribution {
		tags.add(utoa(t.TagID), t.TagName, itoa(t.Count), ftoa(t.Percentage))
	}

	return []*section{project, periodSection(r.Period), taskStatsSection(r.TaskStats), progress, tags}
}

func teamSections(r analytics.TeamReport) []*section {
	if r.Empty() {
		s := &section{label: "Team Report", columns: []string{"Message"}}
		s.add(analytics.NoTeamMessage)
		return []*section{s}
	}

	sections := []*section{periodSection(r.Period)}
	for _, tr := range r.TeamReports {
		team := &section{label: "Team", columns: []string{"ID", "Name", "Description", "Member Count"}}
		team.add(utoa(tr.Team.ID), tr.Team.Name, deref(tr.Team.Description), itoa(tr.Team.MemberCount))

		stats := &section{
			label:   "Team Task Statistics",
			columns: []string{"Total", "Completed", "In Progress", "Todo", "Completion Rate"},
		}
		ts := tr.TeamTaskStats
		stats.add(itoa(ts.Total), itoa(ts.Completed), itoa(ts.InProgress), itoa(ts.Todo), ftoa(ts.CompletionRate))

		members := &section{label: "Members", columns: []string{"User ID", "Name", "Email", "Role"}}
		for _, m := range tr.Members {
			members.add(m.ID, deref(m.Name), m.Email, string(m.Role))
		}

		memberStats := &section{
			label:   "Member Statistics",
			columns: []string{"User ID", "Name", "Role", "Total Tasks", "Completed Tasks", "Completion Rate"},
		}
		for _, m := range tr.MemberStats {
			memberStats.add(m.UserID, deref(m.UserName), string(m.Role), itoa(m.TaskStats.Total), itoa(m.TaskStats.Completed), ftoa(m.TaskStats.CompletionRate))
		}

		sections = append(sections, team, stats, members, memberStats)
	}
	return sections
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func utoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// ftoa prints the shortest representation: 2 not 2.0, 0.33 not 0.330000.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

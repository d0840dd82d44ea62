package report

import (
	"bytes"
	"strings"
	"testing"

	"task_analytics/internal/analytics"
	"task_analytics/internal/models"

	"github.com/stretchr/testify/require"
)

var period = analytics.Period{StartDate: "2024-01-01T00:00:00.000Z", EndDate: "2024-01-02T23:59:59.999Z"}

func TestParseTypeAndFormat(t *testing.T) {
	typ, err := ParseType("")
	require.NoError(t, err)
	require.Equal(t, TypeProductivity, typ)
	typ, err = ParseType("team")
	require.NoError(t, err)
	require.Equal(t, TypeTeam, typ)
	_, err = ParseType("weekly")
	require.ErrorIs(t, err, ErrUnknownType)

	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)
	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)

	require.Equal(t, `attachment; filename="project_report.csv"`, ContentDisposition(TypeProject))
}

func TestWriteCSV_Productivity(t *testing.T) {
	hourly := make([]analytics.HourlyCount, 24)
	for h := range hourly {
		hourly[h].Hour = h
	}
	hourly[9].Count = 2

	r := analytics.ProductivityReport{
		Period: period,
		TaskStats: analytics.TaskStats{
			TaskSummary:    analytics.TaskSummary{Total: 3, Completed: 1, InProgress: 1, Todo: 1, Overdue: 0},
			CompletionRate: 0.33,
		},
		DailyCompletions: []analytics.DailyCount{
			{Date: "2024-01-01", Completed: 1, Created: 3},
			{Date: "2024-01-02"},
		},
		TagEfficiency: []analytics.TagEfficiency{
			{TagID: 4, TagName: "deep work", TagColor: "#000000", TaskCount: 3, CompletedCount: 1, CompletionRate: 0.33, AverageCompletionTime: 2},
		},
		HourlyProductivity:    hourly,
		AverageCompletionTime: analytics.CompletionTime{AverageHours: 2, TotalTasks: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r))
	lines := strings.Split(buf.String(), "\n")

	require.Equal(t, "Period,Start Date,End Date", lines[0])
	require.Equal(t, "Period,2024-01-01T00:00:00.000Z,2024-01-02T23:59:59.999Z", lines[1])
	require.Equal(t, "", lines[2])
	require.Equal(t, "Task Statistics,Total,Completed,In Progress,Todo,Overdue,Completion Rate", lines[3])
	require.Equal(t, "Task Statistics,3,1,1,1,0,0.33", lines[4])
	require.Equal(t, "", lines[5])
	require.Equal(t, "Daily Completions,Date,Completed,Created", lines[6])
	require.Equal(t, "Daily Completions,2024-01-01,1,3", lines[7])
	require.Equal(t, "Daily Completions,2024-01-02,0,0", lines[8])
	require.Equal(t, "", lines[9])
	require.Equal(t, "Tag Efficiency,Tag ID,Tag Name,Task Count,Completed Count,Completion Rate,Average Completion Time (hours)", lines[10])
	require.Equal(t, "Tag Efficiency,4,deep work,3,1,0.33,2", lines[11])
	require.Equal(t, "", lines[12])
	require.Equal(t, "Hourly Productivity,Hour,Task Count", lines[13])
	require.Equal(t, "Hourly Productivity,0,0", lines[14])
	require.Equal(t, "Hourly Productivity,9,2", lines[23])
	require.Equal(t, "", lines[38])
	require.Equal(t, "Average Completion Time,Hours,Total Tasks", lines[39])
	require.Equal(t, "Average Completion Time,2,1", lines[40])
	require.Equal(t, "", lines[41], "document ends with a single newline")
	require.Len(t, lines, 42)
}

func TestWriteCSV_ProjectQuotesFreeText(t *testing.T) {
	desc := `Ship v2, then "polish"`
	r := &analytics.ProjectReport{
		Project: analytics.ProjectInfo{
			ID: 12, Name: "Launch", Description: &desc,
			CreatedAt: "2024-01-01T00:00:00.000Z", UpdatedAt: "2024-01-02T00:00:00.000Z",
		},
		Period:    period,
		TaskStats: analytics.TaskStats{TaskSummary: analytics.TaskSummary{Total: 2, Completed: 1}, CompletionRate: 0.5},
		TaskProgress: analytics.TaskProgress{
			TotalTasks:     2,
			StatusGroups:   analytics.StatusGroups{Done: []analytics.TaskBrief{{ID: 1}}},
			CompletionRate: 0.5,
		},
		TagDistribution: []analytics.TagShare{{TagID: 3, TagName: "qa", Count: 1, Percentage: 0.5}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r))
	require.Equal(t, strings.Join([]string{
		"Project,ID,Name,Description,Created At,Updated At",
		`Project,12,Launch,"Ship v2, then ""polish""",2024-01-01T00:00:00.000Z,2024-01-02T00:00:00.000Z`,
		"",
		"Period,Start Date,End Date",
		"Period,2024-01-01T00:00:00.000Z,2024-01-02T23:59:59.999Z",
		"",
		"Task Statistics,Total,Completed,In Progress,Todo,Overdue,Completion Rate",
		"Task Statistics,2,1,0,0,0,0.5",
		"",
		"Task Progress,Total Tasks,Completed Tasks,Completion Rate",
		"Task Progress,2,1,0.5",
		"",
		"Tag Distribution,Tag ID,Tag Name,Count,Percentage",
		"Tag Distribution,3,qa,1,0.5",
		"",
	}, "\n"), buf.String())
}

func TestWriteCSV_Team(t *testing.T) {
	name := "Ann"
	r := analytics.TeamReport{
		Period: period,
		TeamReports: []analytics.TeamReportEntry{{
			Team:          analytics.TeamSummary{ID: 1, Name: "core", MemberCount: 1},
			Members:       []analytics.TeamMemberInfo{{ID: "u1", Name: &name, Email: "ann@example.com", Role: models.RoleOwner}},
			TeamTaskStats: analytics.TeamTaskStats{Total: 4, Completed: 2, InProgress: 1, Todo: 1, CompletionRate: 0.5},
			MemberStats: []analytics.MemberStats{{
				UserID: "u1", UserName: &name, Role: models.RoleOwner,
				TaskStats: analytics.TaskStats{TaskSummary: analytics.TaskSummary{Total: 4, Completed: 2}, CompletionRate: 0.5},
			}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r))
	out := buf.String()
	require.Contains(t, out, "Team,ID,Name,Description,Member Count\nTeam,1,core,,1\n\n")
	require.Contains(t, out, "Team Task Statistics,Total,Completed,In Progress,Todo,Completion Rate\nTeam Task Statistics,4,2,1,1,0.5\n\n")
	require.Contains(t, out, "Members,User ID,Name,Email,Role\nMembers,u1,Ann,ann@example.com,owner\n\n")
	require.Contains(t, out, "Member Statistics,User ID,Name,Role,Total Tasks,Completed Tasks,Completion Rate\nMember Statistics,u1,Ann,owner,4,2,0.5\n")
}

func TestWriteCSV_TeamWithoutMembership(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, analytics.TeamReport{}))
	require.Equal(t, "Team Report,Message\nTeam Report,User is not a member of any team\n", buf.String())
}

func TestWriteCSV_RejectsUnknownPayload(t *testing.T) {
	err := WriteCSV(&bytes.Buffer{}, map[string]int{})
	require.ErrorIs(t, err, ErrUnknownType)
}

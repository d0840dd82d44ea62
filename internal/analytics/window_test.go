package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"task_analytics/internal/models"

	"github.com/stretchr/testify/require"
)

func TestWindowForRange(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, loc)

	day := WindowForRange(models.RangeDay, now)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), day.Start)
	require.Equal(t, now, day.End)

	require.Equal(t, now.AddDate(0, 0, -7), WindowForRange(models.RangeWeek, now).Start)
	require.Equal(t, time.Date(2024, 2, 15, 14, 0, 0, 0, loc), WindowForRange(models.RangeMonth, now).Start)
	require.Equal(t, time.Date(2023, 3, 15, 14, 0, 0, 0, loc), WindowForRange(models.RangeYear, now).Start)
	require.Equal(t, now.AddDate(0, 0, -7), WindowForRange("fortnight", now).Start)
}

func TestWindowContainsIsInclusive(t *testing.T) {
	w := Window{Start: t0, End: t0.Add(time.Hour)}
	require.True(t, w.Contains(t0))
	require.True(t, w.Contains(t0.Add(time.Hour)))
	require.False(t, w.Contains(t0.Add(-time.Nanosecond)))
	require.False(t, w.Contains(t0.Add(time.Hour+time.Nanosecond)))
}

func TestParseReportWindow(t *testing.T) {
	w, err := ParseReportWindow("2024-01-01", "2024-01-07", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	require.Equal(t, time.Date(2024, 1, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)

	w, err = ParseReportWindow("2024-01-01T10:00:00Z", "2024-01-01T12:30:00+02:00", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), w.End.UTC())

	_, err = ParseReportWindow("", "2024-01-07", time.UTC)
	require.ErrorIs(t, err, ErrMissingDate)
	_, err = ParseReportWindow("yesterday", "2024-01-07", time.UTC)
	require.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseReportWindow("2024-02-01", "2024-01-07", time.UTC)
	require.ErrorIs(t, err, ErrInvertedWindow)
}

func TestNewPeriodFormatsISO(t *testing.T) {
	p := NewPeriod(Window{
		Start: time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600)),
		End:   time.Date(2024, 1, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	})
	require.Equal(t, "2024-01-01T00:00:00.000Z", p.StartDate)
	require.Equal(t, "2024-01-07T23:59:59.999Z", p.EndDate)
}

func TestTeamReportJSONShapes(t *testing.T) {
	out, err := json.Marshal(TeamReport{})
	require.NoError(t, err)
	require.JSONEq(t, `{"message":"User is not a member of any team","teams":[]}`, string(out))

	report := TeamReport{
		Period:      Period{StartDate: "a", EndDate: "b"},
		TeamReports: []TeamReportEntry{{Team: TeamSummary{ID: 1, Name: "core"}, Members: []TeamMemberInfo{}, MemberStats: []MemberStats{}}},
	}
	out, err = json.Marshal(report)
	require.NoError(t, err)
	require.Contains(t, string(out), `"period":{"startDate":"a","endDate":"b"}`)
	require.Contains(t, string(out), `"teamReports":[{"team":{"id":1,"name":"core","description":null,"memberCount":0}`)
}

func TestParseTimeBounds(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	start, err := ParseTime("2024-03-01", tokyo)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, tokyo), start)

	end, err := ParseEndTime("2024-03-01", tokyo)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, int(999*time.Millisecond), tokyo), end)

	exact, err := ParseEndTime("2024-03-01T10:00:00Z", tokyo)
	require.NoError(t, err)
	require.True(t, exact.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	_, err = ParseTime("yesterday", tokyo)
	require.ErrorIs(t, err, ErrInvalidDate)
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"TODO":        StatusTodo,
		"todo":        StatusTodo,
		" pending ":   StatusTodo,
		"IN_PROGRESS": StatusInProgress,
		"in-progress": StatusInProgress,
		"in_progress": StatusInProgress,
		"DONE":        StatusDone,
		"done":        StatusDone,
	}
	for raw, want := range cases {
		got, err := ParseTaskStatus(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}
}

func TestParseTaskStatus_Rejects(t *testing.T) {
	for _, raw := range []string{"", "finished", "in progress", "DONE!"} {
		_, err := ParseTaskStatus(raw)
		require.ErrorIs(t, err, ErrInvalidStatus, raw)
	}
}

func TestActivityActionValid(t *testing.T) {
	require.True(t, ActionCreated.Valid())
	require.True(t, ActionStatusChanged.Valid())
	require.True(t, ActionDeleted.Valid())
	require.False(t, ActivityAction("archived").Valid())
}

func TestJSONColumn(t *testing.T) {
	var pref AnalyticsPreference
	require.NoError(t, json.Unmarshal([]byte(`{"dashboardLayout":{"widgets":["summary"]}}`), &pref))
	require.JSONEq(t, `{"widgets":["summary"]}`, string(pref.DashboardLayout))

	value, err := pref.DashboardLayout.Value()
	require.NoError(t, err)
	require.Equal(t, `{"widgets":["summary"]}`, value)

	var scanned JSON
	require.NoError(t, scanned.Scan([]byte(`[1,2]`)))
	require.Equal(t, JSON(`[1,2]`), scanned)
	require.NoError(t, scanned.Scan(nil))
	require.Nil(t, scanned)

	out, err := json.Marshal(AnalyticsPreference{})
	require.NoError(t, err)
	require.Contains(t, string(out), `"dashboardLayout":null`)
}

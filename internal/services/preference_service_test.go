package services

import (
	"context"
	"errors"
	"testing"

	"task_analytics/internal/models"
	"task_analytics/pkg/apierrors"

	"github.com/stretchr/testify/require"
)

func TestPreferenceService_LazyDefaults(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	svc := NewPreferenceService(store, clock.Now)

	pref, err := svc.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	require.True(t, pref.DataCollectionEnabled)
	require.Equal(t, models.RangeWeek, pref.DefaultTimeRange)
	require.Nil(t, pref.DashboardLayout)

	again, err := svc.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, pref.ID, again.ID)
}

func TestPreferenceService_Update(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)
	svc := NewPreferenceService(store, clock.Now)

	month := "month"
	pref, err := svc.UpdatePreferences(ctx, "u1", UpdatePreferenceInput{
		DefaultTimeRange:   &month,
		DashboardLayout:    models.JSON(`{"widgets":["summary"]}`),
		DashboardLayoutSet: true,
	})
	require.NoError(t, err)
	require.Equal(t, models.RangeMonth, pref.DefaultTimeRange)
	require.True(t, pref.DataCollectionEnabled, "unset fields keep their defaults")

	off := false
	pref, err = svc.UpdatePreferences(ctx, "u1", UpdatePreferenceInput{DataCollectionEnabled: &off})
	require.NoError(t, err)
	require.False(t, pref.DataCollectionEnabled)
	require.JSONEq(t, `{"widgets":["summary"]}`, string(pref.DashboardLayout))

	stored, err := svc.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	require.False(t, stored.DataCollectionEnabled)
	require.Equal(t, models.RangeMonth, stored.DefaultTimeRange)

	decade := "decade"
	_, err = svc.UpdatePreferences(ctx, "u1", UpdatePreferenceInput{DefaultTimeRange: &decade})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, apierrors.MsgInvalidTimeRange, verr.Key)
}

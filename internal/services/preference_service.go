package services

import (
	"context"
	"errors"

	"task_analytics/internal/models"
	"task_analytics/internal/repository"
	"task_analytics/pkg/apierrors"

	"gorm.io/gorm"
)

type UpdatePreferenceInput struct {
	DataCollectionEnabled *bool
	DefaultTimeRange      *string
	DashboardLayout       models.JSON
	DashboardLayoutSet    bool
}

type PreferenceService interface {
	GetPreferences(ctx context.Context, userID string) (*models.AnalyticsPreference, error)
	UpdatePreferences(ctx context.Context, userID string, in UpdatePreferenceInput) (*models.AnalyticsPreference, error)
}

type preferenceService struct {
	store *repository.Store
	now   Clock
}

func NewPreferenceService(store *repository.Store, clock Clock) PreferenceService {
	return &preferenceService{store: store, now: orSystemClock(clock)}
}

func (s *preferenceService) defaults(userID string) *models.AnalyticsPreference {
	now := s.now()
	return &models.AnalyticsPreference{
		UserID:                userID,
		DataCollectionEnabled: true,
		DefaultTimeRange:      models.RangeWeek,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// GetPreferences creates the default row on first read. A concurrent first
// read that wins the insert is picked up by re-reading.
func (s *preferenceService) GetPreferences(ctx context.Context, userID string) (*models.AnalyticsPreference, error) {
	pref, err := s.store.Preferences.GetByUser(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	pref = s.defaults(userID)
	err = s.store.Preferences.Create(ctx, pref)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.store.Preferences.GetByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *preferenceService) UpdatePreferences(ctx context.Context, userID string, in UpdatePreferenceInput) (*models.AnalyticsPreference, error) {
	var timeRange *models.TimeRange
	if in.DefaultTimeRange != nil {
		r := models.TimeRange(*in.DefaultTimeRange)
		if !r.Valid() {
			return nil, invalid(apierrors.MsgInvalidTimeRange, "time range must be one of day, week, month, year")
		}
		timeRange = &r
	}

	var pref *models.AnalyticsPreference
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		pref, err = tx.Preferences.GetByUser(ctx, userID)
		create := errors.Is(err, repository.ErrNotFound)
		if create {
			pref = s.defaults(userID)
		} else if err != nil {
			return err
		}

		if in.DataCollectionEnabled != nil {
			pref.DataCollectionEnabled = *in.DataCollectionEnabled
		}
		if timeRange != nil {
			pref.DefaultTimeRange = *timeRange
		}
		if in.DashboardLayoutSet {
			pref.DashboardLayout = in.DashboardLayout
		}
		pref.UpdatedAt = s.now()

		if create {
			return tx.Preferences.Create(ctx, pref)
		}
		return tx.Preferences.Save(ctx, pref)
	})
	if err != nil {
		return nil, err
	}
	return pref, nil
}

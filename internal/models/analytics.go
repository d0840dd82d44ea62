package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type ProductivityGoal struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"userId" gorm:"not null;size:64;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	TargetType  string     `json:"targetType" gorm:"not null"`
	TargetValue float64    `json:"targetValue" gorm:"not null"`
	StartDate   time.Time  `json:"startDate" gorm:"not null"`
	EndDate     *time.Time `json:"endDate"`
	Achieved    bool       `json:"achieved" gorm:"not null"`
	Progress    float64    `json:"progress" gorm:"not null"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TimeRange string

const (
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

func (r TimeRange) Valid() bool {
	switch r {
	case RangeDay, RangeWeek, RangeMonth, RangeYear:
		return true
	}
	return false
}

type AnalyticsPreference struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	UserID                string    `json:"userId" gorm:"not null;size:64;uniqueIndex"`
	DataCollectionEnabled bool      `json:"dataCollectionEnabled" gorm:"not null"`
	DefaultTimeRange      TimeRange `json:"defaultTimeRange" gorm:"type:varchar(10);not null"`
	DashboardLayout       JSON      `json:"dashboardLayout"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// JSON holds an opaque client document. A nil value round-trips as SQL NULL
// and JSON null.
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*j = nil
		return nil
	}
	*j = append((*j)[:0], data...)
	return nil
}

func (JSON) GormDataType() string {
	return "json"
}

func (JSON) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

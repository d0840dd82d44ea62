package models

import (
	"time"
)

type ActivityAction string

const (
	ActionCreated       ActivityAction = "created"
	ActionStatusChanged ActivityAction = "status_changed"
	ActionDeleted       ActivityAction = "deleted"
)

func (a ActivityAction) Valid() bool {
	switch a {
	case ActionCreated, ActionStatusChanged, ActionDeleted:
		return true
	}
	return false
}

// TaskActivity is append-only. TaskID has no foreign key: the "deleted"
// record outlives its task.
type TaskActivity struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TaskID      uint           `json:"taskId" gorm:"not null;index"`
	UserID      string         `json:"userId" gorm:"not null;size:64;index"`
	Action      ActivityAction `json:"action" gorm:"type:varchar(32);not null;index"`
	OldStatus   *TaskStatus    `json:"oldStatus" gorm:"type:varchar(20)"`
	NewStatus   *TaskStatus    `json:"newStatus" gorm:"type:varchar(20)"`
	OldPriority *int           `json:"oldPriority"`
	NewPriority *int           `json:"newPriority"`
	Timestamp   time.Time      `json:"timestamp" gorm:"not null;index"`

	TaskTitle *string `json:"taskTitle,omitempty" gorm:"->;-:migration"`
}

package models

import (
	"errors"
	"strings"
	"time"
)

type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Priority    int        `json:"priority" gorm:"not null"`
	DueDate     *time.Time `json:"dueDate"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	ProjectID   *uint      `json:"projectId" gorm:"index"`
	Project     *Project   `json:"project" gorm:"constraint:OnDelete:CASCADE"`
	UserID      string     `json:"userId" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Tags        []Tag      `json:"tags" gorm:"many2many:task_tags"`
}

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// DefaultPriority is the "low" bucket of the 1..3 scale the dashboard uses.
const DefaultPriority = 1

// Priority accepts 0..127 so it fits a small integer column on every
// driver. Values outside it are rejected with invalidPriority.
const (
	MinPriority = 0
	MaxPriority = 127
)

var ErrInvalidStatus = errors.New("invalid task status")

// ParseTaskStatus maps every accepted spelling of a status onto the canonical
// enumeration. "pending" is what older dashboard builds send for new tasks.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_"))
	switch normalized {
	case string(StatusTodo), "PENDING":
		return StatusTodo, nil
	case string(StatusInProgress):
		return StatusInProgress, nil
	case string(StatusDone):
		return StatusDone, nil
	}
	return "", ErrInvalidStatus
}

func (s TaskStatus) Ptr() *TaskStatus {
	return &s
}

// TaskTag is the explicit join row behind Task.Tags.
type TaskTag struct {
	TaskID uint `json:"taskId" gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `json:"tagId" gorm:"primaryKey;autoIncrement:false;index"`
}

func (TaskTag) TableName() string {
	return "task_tags"
}

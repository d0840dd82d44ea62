package models

import (
	"time"
)

type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	UserID      string    `json:"userId" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// TaskCount is only populated by listing queries.
	TaskCount *int64 `json:"taskCount,omitempty" gorm:"->;-:migration"`
}

type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100;uniqueIndex"`
	Color     string    `json:"color" gorm:"not null;size:7"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TaskCount *int64 `json:"taskCount,omitempty" gorm:"->;-:migration"`
}

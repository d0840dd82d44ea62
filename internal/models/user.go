package models

import (
	"time"
)

// User mirrors the identity provider's profile. The id is the provider's
// subject, so it is never generated locally.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Email     string    `json:"email" gorm:"not null"`
	Name      *string   `json:"name"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Team struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"not null"`
	Description *string      `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Members     []TeamMember `json:"members,omitempty"`
}

type TeamRole string

const (
	RoleOwner  TeamRole = "owner"
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
)

type TeamMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeamID    uint      `json:"teamId" gorm:"not null;uniqueIndex:idx_team_member"`
	Team      *Team     `json:"team,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	UserID    string    `json:"userId" gorm:"not null;size:64;uniqueIndex:idx_team_member"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role      TeamRole  `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"createdAt"`
}

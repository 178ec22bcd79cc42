package models

import "github.com/google/uuid"

// Vote is a single user's vote on an experience. The composite unique index
// guarantees at most one row per (experience, user) pair at the database
// level; the toggle logic depends on it.
type Vote struct {
	BaseUUIDModel
	ExperienceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_experience_user" json:"experienceId"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_experience_user" json:"userId"`
	Upvote       bool      `gorm:"not null" json:"upvote"`
}

// VoteState reports the caller's vote on an experience after a toggle.
type VoteState string

const (
	VoteStateUp   VoteState = "up"
	VoteStateDown VoteState = "down"
	VoteStateNone VoteState = "none"
)

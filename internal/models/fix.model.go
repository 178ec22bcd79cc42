package models

import (
	"time"

	"github.com/google/uuid"
)

// FixStatus tracks the claimant's own progress. It is intentionally
// independent of the parent experience's status; nothing propagates between
// the two lifecycles.
type FixStatus string

const (
	FixStatusClaimed    FixStatus = "claimed"
	FixStatusInProgress FixStatus = "in_progress"
	FixStatusCompleted  FixStatus = "completed"
	FixStatusAbandoned  FixStatus = "abandoned"
)

func (s FixStatus) IsValid() bool {
	switch s {
	case FixStatusClaimed, FixStatusInProgress, FixStatusCompleted, FixStatusAbandoned:
		return true
	}
	return false
}

// ExperienceFix records one user's commitment to remediate an experience.
// A user can hold at most one claim per experience.
type ExperienceFix struct {
	BaseUUIDModel
	ExperienceID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_fixes_experience_claimant" json:"experienceId"`
	Experience   *Experience `gorm:"foreignKey:ExperienceID"                                      json:"experience,omitempty"`
	ClaimedByID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_fixes_experience_claimant" json:"claimedById"`
	ClaimedBy    *User       `gorm:"foreignKey:ClaimedByID"                                       json:"claimedBy,omitempty"`

	Status      FixStatus  `gorm:"type:text;not null;default:'claimed'" json:"status"`
	Notes       *string    `gorm:"type:text"                            json:"notes,omitempty"`
	CompletedAt *time.Time `gorm:"type:timestamp"                       json:"completedAt,omitempty"`

	ProofImages []ExperienceImage `gorm:"foreignKey:ExperienceFixID;constraint:OnDelete:CASCADE" json:"proofImages,omitempty"`
}
